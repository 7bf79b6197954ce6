package params

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LoadChainConfigFile load, convert hex values into valid param yaml format,
// unmarshal, and apply beacon chain config file.
func LoadChainConfigFile(chainConfigFileName string) error {
	yamlFile, err := os.ReadFile(chainConfigFileName) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "could not read chain config file")
	}
	conf, err := UnmarshalConfig(yamlFile)
	if err != nil {
		return err
	}
	log.Debugf("Config file values: %+v", conf)
	OverrideBeaconConfig(conf)
	return nil
}

// UnmarshalConfig parses a yaml chain config on top of the preset it declares,
// mainnet being the default.
func UnmarshalConfig(yamlFile []byte) (*BeaconChainConfig, error) {
	conf := MainnetConfig()
	hasConfigName := false
	lines := strings.Split(string(yamlFile), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "CONFIG_NAME") {
			hasConfigName = true
		}
		if strings.HasPrefix(line, "PRESET_BASE: 'minimal'") ||
			strings.HasPrefix(line, `PRESET_BASE: "minimal"`) ||
			strings.HasPrefix(line, "PRESET_BASE: minimal") {
			conf = MinimalSpecConfig()
		}
		if !strings.HasPrefix(line, "#") && strings.Contains(line, "0x") {
			parts, err := ReplaceHexStringWithYAMLFormat(line)
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse line %d", i+1)
			}
			lines[i] = strings.Join(parts, "\n")
		}
	}
	yamlFile = []byte(strings.Join(lines, "\n"))
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		return nil, errors.Wrap(err, "failed to parse chain config yaml file")
	}
	if !hasConfigName {
		conf.ConfigName = "devnet"
	}
	return conf, nil
}

// ReplaceHexStringWithYAMLFormat will replace hex strings that the yaml parser will understand.
func ReplaceHexStringWithYAMLFormat(line string) ([]string, error) {
	parts := strings.Split(line, "0x")
	decoded, err := hex.DecodeString(strings.TrimSpace(strings.Trim(parts[1], `"'`)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode hex string")
	}
	var out []byte
	switch l := len(decoded); {
	case l == 1:
		out, err = yaml.Marshal(decoded[0])
		parts[0] += string(out)
		return parts[:1], err
	case l <= 4:
		var arr [4]byte
		copy(arr[:], decoded)
		out, err = yaml.Marshal(arr)
	case l <= 32:
		var arr [32]byte
		copy(arr[:], decoded)
		out, err = yaml.Marshal(arr)
	default:
		out, err = yaml.Marshal(decoded)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config value")
	}
	parts[1] = string(out)
	return parts, nil
}
