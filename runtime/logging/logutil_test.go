package logging

import (
	"os"
	"path/filepath"
	"testing"

	joonix "github.com/joonix/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

func TestFormatter(t *testing.T) {
	f, err := Formatter("text", true)
	require.NoError(t, err)
	assert.IsType(t, &prefixed.TextFormatter{}, f)

	f, err = Formatter("fluentd", false)
	require.NoError(t, err)
	assert.IsType(t, joonix.NewFormatter(), f)

	f, err = Formatter("json", false)
	require.NoError(t, err)
	assert.IsType(t, &logrus.JSONFormatter{}, f)

	_, err = Formatter("xml", false)
	assert.ErrorContains(t, err, "unknown log format")
}

func TestConfigurePersistentLogging(t *testing.T) {
	hooks := logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(hooks) })

	logFile := filepath.Join(t.TempDir(), "beacon.log")
	require.NoError(t, ConfigurePersistentLogging(logFile, "json"))
	logrus.WithField("prefix", "test").Info("persisted line")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "persisted line")
}

func TestConfigurePersistentLogging_UnknownFormat(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "beacon.log")
	assert.ErrorContains(t, ConfigurePersistentLogging(logFile, "xml"), "unknown log format")
}
