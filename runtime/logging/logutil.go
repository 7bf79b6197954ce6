// Package logging configures the persistent file logger of the node.
package logging

import (
	"os"
	"strings"

	joonix "github.com/joonix/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var _ = logrus.Hook(&WriterHook{})

// WriterHook forwards every entry of the given levels to a logger.
type WriterHook struct {
	LogLevels []logrus.Level
	Logger    *logrus.Logger
}

// Fire writes the formatted entry without its trailing newline.
func (hook *WriterHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	hook.Logger.Println(strings.TrimSuffix(line, "\n"))
	return nil
}

// Levels --
func (hook *WriterHook) Levels() []logrus.Level {
	return hook.LogLevels
}

// Formatter returns the logrus formatter registered under the given name:
// text, fluentd or json.
func Formatter(name string, colors bool) (logrus.Formatter, error) {
	switch name {
	case "text":
		formatter := new(prefixed.TextFormatter)
		formatter.TimestampFormat = "2006-01-02 15:04:05"
		formatter.FullTimestamp = true
		formatter.DisableColors = !colors
		return formatter, nil
	case "fluentd":
		return joonix.NewFormatter(), nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, errors.Errorf("unknown log format %s", name)
	}
}

// ConfigurePersistentLogging appends every log entry to the named file in the
// given format.
func ConfigurePersistentLogging(logFileName, logFileFormatName string) error {
	formatter, err := Formatter(logFileFormatName, false)
	if err != nil {
		return err
	}
	logrus.WithField("logFileName", logFileName).Info("Logs will be made persistent")
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.Wrap(err, "could not open log file")
	}
	fileLogger := &logrus.Logger{
		Out:       f,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.TraceLevel,
	}
	logrus.AddHook(&WriterHook{
		LogLevels: logrus.AllLevels,
		Logger:    fileLogger,
	})
	logrus.Info("File logger initialized")
	return nil
}
