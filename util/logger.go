package util

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Supported values of the log format setting.
const (
	LogFormatText  = "text"
	LogFormatJSON  = "json"
	LogFormatColor = "color"
)

// InitLogger configures the global logrus logger with the given level
// ("trace" through "fatal") and format, writing to out.
func InitLogger(out io.Writer, level, format string) error {
	switch format {
	case LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	case LogFormatText, "":
		log.SetFormatter(&log.TextFormatter{})
	case LogFormatColor:
		log.SetFormatter(&log.TextFormatter{ForceColors: true})
	default:
		return errors.Errorf("unrecognized log format %q", format)
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "unrecognized log level")
	}
	log.SetLevel(lvl)
	log.SetOutput(out)
	return nil
}
