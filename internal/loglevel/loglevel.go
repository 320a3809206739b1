// Package loglevel holds the daemon log severities and their decoding from
// configuration.
package loglevel

import (
	"log/slog"
	"strings"

	"github.com/specialistvlad/oconfig/internal/decode"
)

// Level is a daemon log severity. Values follow syslog numbering.
type Level int

const (
	Error   Level = 3
	Warning Level = 4
	Notice  Level = 5
	Info    Level = 6
	Debug   Level = 7
)

// LevelNotice sits between slog's info and warn levels.
const LevelNotice = slog.LevelInfo + 2

// Parse resolves a level name. Matching is case-insensitive and accepts the
// short forms ERR and WARN.
func Parse(s string) (Level, error) {
	upper := strings.ToUpper(s)
	switch upper {
	case "INFO":
		return Info, nil
	case "DEBUG":
		return Debug, nil
	case "ERR", "ERROR":
		return Error, nil
	case "WARN", "WARNING":
		return Warning, nil
	case "NOTICE":
		return Notice, nil
	}
	return 0, decode.Errorf("did not expect log level of: %s", upper)
}

// UnmarshalConfig decodes a level as a unit variant named by a single string
// value. Variant names are matched case-insensitively and accept aliases.
func (l *Level) UnmarshalConfig(d *decode.Decoder) error {
	return d.ReadEnum(func(va *decode.VariantAccess) error {
		name, err := va.Variant()
		if err != nil {
			return err
		}
		parsed, err := Parse(name)
		if err != nil {
			return err
		}
		*l = parsed
		return va.Unit()
	})
}

func (l Level) String() string {
	switch l {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Notice:
		return "NOTICE"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	}
	return "UNKNOWN"
}

// MarshalYAML renders the level by name.
func (l Level) MarshalYAML() (any, error) {
	return l.String(), nil
}

// Slog maps the level onto log/slog.
func (l Level) Slog() slog.Level {
	switch l {
	case Error:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	case Notice:
		return LevelNotice
	case Debug:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
