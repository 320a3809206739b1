package app

import "github.com/specialistvlad/oconfig/internal/loglevel"

// Globals are the directives outside any Plugin block.
type Globals struct {
	Hostname   string         `yaml:"hostname,omitempty"`
	Interval   float64        `yaml:"interval"`
	LogLevel   loglevel.Level `yaml:"log_level"`
	LoadPlugin []string       `yaml:"load_plugin,omitempty"`
}

func defaultGlobals() *Globals {
	return &Globals{
		Interval: 10,
		LogLevel: loglevel.Info,
	}
}
