// Package config loads the YAML configuration of the spsctl command.
//
// The life cycle is Load, then Validate, then Normalize. Validate never
// mutates; Normalize fills defaults and must only run on a valid Config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Link             LinkConfig `yaml:"link"`
	Poll             PollConfig `yaml:"poll"`
	DetailedMessages bool       `yaml:"detailed_messages"`
	Log              LogConfig  `yaml:"log"`
}

// ---- LINK ----

type LinkConfig struct {
	// Type is "tcp" (terminal server) or "serial" (local port).
	Type string `yaml:"type"`

	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	ConnectTimeoutMs int  `yaml:"connect_timeout_ms"`
	Trace            bool `yaml:"trace"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs    int `yaml:"interval_ms"`
	MinIntervalMs int `yaml:"min_interval_ms"`
	ReadTimeoutMs int `yaml:"read_timeout_ms"`
	ReportWindowS int `yaml:"report_window_s"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses the file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses a YAML document. An empty document yields a zero Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
