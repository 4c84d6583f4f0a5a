package config

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-sps/logger"
)

const (
	LinkTCP    = "tcp"
	LinkSerial = "serial"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if err := validateLink(&cfg.Link); err != nil {
		return err
	}

	p := cfg.Poll
	for _, f := range []struct {
		name string
		val  int
	}{
		{"poll.interval_ms", p.IntervalMs},
		{"poll.min_interval_ms", p.MinIntervalMs},
		{"poll.read_timeout_ms", p.ReadTimeoutMs},
		{"poll.report_window_s", p.ReportWindowS},
	} {
		if f.val < 0 {
			return fmt.Errorf("%s must not be negative, got %d", f.name, f.val)
		}
	}

	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

func validateLink(l *LinkConfig) error {
	if l.ConnectTimeoutMs < 0 {
		return fmt.Errorf("link.connect_timeout_ms must not be negative, got %d", l.ConnectTimeoutMs)
	}

	switch l.Type {
	case "", LinkTCP:
		if l.Host == "" {
			return errors.New("link.host is required for tcp links")
		}
		if l.Port < 1 || l.Port > 65535 {
			return fmt.Errorf("link.port %d out of range [1, 65535]", l.Port)
		}

	case LinkSerial:
		if l.Device == "" {
			return errors.New("link.device is required for serial links")
		}
		if l.Baud < 0 {
			return fmt.Errorf("link.baud must not be negative, got %d", l.Baud)
		}

	default:
		return fmt.Errorf("link.type %q is not one of %q, %q", l.Type, LinkTCP, LinkSerial)
	}

	return nil
}
