package config

import (
	"time"

	"github.com/arloliu/go-sps/logger"
	"github.com/arloliu/go-sps/pump"
	"github.com/arloliu/go-sps/rs232"
)

// ConnConfig builds the link configuration of a normalized Config.
func (cfg *Config) ConnConfig(l logger.Logger) (*rs232.ConnectionConfig, error) {
	opts := []rs232.ConnOption{
		rs232.WithConnectTimeout(time.Duration(cfg.Link.ConnectTimeoutMs) * time.Millisecond),
		rs232.WithTrace(cfg.Link.Trace),
		rs232.WithLogger(l),
	}

	if cfg.Link.Type == LinkSerial {
		return rs232.NewSerialConfig(cfg.Link.Device, cfg.Link.Baud, opts...)
	}

	return rs232.NewTCPConfig(cfg.Link.Host, cfg.Link.Port, opts...)
}

// StationOptions returns the station options of a normalized Config.
func (cfg *Config) StationOptions(l logger.Logger) []pump.Option {
	return []pump.Option{
		pump.WithMinPollInterval(time.Duration(cfg.Poll.MinIntervalMs) * time.Millisecond),
		pump.WithReadTimeout(time.Duration(cfg.Poll.ReadTimeoutMs) * time.Millisecond),
		pump.WithReportWindow(time.Duration(cfg.Poll.ReportWindowS) * time.Second),
		pump.WithDetailedMessages(cfg.DetailedMessages),
		pump.WithLogger(l),
	}
}

// PollInterval returns the configured time between two polls.
func (cfg *Config) PollInterval() time.Duration {
	return time.Duration(cfg.Poll.IntervalMs) * time.Millisecond
}

// LogLevel returns the configured log level.
func (cfg *Config) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(cfg.Log.Level)
	return level
}
