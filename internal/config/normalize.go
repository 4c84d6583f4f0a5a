package config

import (
	"time"

	"github.com/arloliu/go-sps/pump"
	"github.com/arloliu/go-sps/rs232"
)

// DefaultPollInterval is the time between two polls when none is configured.
const DefaultPollInterval = time.Second

// Normalize fills defaults. It must be called only after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	l := &cfg.Link
	if l.Type == "" {
		l.Type = LinkTCP
	}
	if l.Type == LinkSerial && l.Baud == 0 {
		l.Baud = rs232.DefaultBaudRate
	}
	if l.ConnectTimeoutMs == 0 {
		l.ConnectTimeoutMs = int(rs232.DefaultConnectTimeout / time.Millisecond)
	}

	p := &cfg.Poll
	if p.IntervalMs == 0 {
		p.IntervalMs = int(DefaultPollInterval / time.Millisecond)
	}
	if p.ReadTimeoutMs == 0 {
		p.ReadTimeoutMs = int(pump.DefaultReadTimeout / time.Millisecond)
	}
	if p.ReportWindowS == 0 {
		p.ReportWindowS = int(pump.DefaultReportWindow / time.Second)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
