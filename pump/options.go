package pump

import (
	"errors"
	"time"

	"github.com/arloliu/go-sps/logger"
	"github.com/arloliu/go-sps/sps"
)

const (
	// DefaultReadTimeout bounds the wait for a frame.
	DefaultReadTimeout = 3000 * time.Millisecond
	// DefaultReportWindow is the length of a report window.
	DefaultReportWindow = 3600 * time.Second
	// DefaultMinPollInterval disables poll rate limiting.
	DefaultMinPollInterval = 0
)

// ReportHandler receives periodic health reports.
type ReportHandler func(Report)

// FaultHandler receives the conditions decoded from each frame.
type FaultHandler func([]sps.FaultCondition)

// Config holds the configuration of a Station.
type Config struct {
	minPollInterval time.Duration
	readTimeout     time.Duration
	reportWindow    time.Duration

	// detailedMessages logs every fault on every cycle instead of only new ones.
	detailedMessages bool

	reportHandler ReportHandler
	faultHandler  FaultHandler
	clock         func() time.Time

	logger logger.Logger
}

func newDefaultConfig() *Config {
	return &Config{
		minPollInterval: DefaultMinPollInterval,
		readTimeout:     DefaultReadTimeout,
		reportWindow:    DefaultReportWindow,
		clock:           time.Now,
		logger:          logger.GetLogger(),
	}
}

// MinPollInterval returns the minimum time between two successful polls.
func (cfg *Config) MinPollInterval() time.Duration { return cfg.minPollInterval }

// ReadTimeout returns the frame read timeout.
func (cfg *Config) ReadTimeout() time.Duration { return cfg.readTimeout }

// ReportWindow returns the report window length.
func (cfg *Config) ReportWindow() time.Duration { return cfg.reportWindow }

// DetailedMessages returns whether faults are logged on every cycle.
func (cfg *Config) DetailedMessages() bool { return cfg.detailedMessages }

// Option is a functional option for configuring a Station.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithMinPollInterval skips polls issued less than d after the last
// successful one. Zero polls on every call.
func WithMinPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return errors.New("pump: min poll interval must not be negative")
		}
		cfg.minPollInterval = d

		return nil
	})
}

// WithReadTimeout sets the time to wait for a frame without a new byte.
func WithReadTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("pump: read timeout must be positive")
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithReportWindow sets the report window length.
func WithReportWindow(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("pump: report window must be positive")
		}
		cfg.reportWindow = d

		return nil
	})
}

// WithDetailedMessages logs every active fault on every cycle. By default a
// fault is logged once when it appears.
func WithDetailedMessages(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.detailedMessages = enabled
		return nil
	})
}

// WithReportHandler delivers reports to h instead of the logger.
func WithReportHandler(h ReportHandler) Option {
	return optFunc(func(cfg *Config) error {
		cfg.reportHandler = h
		return nil
	})
}

// WithFaultHandler delivers decoded fault conditions to h instead of the
// logger. h is called on every decoded frame, with an empty slice when no
// condition is active.
func WithFaultHandler(h FaultHandler) Option {
	return optFunc(func(cfg *Config) error {
		cfg.faultHandler = h
		return nil
	})
}

// WithClock replaces time.Now, for tests.
func WithClock(clock func() time.Time) Option {
	return optFunc(func(cfg *Config) error {
		if clock == nil {
			return errors.New("pump: clock must not be nil")
		}
		cfg.clock = clock

		return nil
	})
}

// WithLogger sets the logger of the station.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("pump: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
