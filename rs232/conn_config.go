package rs232

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-sps/logger"
)

// Network selects the link backend.
type Network string

const (
	// NetworkTCP reaches the device through a TCP terminal server.
	NetworkTCP Network = "tcp"
	// NetworkSerial reaches the device through a local serial port.
	NetworkSerial Network = "serial"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultWriteTimeout   = 3 * time.Second
	DefaultBaudRate       = 9600
)

// ConnectionConfig holds all configuration for a Conn.
type ConnectionConfig struct {
	network Network

	// TCP endpoint.
	host string
	port int

	// Local serial port.
	device   string
	baudRate int

	connectTimeout time.Duration
	writeTimeout   time.Duration

	// trace logs a hex dump of every read and write at debug level.
	trace bool

	logger logger.Logger
}

// NewTCPConfig creates a configuration for a device behind a TCP terminal
// server. The host is resolved at Open time, not here.
func NewTCPConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := newDefaultConfig(NetworkTCP)

	if err := cfg.setHost(host); err != nil {
		return nil, err
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("rs232: port %d out of range [1, 65535]", port)
	}
	cfg.port = port

	return cfg.apply(opts)
}

// NewSerialConfig creates a configuration for a device on a local serial port,
// 8 data bits, no parity, one stop bit.
func NewSerialConfig(device string, baudRate int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := newDefaultConfig(NetworkSerial)

	device = strings.TrimSpace(device)
	if device == "" {
		return nil, errors.New("rs232: serial device must not be empty")
	}
	cfg.device = device

	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if baudRate < 0 {
		return nil, fmt.Errorf("rs232: invalid baud rate %d", baudRate)
	}
	cfg.baudRate = baudRate

	return cfg.apply(opts)
}

func newDefaultConfig(network Network) *ConnectionConfig {
	return &ConnectionConfig{
		network:        network,
		connectTimeout: DefaultConnectTimeout,
		writeTimeout:   DefaultWriteTimeout,
		logger:         logger.GetLogger(),
	}
}

func (cfg *ConnectionConfig) apply(opts []ConnOption) (*ConnectionConfig, error) {
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *ConnectionConfig) setHost(host string) error {
	host = strings.TrimSpace(host)
	host = strings.TrimSuffix(host, ".")

	if host == "" || strings.ContainsAny(host, " \t/") {
		return fmt.Errorf("rs232: invalid host %q", host)
	}
	cfg.host = host

	return nil
}

// --- Getters ---

// Network returns the link backend.
func (cfg *ConnectionConfig) Network() Network { return cfg.network }

// Host returns the configured host address.
func (cfg *ConnectionConfig) Host() string { return cfg.host }

// Port returns the configured TCP port.
func (cfg *ConnectionConfig) Port() int { return cfg.port }

// Device returns the configured serial device path.
func (cfg *ConnectionConfig) Device() string { return cfg.device }

// BaudRate returns the configured serial baud rate.
func (cfg *ConnectionConfig) BaudRate() int { return cfg.baudRate }

// Addr returns "host:port" for TCP links and the device path for serial links.
func (cfg *ConnectionConfig) Addr() string {
	if cfg.network == NetworkSerial {
		return cfg.device
	}

	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// ConnectTimeout returns the dial timeout.
func (cfg *ConnectionConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// WriteTimeout returns the write timeout, zero meaning unbounded.
func (cfg *ConnectionConfig) WriteTimeout() time.Duration { return cfg.writeTimeout }

// Trace returns whether wire traces are logged.
func (cfg *ConnectionConfig) Trace() bool { return cfg.trace }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithConnectTimeout sets the dial timeout. Serial links ignore it.
func WithConnectTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("rs232: connect timeout must be positive")
		}
		cfg.connectTimeout = d

		return nil
	})
}

// WithWriteTimeout sets the write timeout for TCP links. Zero disables it.
func WithWriteTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < 0 {
			return errors.New("rs232: write timeout must not be negative")
		}
		cfg.writeTimeout = d

		return nil
	})
}

// WithTrace enables hex dumps of all link traffic at debug level.
func WithTrace(enabled bool) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.trace = enabled

		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("rs232: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
