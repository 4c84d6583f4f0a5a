package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arloliu/go-sps/internal/config"
	"github.com/arloliu/go-sps/logger"
	"github.com/arloliu/go-sps/pump"
	"github.com/arloliu/go-sps/rs232"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logConsole bool

	// link overrides
	host   string
	port   int
	device string
	baud   int
	trace  bool
)

var rootCmd = &cobra.Command{
	Use:   "spsctl",
	Short: "SPS vacuum pumping station client",
	Long: `spsctl talks to the basic unit of an SPS pumping station controller,
either through a TCP terminal server or a local serial port.

The link is configured with a YAML file (--config) and can be overridden
on the command line:
  TCP:    --host ts-vac01 --port 4001
  Serial: --device /dev/ttyUSB0 [--baud 9600]`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&logConsole, "console", false, "human readable log output")

	pf.StringVar(&host, "host", "", "terminal server host")
	pf.IntVar(&port, "port", 0, "terminal server TCP port")
	pf.StringVar(&device, "device", "", "serial port device")
	pf.IntVar(&baud, "baud", 0, "serial baud rate")
	pf.BoolVar(&trace, "trace", false, "log a hex dump of all link traffic")
}

// loadConfig reads the configuration file, applies flag overrides, then
// validates and normalizes the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Link.Type = config.LinkSerial
		cfg.Link.Device = device
	}
	if flags.Changed("host") {
		cfg.Link.Type = config.LinkTCP
		cfg.Link.Host = host
	}
	if flags.Changed("port") {
		cfg.Link.Port = port
	}
	if flags.Changed("baud") {
		cfg.Link.Baud = baud
	}
	if flags.Changed("trace") {
		cfg.Link.Trace = trace
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	return cfg, nil
}

func newLogger(level logger.Level) logger.Logger {
	l := logger.NewSlogWriter(os.Stderr, level, false, logConsole)
	logger.SetLogger(l)

	return l
}

// openStation builds and opens the station described by cfg.
func openStation(ctx context.Context, cfg *config.Config, l logger.Logger, opts ...pump.Option) (*pump.Station, error) {
	connCfg, err := cfg.ConnConfig(l)
	if err != nil {
		return nil, err
	}

	conn, err := rs232.NewConn(connCfg)
	if err != nil {
		return nil, err
	}

	st, err := pump.NewStation(conn, append(cfg.StationOptions(l), opts...)...)
	if err != nil {
		return nil, err
	}

	if err := st.Open(ctx); err != nil {
		return nil, err
	}

	return st, nil
}
