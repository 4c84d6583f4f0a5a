package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arloliu/go-sps/logger"
	"github.com/arloliu/go-sps/spssim"
	"github.com/spf13/cobra"
)

var (
	simListen   string
	simInterval time.Duration
	simSpeed    int16
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated SPS controller",
	Long: `Run a TCP server that behaves like the basic unit of an SPS pumping
station controller. It streams a frame to every client each interval and
applies command blocks written by the clients.`,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simListen, "listen", "127.0.0.1:4001", "listen address")
	f.DurationVar(&simInterval, "interval", spssim.DefaultInterval, "time between frames")
	f.Int16Var(&simSpeed, "speed", spssim.DefaultNominalSpeed, "nominal turbo speed")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	l := newLogger(level)

	sim, err := spssim.Listen(simListen,
		spssim.WithInterval(simInterval),
		spssim.WithNominalSpeed(simSpeed),
		spssim.WithLogger(l),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sim.Start(ctx); err != nil {
		_ = sim.Close()
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "simulating SPS on %s\n", sim.Addr())

	<-ctx.Done()

	return sim.Close()
}
