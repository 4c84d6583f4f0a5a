package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arloliu/go-sps/pump"
	"github.com/arloliu/go-sps/sps"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	monitorCount int
	monitorYAML  bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll the station and print the channel values",
	Long: `Poll the pumping station every poll interval and print the decoded
channels together with the active fault conditions.

Read and decode failures are not printed per cycle; they are summarized in
one report per report window on the log.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVarP(&monitorCount, "count", "n", 0, "number of polls, 0 polls until interrupted")
	monitorCmd.Flags().BoolVar(&monitorYAML, "yaml", false, "print each sample as a YAML document")
	rootCmd.AddCommand(monitorCmd)
}

// sample is one printed poll result.
type sample struct {
	Time     time.Time          `yaml:"time"`
	Channels map[string]float32 `yaml:"channels"`
	Faults   []string           `yaml:"faults,omitempty"`
	Counters sampleCounters     `yaml:"counters"`
}

type sampleCounters struct {
	OpenErrors   int `yaml:"open_errors"`
	ReadErrors   int `yaml:"read_errors"`
	ReadAttempts int `yaml:"read_attempts"`
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l := newLogger(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var faults []sps.FaultCondition
	st, err := openStation(ctx, cfg, l, pump.WithFaultHandler(func(fc []sps.FaultCondition) {
		faults = fc
	}))
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	samples := 0

	err = st.Run(ctx, cfg.PollInterval(), func(cs sps.ChannelSet) error {
		if err := printSample(out, st, cs, faults); err != nil {
			return err
		}
		samples++
		if monitorCount > 0 && samples >= monitorCount {
			return pump.ErrStopRun
		}

		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func printSample(w io.Writer, st *pump.Station, cs sps.ChannelSet, faults []sps.FaultCondition) error {
	c := st.Counters()

	if monitorYAML {
		s := sample{
			Time:     time.Now(),
			Channels: make(map[string]float32, sps.NumChannels),
			Counters: sampleCounters{
				OpenErrors:   c.OpenErrors,
				ReadErrors:   c.ReadErrors,
				ReadAttempts: c.ReadAttempts,
			},
		}
		for i, v := range cs.Values() {
			s.Channels[st.Label(sps.Channel(i))] = v
		}
		for _, fc := range faults {
			s.Faults = append(s.Faults, fc.Text())
		}

		data, err := yaml.Marshal([]sample{s})
		if err != nil {
			return err
		}
		_, err = w.Write(data)

		return err
	}

	_, err := fmt.Fprintf(w, "%s  on=%t  GP=%.3e  Gti=%.3e  speed=%d  status=% X  msg=% X  errors=%d/%d\n",
		time.Now().Format("15:04:05.000"),
		cs.PumpOn(), cs.GaugePirani, cs.GaugeTI, cs.TurboSpeed,
		cs.Status[:], cs.Message[:], c.OpenErrors, c.ReadErrors)
	if err != nil {
		return err
	}
	for _, fc := range faults {
		if _, err := fmt.Fprintf(w, "    %s\n", fc.Text()); err != nil {
			return err
		}
	}

	return nil
}
