package main

import (
	"fmt"

	"github.com/arloliu/go-sps/sps"
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command <start|stop|lock|unlock|reset>",
	Short: "Send a command to the station",
	Long: `Send one command word to the pumping station.

The station is polled once first so the outbound block mirrors the last
frame received, then the command byte is set and the block is written.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"start", "stop", "lock", "unlock", "reset"},
	RunE:      runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	command, err := sps.ParseCommand(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l := newLogger(cfg.LogLevel())

	st, err := openStation(cmd.Context(), cfg, l)
	if err != nil {
		return err
	}
	defer st.Close()

	st.Poll()
	if err := st.IssueCommand(command); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent %s\n", command)

	return err
}
