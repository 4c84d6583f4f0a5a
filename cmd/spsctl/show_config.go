package main

import (
	"github.com/arloliu/go-sps/internal/config"
	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration as YAML after flag overrides and defaults are
applied. The output is a valid --config file.`,
	Args: cobra.NoArgs,
	RunE: runShowConfig,
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}

func runShowConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)

	return err
}
