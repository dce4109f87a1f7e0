package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
)

func configCmd() *cobra.Command {
	var (
		dir      string
		format   string
		initFile bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration loaded from reactor.json, reactor.yaml or
reactor.toml, with defaults filled in.

Examples:
  reactor config
  reactor config --format=toml
  reactor config --init --format=yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initFile {
				return initConfig(dir, format)
			}
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}
			data, err := cfg.Encode(format)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory holding the reactor config")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or toml")
	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default config file")

	return cmd
}

func initConfig(dir, format string) error {
	if config.Exists(dir) {
		return fmt.Errorf("a reactor config already exists in %s", dir)
	}
	path := filepath.Join(dir, config.ConfigBaseName+"."+format)
	if err := config.New().SaveTo(path); err != nil {
		return err
	}
	success("Wrote %s", path)
	return nil
}
