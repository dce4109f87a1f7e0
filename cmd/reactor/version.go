package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// buildInfo is what `reactor version` reports.
type buildInfo struct {
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	Date           string `json:"date"`
	Go             string `json:"go"`
	Platform       string `json:"platform"`
	MaxUpdateCount int    `json:"maxUpdateCount"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:        version,
		Commit:         commit,
		Date:           date,
		Go:             runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		MaxUpdateCount: reactive.DefaultMaxUpdateCount,
	}
}

func versionCmd() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the reactor build",
		Long: `Show the reactor build: release, commit, build date, Go toolchain,
platform and the runtime's default circular update limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout(), currentBuild(), short, asJSON)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Only the release")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Machine-readable output")

	return cmd
}

func writeVersion(w io.Writer, b buildInfo, short, asJSON bool) error {
	switch {
	case short:
		_, err := fmt.Fprintln(w, b.Version)
		return err
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}
	_, err := fmt.Fprintf(w, "reactor %s (%s, built %s)\n  %s on %s\n  update limit %d per flush\n",
		b.Version, b.Commit, b.Date, b.Go, b.Platform, b.MaxUpdateCount)
	return err
}
