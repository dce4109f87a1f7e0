package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "Fine-grained reactivity runtime for Go components",
		Long: `Reactor tracks which computations read which state and re-runs
exactly the affected ones, batched into one flush per tick.

  • Observable objects and arrays
  • Cached computed values and watchers
  • Ordered, deduplicated update scheduling
  • Component lifecycle with keep-alive activation
  • Devtools inspector with live event stream`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		serveCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		rerrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the config found in dir, or the defaults when there is
// none.
func loadConfig(dir string) (*config.Config, error) {
	if !config.Exists(dir) {
		return config.New(), nil
	}
	return config.Load(dir)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
