package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/elix-dev/elix/internal/config"
	"github.com/elix-dev/elix/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "elix",
		Short: "Render and serve reactive elements",
		Long: `Elix builds elements from composable behaviors and renders them
on a single-threaded loop.

  render     Render one element to HTML or a snapshot store
  serve      Serve a live element over WebSocket
  snapshots  List, show and delete stored snapshots`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to elix.yaml (default: ./elix.yaml when present)")

	load := func() (*config.Config, error) {
		var (
			cfg *config.Config
			err error
		)
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.LoadOrDefault(".")
		}
		if err != nil {
			return nil, err
		}
		slog.SetDefault(cfg.Log.Logger(os.Stderr))
		return cfg, nil
	}

	rootCmd.AddCommand(
		renderCmd(load),
		serveCmd(load),
		snapshotsCmd(load),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// loader loads the configuration selected by the root flags.
type loader func() (*config.Config, error)

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s\n", fmt.Sprintf(format, args...))
}
