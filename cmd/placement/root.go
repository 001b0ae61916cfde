package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Placement/internal/config"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placement",
		Short: "Multi-criteria ranking and node placement",
		Long: `placement ranks alternatives with TOPSIS and picks the cluster node
best suited to start a service.

Run "placement serve" for the HTTP and NATS service, or use "rank" and
"place" to score YAML input files locally.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "path to config file")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newRankCommand())
	cmd.AddCommand(newPlaceCommand())

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
}
