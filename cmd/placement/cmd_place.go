package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

// placeInput is the YAML document read by "placement place".
type placeInput struct {
	Service placement.ServiceUsage `yaml:"service"`
	Nodes   []placement.NodeUsage  `yaml:"nodes"`
}

type placeOutput struct {
	Scores []placement.NodeScore `json:"scores"`
	Best   string                `json:"best"`
}

func newPlaceCommand() *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Pick the best node to start a service",
		Long: `Score nodes for starting a service using the configured placement weights.

  service: {maxcpu: 2, maxmem: 2147483648}
  nodes:
    - {name: pve1, cpu: 1.5, maxcpu: 8, mem: 4294967296, maxmem: 17179869184}

A service maxcpu of 0 means unlimited and reserves the whole node.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var in placeInput
			if err := readYAML(file, &in); err != nil {
				return err
			}
			out, err := placeService(in, cfg.Placement.Weights, logger)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, out, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NODE\tSCORE\tBEST")
				for _, s := range out.Scores {
					mark := ""
					if s.Name == out.Best {
						mark = "*"
					}
					fmt.Fprintf(tw, "%s\t%.6f\t%s\n", s.Name, s.Score, mark)
				}
				tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input YAML file (required)")
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table or json")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func placeService(in placeInput, weights placement.WeightSet, logger *slog.Logger) (*placeOutput, error) {
	scorer, err := placement.NewScorer(weights, logger)
	if err != nil {
		return nil, err
	}
	scores, err := scorer.ScoreNodesToStartService(in.Nodes, in.Service)
	if err != nil {
		return nil, err
	}
	return &placeOutput{Scores: scores, Best: placement.Best(scores).Name}, nil
}
