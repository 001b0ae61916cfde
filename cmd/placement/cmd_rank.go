package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Placement/internal/topsis"
)

// rankInput is the YAML document read by "placement rank".
type rankInput struct {
	Criteria []struct {
		Name   string  `yaml:"name"`
		Weight float64 `yaml:"weight"`
	} `yaml:"criteria"`
	Alternatives []struct {
		Name   string    `yaml:"name"`
		Values []float64 `yaml:"values"`
	} `yaml:"alternatives"`
}

type rankedAlternative struct {
	Rank  int     `json:"rank"`
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type rankOutput struct {
	Ranking     []rankedAlternative `json:"ranking"`
	Explanation *topsis.Evaluation  `json:"explanation,omitempty"`
	ParetoFront []string            `json:"pareto_front,omitempty"`
}

func newRankCommand() *cobra.Command {
	var (
		file    string
		format  string
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank alternatives from a YAML file",
		Long: `Rank alternatives against weighted criteria.

The input file lists criteria (positive weight = benefit, negative = cost)
and alternatives with one value per criterion:

  criteria:
    - {name: price, weight: -1}
    - {name: quality, weight: 2}
  alternatives:
    - {name: a, values: [10, 3]}
    - {name: b, values: [5, 8]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in rankInput
			if err := readYAML(file, &in); err != nil {
				return err
			}
			out, err := rankAlternatives(in, explain)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, out, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "RANK\tNAME\tSCORE")
				for _, r := range out.Ranking {
					fmt.Fprintf(tw, "%d\t%s\t%.6f\n", r.Rank, r.Name, r.Score)
				}
				tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input YAML file (required)")
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table or json")
	cmd.Flags().BoolVar(&explain, "explain", false, "include intermediate values (json output only)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func rankAlternatives(in rankInput, explain bool) (*rankOutput, error) {
	cs := make([]topsis.Criterion, 0, len(in.Criteria))
	for i, c := range in.Criteria {
		crit, err := topsis.NewCriterion(c.Name, c.Weight)
		if err != nil {
			return nil, fmt.Errorf("criterion %d: %w", i, err)
		}
		cs = append(cs, crit)
	}
	criteria, err := topsis.NewCriteria(cs...)
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, len(in.Alternatives))
	for i, a := range in.Alternatives {
		rows[i] = a.Values
	}
	m, err := topsis.NewMatrix(rows)
	if err != nil {
		return nil, err
	}
	ev, err := topsis.Evaluate(m, criteria)
	if err != nil {
		return nil, err
	}

	name := func(idx int) string {
		if n := in.Alternatives[idx].Name; n != "" {
			return n
		}
		return fmt.Sprintf("#%d", idx)
	}

	out := &rankOutput{}
	for pos, idx := range topsis.Rank(ev.Scores) {
		out.Ranking = append(out.Ranking, rankedAlternative{
			Rank:  pos + 1,
			Index: idx,
			Name:  name(idx),
			Score: ev.Scores[idx],
		})
	}
	if explain {
		front, err := topsis.ParetoFront(m, criteria)
		if err != nil {
			return nil, err
		}
		out.Explanation = ev
		for _, idx := range front {
			out.ParetoFront = append(out.ParetoFront, name(idx))
		}
	}
	return out, nil
}

func readYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	return nil
}

func writeOutput(w io.Writer, format string, v interface{}, table func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "table":
		table(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
