package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	percentilesTeam bool
	percentileList  []int
)

var percentilesCmd = &cobra.Command{
	Use:   "percentiles IDENTIFIER",
	Short: "Show lap-time percentiles",
	Long: `Percentiles reports lap-time percentiles over the outlier-filtered laps of
a driver (or team with --team). Without -p the percentiles configured under
analysis.percentiles are used.

Example:
  lapstat percentiles VER --year 2024 --round 1
  lapstat percentiles FER --team -p 10,50,90 --year 2024 --round 1`,
	Args: cobra.ExactArgs(1),
	RunE: runPercentiles,
}

func init() {
	percentilesCmd.Flags().BoolVarP(&percentilesTeam, "team", "t", false,
		"Treat the identifier as a team code")
	percentilesCmd.Flags().IntSliceVarP(&percentileList, "percentile", "p", nil,
		"Percentiles to compute (0-100, comma separated)")

	rootCmd.AddCommand(percentilesCmd)
}

type percentileEntry struct {
	Percentile int     `json:"percentile"`
	LapTime    float64 `json:"lap_time"`
}

func runPercentiles(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	ps := percentileList
	if len(ps) == 0 {
		ps = env.cfg.Analysis.Percentiles
	}

	a := env.newAnalyzers(percentilesTeam, args)[0]
	m, err := a.Metrics(env.ctx)
	if err != nil {
		return fmt.Errorf("failed to load laps for %s: %w", a.Identifier(), err)
	}
	pct, err := m.Percentiles(ps...)
	if err != nil {
		return err
	}

	entries := make([]percentileEntry, 0, pct.Len())
	for el := pct.Front(); el != nil; el = el.Next() {
		entries = append(entries, percentileEntry{Percentile: el.Key, LapTime: el.Value})
	}

	if jsonOutput() {
		return writeJSON(entries)
	}

	printHeader("Percentiles %s: %s", a.Identifier(), env.eventTitle())
	fmt.Fprintln(outputWriter)
	if len(entries) == 0 {
		fmt.Fprintln(outputWriter, "No lap times after filtering.")
		return nil
	}
	renderPercentiles(entries)
	return nil
}
