package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/lapstat/internal/analyzer"
)

var analyzeTeam bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze IDENTIFIER [IDENTIFIER...]",
	Short: "Summarise lap times for drivers or teams",
	Long: `Analyze loads the selected session and reports, per driver (or team with
--team):
  - Laps driven
  - Average lap time (median of outlier-filtered laps)
  - Fastest lap (over all laps)
  - Lap-time variance of the filtered laps

Example:
  lapstat analyze VER LEC --year 2024 --round 1
  lapstat analyze RBR --team --year 2024 --round 1 --session Q -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeTeam, "team", "t", false,
		"Treat identifiers as team codes")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	results, err := analyzeAll(env.ctx, env.newAnalyzers(analyzeTeam, args))
	if err != nil {
		return err
	}

	if jsonOutput() {
		return writeJSON(results)
	}

	printHeader("Lap Times: %s", env.eventTitle())
	fmt.Fprintln(outputWriter)
	renderResults(results)
	return nil
}

func analyzeAll(ctx context.Context, analyzers []*analyzer.Analyzer) ([]analyzer.Result, error) {
	results := make([]analyzer.Result, 0, len(analyzers))
	for _, a := range analyzers {
		res, err := a.Analyze(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze %s: %w", a.Identifier(), err)
		}
		results = append(results, res)
	}
	return results, nil
}
