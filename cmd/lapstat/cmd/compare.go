package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/lapstat/internal/analyzer"
)

var (
	compareTeam  bool
	compareStint int
)

var compareCmd = &cobra.Command{
	Use:   "compare IDENTIFIER [OTHER]",
	Short: "Compare two drivers or teams lap by lap",
	Long: `Compare aligns the laps of two drivers (or teams with --team) by lap
number and prints the per-lap difference. Only laps timed for both appear.
With --stint both sides are restricted to that stint first. Without OTHER
the identifier is compared with itself, which lists one stint.

Example:
  lapstat compare VER LEC --year 2024 --round 1
  lapstat compare VER HAM --stint 2 --year 2024 --round 1
  lapstat compare VER --stint 3 --year 2024 --round 1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVarP(&compareTeam, "team", "t", false,
		"Treat identifiers as team codes")
	compareCmd.Flags().IntVar(&compareStint, "stint", 0,
		"Restrict both sides to this stint")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	var stint *int
	if cmd.Flags().Changed("stint") {
		if compareStint < 1 {
			return fmt.Errorf("stint must be at least 1, got %d", compareStint)
		}
		s := compareStint
		stint = &s
	}

	other := ""
	if len(args) == 2 {
		other = args[1]
	}

	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	a := env.newAnalyzers(compareTeam, args[:1])[0]
	rows, err := a.Compare(env.ctx, other, stint)
	if err != nil {
		return fmt.Errorf("failed to compare %s: %w", a.Identifier(), err)
	}

	if jsonOutput() {
		return writeJSON(rows)
	}

	otherLabel := a.Identifier()
	if other != "" {
		otherLabel = env.newAnalyzers(compareTeam, []string{other})[0].Identifier()
	}
	title := fmt.Sprintf("%s vs %s", a.Identifier(), otherLabel)
	if stint != nil {
		title += fmt.Sprintf(", stint %d", *stint)
	}
	printHeader("%s: %s", title, env.eventTitle())
	fmt.Fprintln(outputWriter)

	if len(rows) == 0 {
		fmt.Fprintln(outputWriter, "No laps in common.")
		return nil
	}
	renderComparison(a.Identifier(), otherLabel, rows)
	printComparisonSummary(rows)
	return nil
}

func printComparisonSummary(rows []analyzer.ComparisonRow) {
	var total float64
	ahead := 0
	for _, r := range rows {
		total += r.Difference
		if r.Difference < 0 {
			ahead++
		}
	}
	fmt.Fprintln(outputWriter)
	printSection("Summary")
	fmt.Fprintf(outputWriter, "  Laps compared: %d\n", len(rows))
	fmt.Fprintf(outputWriter, "  Laps ahead:    %d\n", ahead)
	fmt.Fprintf(outputWriter, "  Total diff:    %s\n", formatDelta(total))
	fmt.Fprintf(outputWriter, "  Mean diff:     %s\n", formatDelta(total/float64(len(rows))))
}
