package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var progressionTeam bool

var progressionCmd = &cobra.Command{
	Use:   "progression IDENTIFIER",
	Short: "Show lap-to-lap time changes",
	Long: `Progression lists the timed laps of a driver (or team with --team) in lap
order together with the change from the previous timed lap.

Example:
  lapstat progression VER --year 2024 --round 1`,
	Args: cobra.ExactArgs(1),
	RunE: runProgression,
}

func init() {
	progressionCmd.Flags().BoolVarP(&progressionTeam, "team", "t", false,
		"Treat the identifier as a team code")

	rootCmd.AddCommand(progressionCmd)
}

func runProgression(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	a := env.newAnalyzers(progressionTeam, args)[0]
	m, err := a.Metrics(env.ctx)
	if err != nil {
		return fmt.Errorf("failed to load laps for %s: %w", a.Identifier(), err)
	}
	rows := m.Progression()

	if jsonOutput() {
		return writeJSON(rows)
	}

	printHeader("Progression %s: %s", a.Identifier(), env.eventTitle())
	fmt.Fprintln(outputWriter)
	if len(rows) == 0 {
		fmt.Fprintln(outputWriter, "No timed laps.")
		return nil
	}
	renderProgression(rows)
	return nil
}
