package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/lapstat/internal/analyzer"
)

// outputWriter is used for printing output, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

const (
	formatText = "text"
	formatJSON = "json"
)

func checkOutputFormat() error {
	switch outputFormat {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", outputFormat, formatText, formatJSON)
	}
}

func jsonOutput() bool {
	return outputFormat == formatJSON
}

// writeJSON writes v as indented JSON.
func writeJSON(v interface{}) error {
	enc := json.NewEncoder(outputWriter)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printHeader prints a formatted header
func printHeader(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
	fmt.Fprintf(outputWriter, "  %s\n", color.Bold.Sprint(title))
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
}

// printSection prints a section header
func printSection(title string) {
	fmt.Fprintf(outputWriter, "[%s]\n", color.Cyan.Sprint(title))
	fmt.Fprintln(outputWriter, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// formatLapTime renders seconds as mm:ss.mmm, or "-" when undefined.
func formatLapTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "-"
	}
	ms := int64(math.Round(seconds * 1000))
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}

// formatSeconds renders a plain seconds value, or "-" when undefined.
func formatSeconds(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

// formatDelta renders a signed time difference. Gains are green, losses red.
func formatDelta(d float64) string {
	switch {
	case math.IsNaN(d):
		return "-"
	case d < 0:
		return color.Green.Sprintf("%+.3fs", d)
	case d > 0:
		return color.Red.Sprintf("%+.3fs", d)
	default:
		return fmt.Sprintf("%.3fs", 0.0)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(outputWriter)
	t.SetStyle(table.StyleRounded)
	return t
}

func alignRight(columns ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	return configs
}

func renderResults(results []analyzer.Result) {
	t := newTable()
	t.AppendHeader(table.Row{"Identifier", "Laps", "Average", "Fastest", "Variance (s²)"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.Identifier,
			r.LapCount,
			formatLapTime(r.AverageLapTime),
			formatLapTime(r.FastestLap),
			formatSeconds(r.LapTimeVariance),
		})
	}
	t.SetColumnConfigs(alignRight(2, 3, 4, 5))
	t.Render()
}

func renderComparison(a, b string, rows []analyzer.ComparisonRow) {
	t := newTable()
	t.AppendHeader(table.Row{"Lap", a, b, "Diff"})
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.LapNumber,
			formatLapTime(r.TimeA),
			formatLapTime(r.TimeB),
			formatDelta(r.Difference),
		})
	}
	t.SetColumnConfigs(alignRight(1, 2, 3, 4))
	t.Render()
}

func renderProgression(rows []analyzer.ProgressionRow) {
	t := newTable()
	t.AppendHeader(table.Row{"Lap", "Time", "Change"})
	for _, r := range rows {
		delta := "-"
		if r.Delta != nil {
			delta = formatDelta(*r.Delta)
		}
		t.AppendRow(table.Row{r.LapNumber, formatLapTime(r.LapTime), delta})
	}
	t.SetColumnConfigs(alignRight(1, 2, 3))
	t.Render()
}

func renderPercentiles(entries []percentileEntry) {
	t := newTable()
	t.AppendHeader(table.Row{"Percentile", "Time", "Seconds"})
	for _, e := range entries {
		t.AppendRow(table.Row{fmt.Sprintf("p%d", e.Percentile), formatLapTime(e.LapTime), formatSeconds(e.LapTime)})
	}
	t.SetColumnConfigs(alignRight(2, 3))
	t.Render()
}

// eventTitle names the selected session for headers.
func (e *environment) eventTitle() string {
	key := e.session.Key()
	if name := e.session.Event().Name; name != "" {
		return fmt.Sprintf("%s %d (%s)", name, key.Year, key.Identifier)
	}
	return key.String()
}
