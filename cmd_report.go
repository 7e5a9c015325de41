package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacereport/pkg/dates"
	"github.com/harrisonrobin/spacereport/pkg/export"
	"github.com/harrisonrobin/spacereport/pkg/matrix"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

var (
	reportDates     dateFlags
	reportPattern   string
	reportMetric    string
	reportDrillDown bool
	reportJSONPath  string
	reportCSVPath   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the person-by-space task matrix for a window",
	Long: `Fetches task activity for the report window and prints a matrix of one
row per person and one column per space, with totals. The default window is
the previous calendar month.

Examples:
  spacereport report --past-week
  spacereport report --start 2026-07-01 --end 2026-08-01 --metric completed
  spacereport report --assignee "*Edwards" --drill-down
  spacereport report --csv matrix.csv --json report.json`,
	RunE: runReport,
}

func init() {
	reportDates.register(reportCmd)
	reportCmd.Flags().StringVar(&reportPattern, "assignee", "", "glob pattern to filter people (* and ?)")
	reportCmd.Flags().StringVar(&reportMetric, "metric", "assigned", "matrix metric: assigned, completed or given")
	reportCmd.Flags().BoolVar(&reportDrillDown, "drill-down", false, "list the tasks behind each person's totals")
	reportCmd.Flags().StringVar(&reportJSONPath, "json", "", "also write the report data to this JSON file")
	reportCmd.Flags().StringVar(&reportCSVPath, "csv", "", "also write the matrix to this CSV file")
	rootCmd.AddCommand(reportCmd)
}

func parseMetric(s string) (matrix.Metric, error) {
	switch matrix.Metric(s) {
	case matrix.MetricAssigned, matrix.MetricCompleted, matrix.MetricGiven:
		return matrix.Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q: want assigned, completed or given", s)
}

func runReport(cmd *cobra.Command, args []string) error {
	metric, err := parseMetric(reportMetric)
	if err != nil {
		return err
	}

	data, err := gatherReportData(cmd.Context(), &reportDates)
	if err != nil {
		return err
	}
	people, err := matrix.FilterPeople(data.people, reportPattern)
	if err != nil {
		return err
	}

	m := matrix.Aggregate(data.snap, people, data.spaces)
	if m.EmptySelection() {
		fmt.Println("No matching people or spaces in this window.")
		return nil
	}

	start, end := data.window.RFC3339()
	fmt.Printf("Report window: %s to %s\n\n", start, end)
	printMatrix(m, metric)
	if reportDrillDown {
		printDrillDown(m, data.window)
	}
	if data.skipped > 0 {
		fmt.Printf("\n%d records skipped during normalization\n", data.skipped)
	}

	if reportCSVPath != "" {
		if err := writeMatrixFile(reportCSVPath, m, metric); err != nil {
			return err
		}
		fmt.Printf("Matrix written to %s\n", reportCSVPath)
	}
	if reportJSONPath != "" {
		payload := struct {
			DateStart string             `json:"date_start"`
			DateEnd   string             `json:"date_end"`
			AllPeople []string           `json:"all_people"`
			Spaces    []model.Space      `json:"spaces"`
			Tasks     []model.TaskRecord `json:"tasks"`
		}{start, end, people, data.spaces, data.snap.Tasks()}
		if err := export.SaveJSON(reportJSONPath, payload); err != nil {
			return err
		}
		fmt.Printf("Report data written to %s\n", reportJSONPath)
	}
	return nil
}

func printMatrix(m *matrix.Matrix, metric matrix.Metric) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "assignee")
	for _, sp := range m.Spaces {
		fmt.Fprintf(w, "\t%s", sp.Label())
	}
	fmt.Fprintln(w, "\ttotal")

	row := func(label, person string) {
		fmt.Fprint(w, label)
		for _, sp := range m.Spaces {
			fmt.Fprintf(w, "\t%d", metricValue(m.Cell(person, sp.ID), metric))
		}
		fmt.Fprintf(w, "\t%d\n", metricValue(m.Cell(person, matrix.TotalKey), metric))
	}
	for _, person := range m.People {
		row(person, person)
	}
	row("total", matrix.AllKey)
	w.Flush()
}

func metricValue(c matrix.Cell, metric matrix.Metric) uint {
	switch metric {
	case matrix.MetricCompleted:
		return c.Completed
	case matrix.MetricGiven:
		return c.Given
	default:
		return c.Assigned
	}
}

// printDrillDown lists, for every person, their totals plus what landed on
// them and what they closed out during the final week of the window.
func printDrillDown(m *matrix.Matrix, window dates.Range) {
	weekStart := window.End.AddDate(0, 0, -7)

	for _, person := range m.People {
		tot := m.Cell(person, matrix.TotalKey)
		fmt.Printf("\n%s: %d assigned, %d completed, %d given\n",
			person, tot.Assigned, tot.Completed, tot.Given)

		assigned := m.DrillDown(person, matrix.TotalKey, matrix.MetricAssigned)
		printTaskSection("assigned in the final week", recentOnly(assigned, weekStart))

		printTaskSection("closed", m.DrillDown(person, matrix.TotalKey, matrix.MetricCompleted))
	}
}

func recentOnly(tasks []model.TaskRecord, since time.Time) []model.TaskRecord {
	var out []model.TaskRecord
	for _, task := range tasks {
		if !task.CreatedTime.Before(since) {
			out = append(out, task)
		}
	}
	return out
}

func printTaskSection(title string, tasks []model.TaskRecord) {
	if len(tasks) == 0 {
		return
	}
	fmt.Printf("  %s:\n", title)
	for _, task := range tasks {
		space := task.SpaceDisplayName
		if space == "" {
			space = task.SpaceID
		}
		fmt.Printf("    %s  %-9s  %s  %s\n",
			task.CreatedTime.Format("2006-01-02"), task.Status, space,
			export.CleanText(task.FirstThreadMessage))
	}
}

func writeMatrixFile(path string, m *matrix.Matrix, metric matrix.Metric) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return export.WriteMatrixCSV(f, m, metric)
}
