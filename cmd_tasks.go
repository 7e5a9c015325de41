package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacereport/pkg/export"
	"github.com/harrisonrobin/spacereport/pkg/matrix"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

var (
	tasksDates   dateFlags
	tasksPattern string
	tasksSpace   string
	tasksCSVPath string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the individual tasks in a window",
	Long: `Lists every task in the report window, newest first, optionally filtered
by assignee glob pattern or by space id.`,
	RunE: runTasks,
}

func init() {
	tasksDates.register(tasksCmd)
	tasksCmd.Flags().StringVar(&tasksPattern, "assignee", "", "glob pattern to filter by assignee (* and ?)")
	tasksCmd.Flags().StringVar(&tasksSpace, "space", "", "restrict to one space id")
	tasksCmd.Flags().StringVar(&tasksCSVPath, "csv", "", "also write the tasks to this CSV file")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	data, err := gatherReportData(cmd.Context(), &tasksDates)
	if err != nil {
		return err
	}

	match := func(string) bool { return true }
	if tasksPattern != "" {
		match, err = matrix.Glob(tasksPattern)
		if err != nil {
			return err
		}
	}

	var tasks []model.TaskRecord
	all := data.snap.Tasks()
	for i := len(all) - 1; i >= 0; i-- { // newest first
		t := all[i]
		if tasksSpace != "" && t.SpaceID != tasksSpace {
			continue
		}
		if !match(t.Assignee) {
			continue
		}
		tasks = append(tasks, t)
	}

	for _, t := range tasks {
		assignee := t.Assignee
		if assignee == "" {
			assignee = "(unassigned)"
		}
		space := t.SpaceDisplayName
		if space == "" {
			space = t.SpaceID
		}
		fmt.Printf("%s  %-9s  %-20s  %s  %s\n",
			t.CreatedTime.Format("2006-01-02"), t.Status, assignee, space,
			export.CleanText(t.FirstThreadMessage))
	}
	fmt.Printf("\n%d tasks\n", len(tasks))

	if tasksCSVPath != "" {
		f, err := os.Create(tasksCSVPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", tasksCSVPath, err)
		}
		defer f.Close()
		if err := export.WriteTasksCSV(f, tasks); err != nil {
			return err
		}
		fmt.Printf("Tasks written to %s\n", tasksCSVPath)
	}
	return nil
}
