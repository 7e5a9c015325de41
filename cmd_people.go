package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacereport/pkg/matrix"
)

var (
	peopleDates   dateFlags
	peoplePattern string
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List everyone who participated in tasks during the window",
	RunE:  runPeople,
}

func init() {
	peopleDates.register(peopleCmd)
	peopleCmd.Flags().StringVar(&peoplePattern, "assignee", "", "glob pattern to filter people (* and ?)")
	rootCmd.AddCommand(peopleCmd)
}

func runPeople(cmd *cobra.Command, args []string) error {
	data, err := gatherReportData(cmd.Context(), &peopleDates)
	if err != nil {
		return err
	}

	people, err := matrix.FilterPeople(data.people, peoplePattern)
	if err != nil {
		return err
	}
	for _, p := range people {
		fmt.Println(p)
	}
	fmt.Printf("\n%d people across %d spaces\n", len(people), len(data.spaces))
	if data.skipped > 0 {
		fmt.Printf("%d records skipped during normalization\n", data.skipped)
	}
	return nil
}
