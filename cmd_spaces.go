package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacereport/pkg/chat"
	"github.com/harrisonrobin/spacereport/pkg/config"
	"github.com/harrisonrobin/spacereport/pkg/export"
)

var (
	spacesJSONPath string
	spacesCSVPath  string
)

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List the spaces visible to the authenticated user",
	Long: `Lists every named space the authenticated user belongs to, flagging the
ones the allow/deny policy excludes from reports.`,
	RunE: runSpaces,
}

func init() {
	spacesCmd.Flags().StringVar(&spacesJSONPath, "json", "", "also write the space list to this JSON file")
	spacesCmd.Flags().StringVar(&spacesCSVPath, "csv", "", "also write the space list to this CSV file")
	rootCmd.AddCommand(spacesCmd)
}

func runSpaces(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	client, err := chat.NewClient(cmd.Context())
	if err != nil {
		return fmt.Errorf("connecting to chat: %w", err)
	}
	spaces, err := client.ListSpaces(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing spaces: %w", err)
	}

	for _, sp := range spaces {
		mark := ""
		if !policy.Qualifies(sp.ID) {
			mark = "  (excluded)"
		}
		fmt.Printf("%-30s %s%s\n", sp.ID, sp.Label(), mark)
	}
	fmt.Printf("\n%d spaces\n", len(spaces))

	if spacesJSONPath != "" {
		if err := export.SaveJSON(spacesJSONPath, spaces); err != nil {
			return err
		}
		fmt.Printf("Space list written to %s\n", spacesJSONPath)
	}
	if spacesCSVPath != "" {
		f, err := os.Create(spacesCSVPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", spacesCSVPath, err)
		}
		defer f.Close()
		if err := export.WriteSpacesCSV(f, spaces); err != nil {
			return err
		}
		fmt.Printf("Space list written to %s\n", spacesCSVPath)
	}
	return nil
}
