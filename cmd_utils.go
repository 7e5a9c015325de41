package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacereport/pkg/chat"
	"github.com/harrisonrobin/spacereport/pkg/config"
	"github.com/harrisonrobin/spacereport/pkg/dates"
	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
	"github.com/harrisonrobin/spacereport/pkg/registry"
)

// dateFlags is the shared report window selection, attached to every
// command that fetches tasks.
type dateFlags struct {
	pastDay   bool
	pastWeek  bool
	pastMonth bool
	pastYear  bool
	start     string
	end       string
}

func (f *dateFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.pastDay, "past-day", false, "report on the past day")
	cmd.Flags().BoolVar(&f.pastWeek, "past-week", false, "report on the past week")
	cmd.Flags().BoolVar(&f.pastMonth, "past-month", false, "report on the past 30 days")
	cmd.Flags().BoolVar(&f.pastYear, "past-year", false, "report on the past year")
	cmd.Flags().StringVar(&f.start, "start", "", "report window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "report window end (YYYY-MM-DD)")
}

func (f *dateFlags) window() (dates.Range, error) {
	return dates.Resolve(dates.Options{
		PastDay:   f.pastDay,
		PastWeek:  f.pastWeek,
		PastMonth: f.pastMonth,
		PastYear:  f.pastYear,
		Start:     f.start,
		End:       f.end,
	}, time.Now())
}

// reportData is everything a report command needs after fetching.
type reportData struct {
	window  dates.Range
	snap    ledger.Snapshot
	people  []string
	spaces  []model.Space
	skipped int
}

// gatherReportData authenticates, fetches the window from every space the
// policy admits, and derives the people and space universes.
func gatherReportData(ctx context.Context, flags *dateFlags) (*reportData, error) {
	window, err := flags.window()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	client, err := chat.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to chat: %w", err)
	}
	all, err := client.ListSpaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}
	spaces := registry.FilterSpaces(all, policy)

	store := ledger.NewStore()
	skipped, err := client.FetchWindow(ctx, spaces, window, store)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	snap := store.Snapshot()
	people, reportSpaces := registry.Derive(snap, policy)
	return &reportData{
		window:  window,
		snap:    snap,
		people:  people,
		spaces:  reportSpaces,
		skipped: skipped,
	}, nil
}
