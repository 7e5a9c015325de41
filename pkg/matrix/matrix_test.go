package matrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

var base = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

// threeTasks is the canonical small ledger: Alice has two tasks from Bob in
// S1 (one done), Bob has one from Alice in S2.
func threeTasks() ledger.Snapshot {
	return ledger.Of([]model.TaskRecord{
		{ID: "T1", CreatedTime: base, Assignee: "Alice", Sender: "Bob", Status: model.StatusOpen, SpaceID: "S1"},
		{ID: "T2", CreatedTime: base.Add(time.Hour), Assignee: "Alice", Sender: "Bob", Status: model.StatusCompleted, SpaceID: "S1"},
		{ID: "T3", CreatedTime: base.Add(2 * time.Hour), Assignee: "Bob", Sender: "Alice", Status: model.StatusOpen, SpaceID: "S2"},
	})
}

func spaces(ids ...string) []model.Space {
	out := make([]model.Space, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Space{ID: id})
	}
	return out
}

func TestAggregateCells(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))

	assert.Equal(t, Cell{Assigned: 2, Completed: 1, Given: 0}, m.Cell("Alice", "S1"))
	assert.Equal(t, Cell{Assigned: 0, Completed: 0, Given: 1}, m.Cell("Alice", "S2"))
	assert.Equal(t, Cell{Assigned: 0, Completed: 0, Given: 2}, m.Cell("Bob", "S1"))
	assert.Equal(t, Cell{Assigned: 1, Completed: 0, Given: 0}, m.Cell("Bob", "S2"))

	grand := m.Cell(AllKey, TotalKey)
	assert.Equal(t, uint(3), grand.Assigned)
	assert.Equal(t, uint(1), grand.Completed)
	assert.Equal(t, uint(3), grand.Given)
}

func TestAggregateRowAndColumnTotals(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))

	assert.Equal(t, Cell{Assigned: 2, Completed: 1, Given: 1}, m.Cell("Alice", TotalKey))
	assert.Equal(t, Cell{Assigned: 1, Completed: 0, Given: 2}, m.Cell("Bob", TotalKey))
	assert.Equal(t, Cell{Assigned: 2, Completed: 1, Given: 2}, m.Cell(AllKey, "S1"))
	assert.Equal(t, Cell{Assigned: 1, Completed: 0, Given: 1}, m.Cell(AllKey, "S2"))
}

func TestConservation(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))

	var rowSum, colSum uint
	for _, p := range m.People {
		rowSum += m.Cell(p, TotalKey).Assigned
	}
	for _, sp := range m.Spaces {
		colSum += m.Cell(AllKey, sp.ID).Assigned
	}
	grand := m.Cell(AllKey, TotalKey).Assigned

	assert.Equal(t, grand, rowSum)
	assert.Equal(t, grand, colSum)
}

func TestCompletedNeverExceedsAssigned(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))

	for _, p := range append(m.People, AllKey) {
		for _, sp := range m.Spaces {
			c := m.Cell(p, sp.ID)
			assert.LessOrEqual(t, c.Completed, c.Assigned, "cell (%s, %s)", p, sp.ID)
		}
	}
}

func TestAggregateIgnoresUnselected(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice"}, spaces("S1"))

	assert.Equal(t, Cell{Assigned: 2, Completed: 1, Given: 0}, m.Cell("Alice", "S1"))
	grand := m.Cell(AllKey, TotalKey)
	assert.Equal(t, uint(2), grand.Assigned)
	assert.Equal(t, uint(0), grand.Given, "Bob's given tasks are out of selection")
}

func TestSelfAssignedCountsBothWays(t *testing.T) {
	snap := ledger.Of([]model.TaskRecord{
		{ID: "T1", CreatedTime: base, Assignee: "Alice", Sender: "Alice", Status: model.StatusOpen, SpaceID: "S1"},
	})
	m := Aggregate(snap, []string{"Alice"}, spaces("S1"))
	assert.Equal(t, Cell{Assigned: 1, Completed: 0, Given: 1}, m.Cell("Alice", "S1"))
}

func TestUnassignedTaskStillCountsAsGiven(t *testing.T) {
	snap := ledger.Of([]model.TaskRecord{
		{ID: "T1", CreatedTime: base, Assignee: "", Sender: "Bob", Status: model.StatusOpen, SpaceID: "S1"},
	})
	m := Aggregate(snap, []string{"Bob"}, spaces("S1"))
	assert.Equal(t, Cell{Assigned: 0, Completed: 0, Given: 1}, m.Cell("Bob", "S1"))
}

func TestEmptySelection(t *testing.T) {
	m := Aggregate(threeTasks(), nil, spaces("S1"))
	assert.True(t, m.EmptySelection())
	assert.Equal(t, Cell{}, m.Cell("Alice", "S1"))
	assert.Equal(t, Cell{}, m.Cell(AllKey, TotalKey))

	m = Aggregate(threeTasks(), []string{"Alice"}, nil)
	assert.True(t, m.EmptySelection())
}

func TestAggregateDedupesSelection(t *testing.T) {
	m := Aggregate(threeTasks(),
		[]string{"Alice", "Alice", "Bob"},
		append(spaces("S1", "S2"), model.Space{ID: "S1"}))

	assert.Equal(t, []string{"Alice", "Bob"}, m.People)
	require.Len(t, m.Spaces, 2)

	// Totals must match the deduplicated selection, not the raw one.
	assert.Equal(t, Cell{Assigned: 2, Completed: 1, Given: 1}, m.Cell("Alice", TotalKey))
	assert.Equal(t, Cell{Assigned: 2, Completed: 1, Given: 2}, m.Cell(AllKey, "S1"))
	assert.Equal(t, uint(3), m.Cell(AllKey, TotalKey).Assigned)

	var rowSum uint
	for _, p := range m.People {
		rowSum += m.Cell(p, TotalKey).Assigned
	}
	assert.Equal(t, m.Cell(AllKey, TotalKey).Assigned, rowSum)
}

func TestSubsetReaggregates(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))
	sub := m.Subset([]string{"Alice"}, spaces("S1"))

	assert.Equal(t, Cell{Assigned: 2, Completed: 1, Given: 0}, sub.Cell("Alice", "S1"))
	assert.Equal(t, uint(2), sub.Cell(AllKey, TotalKey).Assigned)
	// The original is untouched.
	assert.Equal(t, uint(3), m.Cell(AllKey, TotalKey).Assigned)
}

func TestDrillDownMatchesCellCounts(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))

	for _, p := range m.People {
		for _, sp := range m.Spaces {
			c := m.Cell(p, sp.ID)
			assert.Len(t, m.DrillDown(p, sp.ID, MetricAssigned), int(c.Assigned), "(%s, %s) assigned", p, sp.ID)
			assert.Len(t, m.DrillDown(p, sp.ID, MetricCompleted), int(c.Completed), "(%s, %s) completed", p, sp.ID)
			assert.Len(t, m.DrillDown(p, sp.ID, MetricGiven), int(c.Given), "(%s, %s) given", p, sp.ID)
		}
	}
}

func TestDrillDownNewestFirst(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))

	tasks := m.DrillDown("Alice", "S1", MetricAssigned)
	require.Len(t, tasks, 2)
	assert.Equal(t, "T2", tasks[0].ID)
	assert.Equal(t, "T1", tasks[1].ID)
}

func TestDrillDownTotalsKeys(t *testing.T) {
	m := Aggregate(threeTasks(), []string{"Alice", "Bob"}, spaces("S1", "S2"))

	assert.Len(t, m.DrillDown("Alice", TotalKey, MetricGiven), 1)
	assert.Len(t, m.DrillDown(AllKey, "S1", MetricAssigned), 2)
	assert.Len(t, m.DrillDown(AllKey, TotalKey, MetricAssigned), 3)
}
