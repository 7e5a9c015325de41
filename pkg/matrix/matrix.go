// Package matrix computes the person-by-space performance matrix over a
// ledger snapshot: tasks assigned to, completed by, and given out by each
// person in each space, with row, column and grand totals, plus per-cell
// drill-down into the underlying tasks.
package matrix

import (
	"sort"

	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

// Reserved keys for totals. TotalKey is the row-total space key for one
// person; AllKey is the column-total person key for one space. The grand
// total lives at (AllKey, TotalKey).
const (
	TotalKey = "_total"
	AllKey   = "_all"
)

// Cell is the tally for one (person, space) pair. Assigned and given are
// independent: a person who assigns a task to themselves counts in both.
type Cell struct {
	Assigned  uint `json:"assigned"`
	Completed uint `json:"completed"`
	Given     uint `json:"given"`
}

func (c *Cell) add(other Cell) {
	c.Assigned += other.Assigned
	c.Completed += other.Completed
	c.Given += other.Given
}

// Metric names a Cell counter, for drill-down selection.
type Metric string

const (
	MetricAssigned  Metric = "assigned"
	MetricCompleted Metric = "completed"
	MetricGiven     Metric = "given"
)

// Matrix is the aggregated view of a snapshot for a selected set of people
// and spaces. It is a pure derivation: re-aggregate rather than mutate.
type Matrix struct {
	src    ledger.Snapshot
	people map[string]bool
	spaces map[string]bool

	// Selection in presentation order.
	People []string
	Spaces []model.Space

	cells map[string]map[string]*Cell
}

// Aggregate computes the matrix for the selected people and spaces in one
// pass over the ledger. Selecting no people or no spaces is valid and yields
// an empty-selection matrix, not an error.
func Aggregate(snap ledger.Snapshot, people []string, spaces []model.Space) *Matrix {
	m := &Matrix{
		src:    snap,
		people: make(map[string]bool, len(people)),
		spaces: make(map[string]bool, len(spaces)),
		People: make([]string, 0, len(people)),
		Spaces: make([]model.Space, 0, len(spaces)),
		cells:  map[string]map[string]*Cell{},
	}
	// Duplicate selection entries would double-count in the totals pass;
	// keep the first occurrence only.
	for _, p := range people {
		if !m.people[p] {
			m.people[p] = true
			m.People = append(m.People, p)
		}
	}
	for _, s := range spaces {
		if !m.spaces[s.ID] {
			m.spaces[s.ID] = true
			m.Spaces = append(m.Spaces, s)
		}
	}

	for _, task := range snap.Tasks() {
		if !m.spaces[task.SpaceID] {
			continue
		}
		if task.Assigned() && m.people[task.Assignee] {
			c := m.cell(task.Assignee, task.SpaceID)
			c.Assigned++
			if task.Status == model.StatusCompleted {
				c.Completed++
			}
		}
		if m.people[task.Sender] {
			m.cell(task.Sender, task.SpaceID).Given++
		}
	}
	m.total()
	return m
}

// Subset re-aggregates the same ledger for a narrower selection.
func (m *Matrix) Subset(people []string, spaces []model.Space) *Matrix {
	return Aggregate(m.src, people, spaces)
}

// EmptySelection reports whether no people or no spaces were selected.
// Callers should present this as "nothing selected", not as missing data.
func (m *Matrix) EmptySelection() bool {
	return len(m.people) == 0 || len(m.spaces) == 0
}

// Cell returns the tally at (person, space). Either key may be a total key.
// Pairs that never accumulated anything return a zero cell.
func (m *Matrix) Cell(person, space string) Cell {
	if row, ok := m.cells[person]; ok {
		if c, ok := row[space]; ok {
			return *c
		}
	}
	return Cell{}
}

func (m *Matrix) cell(person, space string) *Cell {
	row, ok := m.cells[person]
	if !ok {
		row = map[string]*Cell{}
		m.cells[person] = row
	}
	c, ok := row[space]
	if !ok {
		c = &Cell{}
		row[space] = c
	}
	return c
}

// total fills in the _total row totals, _all column totals and the grand
// total from the per-pair cells.
func (m *Matrix) total() {
	grand := m.cell(AllKey, TotalKey)
	for _, person := range m.People {
		rowTotal := m.cell(person, TotalKey)
		for _, space := range m.Spaces {
			c := m.Cell(person, space.ID)
			rowTotal.add(c)
			m.cell(AllKey, space.ID).add(c)
			grand.add(c)
		}
	}
}

// DrillDown returns every task contributing to the given cell and metric,
// most recently created first. space may be TotalKey to span all selected
// spaces, and person may be AllKey to span all selected people. The slice is
// freshly computed on every call.
func (m *Matrix) DrillDown(person, space string, metric Metric) []model.TaskRecord {
	var out []model.TaskRecord
	for _, task := range m.src.Tasks() {
		if !m.spaceMatches(task.SpaceID, space) {
			continue
		}
		switch metric {
		case MetricAssigned:
			if task.Assigned() && m.personMatches(task.Assignee, person) {
				out = append(out, task)
			}
		case MetricCompleted:
			if task.Assigned() && task.Status == model.StatusCompleted && m.personMatches(task.Assignee, person) {
				out = append(out, task)
			}
		case MetricGiven:
			if m.personMatches(task.Sender, person) {
				out = append(out, task)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedTime.Equal(out[j].CreatedTime) {
			return out[i].CreatedTime.After(out[j].CreatedTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *Matrix) spaceMatches(spaceID, want string) bool {
	if !m.spaces[spaceID] {
		return false
	}
	return want == TotalKey || spaceID == want
}

func (m *Matrix) personMatches(person, want string) bool {
	if !m.people[person] {
		return false
	}
	return want == AllKey || person == want
}
