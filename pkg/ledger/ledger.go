// Package ledger holds the deduplicated set of all task records observed for
// one report window. Batches from overlapping fetch windows are merged by
// task id; the merge is idempotent, commutative and associative, so chunked
// or repeated fetches never double-count a task.
package ledger

import (
	"log/slog"
	"sort"

	"github.com/harrisonrobin/spacereport/pkg/model"
)

// Snapshot is an immutable merged view of the ledger. All methods are
// read-only; Merge returns a new Snapshot and never touches the receiver.
type Snapshot struct {
	tasks map[string]model.TaskRecord
}

// Empty returns a snapshot with no tasks.
func Empty() Snapshot {
	return Snapshot{tasks: map[string]model.TaskRecord{}}
}

// Of builds a snapshot directly from a batch of records. Duplicate ids
// within the batch are folded with the same rules as Merge.
func Of(records []model.TaskRecord) Snapshot {
	return Empty().Merge(records)
}

// Len returns the number of distinct tasks in the snapshot.
func (s Snapshot) Len() int {
	return len(s.tasks)
}

// Get returns the record for a task id, if present.
func (s Snapshot) Get(id string) (model.TaskRecord, bool) {
	rec, ok := s.tasks[id]
	return rec, ok
}

// Tasks returns every record ordered by creation time (oldest first, ties
// broken by id) so output is identical across runs.
func (s Snapshot) Tasks() []model.TaskRecord {
	out := make([]model.TaskRecord, 0, len(s.tasks))
	for _, rec := range s.tasks {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedTime.Equal(out[j].CreatedTime) {
			return out[i].CreatedTime.Before(out[j].CreatedTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Merge folds a batch of incoming records into the snapshot and returns the
// result as a new snapshot. For a task id seen before:
//
//   - the earliest created time wins (creation is immutable, the earliest
//     observation is authoritative),
//   - COMPLETED dominates OPEN (a task does not un-complete here),
//   - descriptive fields (assignee, sender, space display name, thread
//     context) take the incoming copy's values.
//
// Conflicting created times are resolved deterministically and logged as a
// warning; they are never fatal.
func (s Snapshot) Merge(incoming []model.TaskRecord) Snapshot {
	merged := make(map[string]model.TaskRecord, len(s.tasks)+len(incoming))
	for id, rec := range s.tasks {
		merged[id] = rec
	}
	for _, rec := range incoming {
		prev, seen := merged[rec.ID]
		if !seen {
			merged[rec.ID] = rec
			continue
		}
		merged[rec.ID] = combine(prev, rec)
	}
	return Snapshot{tasks: merged}
}

// Union merges another snapshot into this one. Equivalent to merging the
// other snapshot's records as a batch.
func (s Snapshot) Union(other Snapshot) Snapshot {
	out := s
	batch := make([]model.TaskRecord, 0, other.Len())
	for _, rec := range other.tasks {
		batch = append(batch, rec)
	}
	return out.Merge(batch)
}

func combine(existing, incoming model.TaskRecord) model.TaskRecord {
	out := incoming // descriptive fields: last fetched copy wins

	if !existing.CreatedTime.Equal(incoming.CreatedTime) {
		slog.Warn("merge: conflicting created_time for task, keeping earliest",
			"task", existing.ID,
			"existing", existing.CreatedTime,
			"incoming", incoming.CreatedTime)
	}
	if existing.CreatedTime.Before(incoming.CreatedTime) {
		out.CreatedTime = existing.CreatedTime
	}
	if existing.Status == model.StatusCompleted {
		out.Status = model.StatusCompleted
	}
	// Keep thread context from whichever copy has it.
	if out.FirstThreadMessage == "" {
		out.FirstThreadMessage = existing.FirstThreadMessage
	}
	if out.ThreadID == "" {
		out.ThreadID = existing.ThreadID
	}
	return out
}
