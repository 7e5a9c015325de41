// Package ingest normalizes raw task signals from the fetch client into
// canonical TaskRecords. Malformed records are rejected individually; a bad
// record never aborts the batch it arrived in.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harrisonrobin/spacereport/pkg/model"
)

// Rejection reasons. Callers that care which check failed can errors.Is
// against these through the wrapping error.
var (
	ErrMissingID      = errors.New("record has no task id")
	ErrNoParticipants = errors.New("record has neither assignee nor sender")
	ErrBadCreatedTime = errors.New("record has an unparseable created_time")
)

// Sentinel strings the platform uses where a field is really absent.
const (
	sentinelUnassigned = "Unassigned"
	sentinelUnknown    = "Unknown"
)

// Normalize converts one raw record into a TaskRecord or rejects it.
// Status mapping is case-insensitive; any unrecognized status is treated as
// OPEN rather than dropping the record, so an active task with a garbled
// status still shows up in the report.
func Normalize(raw model.RawRecord) (model.TaskRecord, error) {
	if raw.ID == "" {
		return model.TaskRecord{}, fmt.Errorf("normalize: %w", ErrMissingID)
	}

	assignee := raw.Assignee
	if assignee == sentinelUnassigned {
		assignee = ""
	}
	sender := raw.Sender
	if sender == sentinelUnknown {
		sender = ""
	}
	if assignee == "" && sender == "" {
		return model.TaskRecord{}, fmt.Errorf("normalize task %s: %w", raw.ID, ErrNoParticipants)
	}

	created, err := time.Parse(time.RFC3339, raw.CreatedTime)
	if err != nil {
		return model.TaskRecord{}, fmt.Errorf("normalize task %s: %w: %q", raw.ID, ErrBadCreatedTime, raw.CreatedTime)
	}

	return model.TaskRecord{
		ID:                 raw.ID,
		CreatedTime:        created,
		Assignee:           assignee,
		Sender:             sender,
		Status:             parseStatus(raw.Status),
		SpaceID:            raw.SpaceName,
		SpaceDisplayName:   raw.SpaceDisplayName,
		ThreadID:           raw.ThreadName,
		FirstThreadMessage: raw.FirstThreadMessage,
	}, nil
}

func parseStatus(s string) model.Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COMPLETED":
		return model.StatusCompleted
	case "OPEN", "":
		return model.StatusOpen
	default:
		return model.StatusOpen
	}
}

// Batch holds the outcome of normalizing a slice of raw records.
type Batch struct {
	Records []model.TaskRecord
	Skipped int
}

// NormalizeBatch normalizes every record it can and counts the rest.
// Each rejection is logged as a warning; the batch always survives.
func NormalizeBatch(raws []model.RawRecord, logger *slog.Logger) Batch {
	if logger == nil {
		logger = slog.Default()
	}
	batch := Batch{Records: make([]model.TaskRecord, 0, len(raws))}
	for _, raw := range raws {
		rec, err := Normalize(raw)
		if err != nil {
			batch.Skipped++
			logger.Warn("skipping malformed task record", "error", err, "space", raw.SpaceName)
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch
}
