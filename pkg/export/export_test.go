package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/matrix"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "one two three", CleanText("one\ntwo\t  three\n"))
	assert.Equal(t, "", CleanText("  \n "))
}

func TestWriteTasksCSV(t *testing.T) {
	tasks := []model.TaskRecord{
		{
			ID:                 "t1",
			CreatedTime:        time.Date(2026, 7, 10, 9, 30, 0, 0, time.UTC),
			Assignee:           "Jane Doe",
			Sender:             "Sam Ross",
			Status:             model.StatusCompleted,
			SpaceID:            "spaces/AAA",
			SpaceDisplayName:   "Engineering",
			FirstThreadMessage: "please review\nthe Q3 figures",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTasksCSV(&buf, tasks))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "created_time", "assignee", "sender", "status", "space", "message"}, rows[0])
	assert.Equal(t, []string{
		"t1", "2026-07-10 09:30:00", "Jane Doe", "Sam Ross", "COMPLETED",
		"Engineering", "please review the Q3 figures",
	}, rows[1])
}

func TestWriteMatrixCSV(t *testing.T) {
	created := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	snap := ledger.Of([]model.TaskRecord{
		{ID: "T1", CreatedTime: created, Assignee: "Alice", Sender: "Bob", Status: model.StatusOpen, SpaceID: "S1"},
		{ID: "T2", CreatedTime: created, Assignee: "Alice", Sender: "Bob", Status: model.StatusCompleted, SpaceID: "S1"},
		{ID: "T3", CreatedTime: created, Assignee: "Bob", Sender: "Alice", Status: model.StatusOpen, SpaceID: "S2"},
	})
	m := matrix.Aggregate(snap, []string{"Alice", "Bob"},
		[]model.Space{{ID: "S1", DisplayName: "One"}, {ID: "S2", DisplayName: "Two"}})

	var buf bytes.Buffer
	require.NoError(t, WriteMatrixCSV(&buf, m, matrix.MetricAssigned))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"assignee", "One", "Two", "total"}, rows[0])
	assert.Equal(t, []string{"Alice", "2", "0", "2"}, rows[1])
	assert.Equal(t, []string{"Bob", "0", "1", "1"}, rows[2])
	assert.Equal(t, []string{"total", "2", "1", "3"}, rows[3])
}
