// Package export writes report data to files: JSON for the dashboard, CSV
// for spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harrisonrobin/spacereport/pkg/matrix"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

// SaveJSON writes v to path as indented JSON.
func SaveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CleanText collapses line breaks and runs of whitespace to single spaces,
// so message text fits in one CSV field.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WriteTasksCSV writes one row per task.
func WriteTasksCSV(w io.Writer, tasks []model.TaskRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "created_time", "assignee", "sender", "status", "space", "message"}); err != nil {
		return err
	}
	for _, t := range tasks {
		space := t.SpaceDisplayName
		if space == "" {
			space = t.SpaceID
		}
		row := []string{
			t.ID,
			t.CreatedTime.Format("2006-01-02 15:04:05"),
			t.Assignee,
			t.Sender,
			string(t.Status),
			space,
			CleanText(t.FirstThreadMessage),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSpacesCSV writes one row per space.
func WriteSpacesCSV(w io.Writer, spaces []model.Space) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "display_name"}); err != nil {
		return err
	}
	for _, sp := range spaces {
		if err := cw.Write([]string{sp.ID, sp.DisplayName}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMatrixCSV writes the matrix for one metric: a row per person, a
// column per space, with a trailing total column and a final total row.
func WriteMatrixCSV(w io.Writer, m *matrix.Matrix, metric matrix.Metric) error {
	cw := csv.NewWriter(w)

	header := []string{"assignee"}
	for _, sp := range m.Spaces {
		header = append(header, sp.Label())
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return err
	}

	writeRow := func(label, person string) error {
		row := []string{label}
		for _, sp := range m.Spaces {
			row = append(row, strconv.FormatUint(uint64(pick(m.Cell(person, sp.ID), metric)), 10))
		}
		row = append(row, strconv.FormatUint(uint64(pick(m.Cell(person, matrix.TotalKey), metric)), 10))
		return cw.Write(row)
	}

	for _, person := range m.People {
		if err := writeRow(person, person); err != nil {
			return err
		}
	}
	if err := writeRow("total", matrix.AllKey); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func pick(c matrix.Cell, metric matrix.Metric) uint {
	switch metric {
	case matrix.MetricCompleted:
		return c.Completed
	case matrix.MetricGiven:
		return c.Given
	default:
		return c.Assigned
	}
}
