package chat

import (
	"strings"
	"time"

	chat "google.golang.org/api/chat/v1"

	"github.com/harrisonrobin/spacereport/pkg/model"
)

// The platform never exposes task objects directly; it announces the
// lifecycle in system messages like "Created a task for @Jane Doe (via
// Tasks)". These markers are the whole protocol.
const taskMarker = "via Tasks"

type taskSignals struct {
	created    *model.RawRecord
	assignees  []timedValue // reassignments, in message order
	completed  bool
	deleted    bool
	threadName string
}

type timedValue struct {
	at    time.Time
	value string
}

// ExtractRawRecords folds one space's messages into raw task records. Every
// lifecycle signal observed inside the window is applied: the latest
// reassignment wins the assignee, deleted tasks are dropped, and a task
// observed completed reports COMPLETED no matter what follows; completion is
// terminal within a report.
func ExtractRawRecords(space model.Space, msgs []*chat.Message) []model.RawRecord {
	signals := map[string]*taskSignals{}
	var order []string

	for _, msg := range msgs {
		if msg == nil || !strings.Contains(msg.Text, taskMarker) {
			continue
		}
		threadName := ""
		if msg.Thread != nil {
			threadName = msg.Thread.Name
		}
		taskID := taskIDFromThread(threadName)
		if taskID == "" {
			continue
		}

		sig, ok := signals[taskID]
		if !ok {
			sig = &taskSignals{threadName: threadName}
			signals[taskID] = sig
			order = append(order, taskID)
		}

		at := parseCreateTime(msg.CreateTime)
		text := msg.Text
		switch {
		case strings.Contains(text, "Created"):
			sender := ""
			if msg.Sender != nil {
				sender = msg.Sender.DisplayName
			}
			sig.created = &model.RawRecord{
				ID:               taskID,
				CreatedTime:      msg.CreateTime,
				Assignee:         assigneeFromText(text),
				Sender:           sender,
				Status:           string(model.StatusOpen),
				SpaceName:        space.ID,
				SpaceDisplayName: space.DisplayName,
				ThreadName:       threadName,
			}
		case strings.Contains(text, "Assigned"):
			sig.assignees = append(sig.assignees, timedValue{at: at, value: assigneeFromText(text)})
		case strings.Contains(text, "Completed"):
			sig.completed = true
		case strings.Contains(text, "Re-opened"):
			// Completion is terminal for reporting; re-opening never
			// reverts it.
		case strings.Contains(text, "Deleted"):
			sig.deleted = true
		}
	}

	var records []model.RawRecord
	for _, taskID := range order {
		sig := signals[taskID]
		if sig.created == nil || sig.deleted {
			// Creation happened outside the window, or the task is gone.
			continue
		}
		rec := *sig.created
		if len(sig.assignees) > 0 {
			rec.Assignee = latest(sig.assignees).value
		}
		if sig.completed {
			rec.Status = string(model.StatusCompleted)
		}
		records = append(records, rec)
	}
	return records
}

// taskIDFromThread pulls the task id out of a thread resource name of the
// form "spaces/<space>/threads/<task>".
func taskIDFromThread(threadName string) string {
	parts := strings.Split(threadName, "/")
	if len(parts) != 4 || parts[0] != "spaces" || parts[2] != "threads" {
		return ""
	}
	return parts[3]
}

// assigneeFromText extracts the "@Jane Doe (" mention from a task message.
// Messages without a mention describe an unassigned task.
func assigneeFromText(text string) string {
	_, after, found := strings.Cut(text, "@")
	if !found {
		return ""
	}
	name, _, _ := strings.Cut(after, "(")
	return strings.TrimSpace(name)
}

func parseCreateTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func latest(values []timedValue) timedValue {
	out := values[0]
	for _, v := range values[1:] {
		if v.at.After(out.at) {
			out = v
		}
	}
	return out
}
