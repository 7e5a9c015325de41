// Package events parses incoming Chat webhook payloads. Payload shapes vary
// across event types and API revisions, so fields are plucked by path rather
// than decoded into a rigid struct.
package events

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/harrisonrobin/spacereport/pkg/model"
)

// ErrNotJSON is returned for payloads gjson cannot parse.
var ErrNotJSON = errors.New("events: payload is not valid JSON")

const previewWords = 10

// Event is the subset of a webhook payload the server acts on.
type Event struct {
	Type       string
	SenderName string
	Text       string
	Preview    string
	SpaceName  string
	ThreadName string
	CreateTime string
}

// Parse extracts an Event from a raw webhook body.
func Parse(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, ErrNotJSON
	}
	root := gjson.ParseBytes(data)

	ev := Event{
		Type:       root.Get("type").String(),
		SenderName: root.Get("message.sender.displayName").String(),
		Text:       root.Get("message.text").String(),
		SpaceName:  root.Get("space.name").String(),
		ThreadName: root.Get("message.thread.name").String(),
		CreateTime: root.Get("message.createTime").String(),
	}
	if ev.SpaceName == "" {
		ev.SpaceName = root.Get("message.space.name").String()
	}
	ev.Preview = preview(ev.Text)
	return ev, nil
}

// IsTaskCreation reports whether the event announces a new task.
func (e Event) IsTaskCreation() bool {
	return strings.Contains(e.Text, "via Tasks") && strings.Contains(e.Text, "Created")
}

// ToRawRecord converts a task creation event into a raw record for the
// normalizer. The second return is false when the event is not a task
// creation or carries no usable thread name.
func (e Event) ToRawRecord(spaceDisplayName string) (model.RawRecord, bool) {
	if !e.IsTaskCreation() || e.ThreadName == "" {
		return model.RawRecord{}, false
	}
	parts := strings.Split(e.ThreadName, "/")
	if len(parts) != 4 {
		return model.RawRecord{}, false
	}
	return model.RawRecord{
		ID:               parts[3],
		CreatedTime:      e.CreateTime,
		Assignee:         assigneeFromText(e.Text),
		Sender:           e.SenderName,
		Status:           string(model.StatusOpen),
		SpaceName:        e.SpaceName,
		SpaceDisplayName: spaceDisplayName,
		ThreadName:       e.ThreadName,
	}, true
}

func assigneeFromText(text string) string {
	_, after, found := strings.Cut(text, "@")
	if !found {
		return ""
	}
	name, _, found := strings.Cut(after, "(")
	if !found {
		return ""
	}
	return strings.TrimSpace(name)
}

// preview truncates message text for log lines.
func preview(text string) string {
	if text == "" {
		return "(no message text)"
	}
	words := strings.Fields(text)
	if len(words) <= previewWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:previewWords], " ") + "..."
}
