// Package chat is the fetch client for the external messaging platform. It
// lists spaces, pulls messages for a report window, and turns task lifecycle
// messages into raw records for the normalizer. All network I/O lives here;
// the aggregation core only ever sees already-retrieved data.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	chat "google.golang.org/api/chat/v1"

	"github.com/harrisonrobin/spacereport/pkg/auth"
	"github.com/harrisonrobin/spacereport/pkg/dates"
	"github.com/harrisonrobin/spacereport/pkg/ingest"
	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

const (
	retryAttempts = 3
	retryDelay    = 30 * time.Second

	// spaceTypeRoom is the API's space type for named spaces. Direct
	// message conversations carry no task signals worth reporting.
	spaceTypeRoom = "SPACE"
)

// Client wraps the Chat API service.
type Client struct {
	srv    *chat.Service
	logger *slog.Logger
}

// NewClient creates an authenticated Chat client.
func NewClient(ctx context.Context) (*Client, error) {
	srv, err := auth.GetChatService(ctx)
	if err != nil {
		return nil, err
	}
	return NewClientWithService(srv, slog.Default()), nil
}

// NewClientWithService wraps an existing service, mainly for tests.
func NewClientWithService(srv *chat.Service, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{srv: srv, logger: logger}
}

// ListSpaces returns all named spaces visible to the authenticated user,
// excluding direct messages.
func (c *Client) ListSpaces(ctx context.Context) ([]model.Space, error) {
	var spaces []model.Space
	err := c.withRetry(ctx, "list spaces", func() error {
		spaces = spaces[:0]
		pageToken := ""
		for {
			call := c.srv.Spaces.List().Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			resp, err := call.Do()
			if err != nil {
				return err
			}
			for _, s := range resp.Spaces {
				if s.SpaceType != spaceTypeRoom {
					continue
				}
				spaces = append(spaces, model.Space{ID: s.Name, DisplayName: s.DisplayName})
			}
			pageToken = resp.NextPageToken
			if pageToken == "" {
				return nil
			}
		}
	})
	return spaces, err
}

// messagesForSpace pulls every message in the space within the window.
func (c *Client) messagesForSpace(ctx context.Context, spaceID string, window dates.Range) ([]*chat.Message, error) {
	start, end := window.RFC3339()
	filter := fmt.Sprintf("createTime > %q AND createTime < %q", start, end)

	var messages []*chat.Message
	err := c.withRetry(ctx, "list messages", func() error {
		messages = messages[:0]
		pageToken := ""
		for {
			call := c.srv.Spaces.Messages.List(spaceID).Filter(filter).Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			resp, err := call.Do()
			if err != nil {
				return err
			}
			messages = append(messages, resp.Messages...)
			pageToken = resp.NextPageToken
			if pageToken == "" {
				return nil
			}
		}
	})
	return messages, err
}

// FirstThreadMessage fetches the opening message of a thread, used as
// drill-down context for a task (the task message itself is just the generic
// "Created a task" announcement).
func (c *Client) FirstThreadMessage(ctx context.Context, spaceID, threadName string) (string, error) {
	filter := fmt.Sprintf("thread.name=%q", threadName)
	resp, err := c.srv.Spaces.Messages.List(spaceID).Filter(filter).PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	for _, msg := range resp.Messages {
		if msg.Thread != nil && msg.Thread.Name == threadName {
			return msg.Text, nil
		}
	}
	return "", nil
}

// FetchTasks extracts raw task records from one space for the window.
// Messages are listed in weekly chunks to keep individual queries small, but
// the chunks are concatenated before extraction: a task created in one week
// and completed or reassigned in another must resolve against the whole
// window, never against a single chunk.
// withContext additionally fetches each task thread's first message.
func (c *Client) FetchTasks(ctx context.Context, space model.Space, window dates.Range, withContext bool) ([]model.RawRecord, error) {
	var msgs []*chat.Message
	for _, chunk := range window.Weekly() {
		batch, err := c.messagesForSpace(ctx, space.ID, chunk)
		if err != nil {
			return nil, fmt.Errorf("fetching tasks from space %s: %w", space.Label(), err)
		}
		msgs = append(msgs, batch...)
	}

	records := ExtractRawRecords(space, msgs)
	if withContext {
		for i := range records {
			if records[i].ThreadName == "" {
				continue
			}
			text, err := c.FirstThreadMessage(ctx, space.ID, records[i].ThreadName)
			if err != nil {
				c.logger.Warn("could not retrieve first thread message",
					"task", records[i].ID, "thread", records[i].ThreadName, "error", err)
				continue
			}
			records[i].FirstThreadMessage = text
		}
	}
	return records, nil
}

// FetchWindow fetches every space's tasks for the whole window, normalizing
// each space's records and merging them into the store as they arrive.
// Spaces run concurrently; the ledger merge makes arrival order irrelevant.
// Returns the number of records the normalizer skipped.
func (c *Client) FetchWindow(ctx context.Context, spaces []model.Space, window dates.Range, store *ledger.Store) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var skipped atomic.Int64
	for _, space := range spaces {
		space := space
		g.Go(func() error {
			raws, err := c.FetchTasks(ctx, space, window, true)
			if err != nil {
				return err
			}
			batch := ingest.NormalizeBatch(raws, c.logger)
			skipped.Add(int64(batch.Skipped))
			store.Add(batch.Records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(skipped.Load()), err
	}
	return int(skipped.Load()), nil
}

// withRetry reruns fn with a fixed delay, like the platform's flaky message
// listing deserves. The last error is returned if every attempt fails.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == retryAttempts {
			break
		}
		c.logger.Warn("attempt failed, retrying",
			"op", op, "attempt", attempt, "delay", retryDelay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, retryAttempts, err)
}
