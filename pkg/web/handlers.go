package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harrisonrobin/spacereport/pkg/dates"
	"github.com/harrisonrobin/spacereport/pkg/events"
	"github.com/harrisonrobin/spacereport/pkg/ingest"
	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
	"github.com/harrisonrobin/spacereport/pkg/registry"
)

// FetchResponse is the dashboard's report payload.
type FetchResponse struct {
	DateStart      string             `json:"date_start"`
	DateEnd        string             `json:"date_end"`
	AllPeople      []string           `json:"all_people"`
	Spaces         []model.Space      `json:"spaces"`
	Tasks          []model.TaskRecord `json:"tasks"`
	SkippedRecords int                `json:"skipped_records"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleFetchData handles GET /api/fetch-data?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (s *Server) handleFetchData(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}
	window, err := dates.Resolve(dates.Options{Start: start, End: end}, timeNow())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	all, err := s.fetcher.ListSpaces(ctx)
	if err != nil {
		s.logger.Error("listing spaces failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not list spaces"})
		return
	}
	s.rememberLabels(all)
	spaces := registry.FilterSpaces(all, s.policy)

	store := ledger.NewStore()
	skipped, err := s.fetcher.FetchWindow(ctx, spaces, window, store)
	if err != nil {
		s.logger.Error("fetching window failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not fetch tasks"})
		return
	}

	snap := store.Snapshot().Merge(s.liveWithin(window))
	people, reportSpaces := registry.Derive(snap, s.policy)

	c.JSON(http.StatusOK, FetchResponse{
		DateStart:      start,
		DateEnd:        end,
		AllPeople:      people,
		Spaces:         reportSpaces,
		Tasks:          snap.Tasks(),
		SkippedRecords: skipped,
	})
}

// liveWithin returns webhook-announced tasks that fall inside the window.
func (s *Server) liveWithin(window dates.Range) []model.TaskRecord {
	var out []model.TaskRecord
	for _, task := range s.live.Snapshot().Tasks() {
		if task.CreatedTime.Before(window.Start) || !task.CreatedTime.Before(window.End) {
			continue
		}
		out = append(out, task)
	}
	return out
}

// handleEvent handles POST /api/events, the chat webhook.
func (s *Server) handleEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}
	ev, err := events.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Info("event received",
		"type", ev.Type, "sender", ev.SenderName, "space", ev.SpaceName, "preview", ev.Preview)

	if raw, ok := ev.ToRawRecord(s.labelFor(ev.SpaceName)); ok {
		if !s.policy.Qualifies(raw.SpaceName) {
			c.JSON(http.StatusOK, gin.H{"text": "Message received"})
			return
		}
		task, err := ingest.Normalize(raw)
		if err != nil {
			s.logger.Warn("task event skipped", "error", err)
		} else {
			s.live.Add([]model.TaskRecord{task})
			s.logger.Info("task recorded from event", "task", task.ID, "space", task.SpaceID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"text": "Message received"})
}
