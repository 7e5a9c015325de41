// Package web exposes the report engine over HTTP: a fetch endpoint the
// dashboard polls for a report window, and a webhook endpoint that receives
// live chat events between report runs.
package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harrisonrobin/spacereport/pkg/dates"
	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
	"github.com/harrisonrobin/spacereport/pkg/registry"
)

// timeNow is a hook so handler tests can pin the clock.
var timeNow = time.Now

// Fetcher retrieves spaces and task records from the chat platform.
type Fetcher interface {
	ListSpaces(ctx context.Context) ([]model.Space, error)
	FetchWindow(ctx context.Context, spaces []model.Space, window dates.Range, store *ledger.Store) (int, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	fetcher Fetcher
	policy  registry.SpacePolicy
	logger  *slog.Logger

	// live accumulates tasks announced over the webhook, so a report can
	// include tasks created after its last fetch.
	live *ledger.Store

	mu     sync.RWMutex
	labels map[string]string // space id -> display name, from the last listing
}

// NewServer creates a server around the given fetcher and space policy.
func NewServer(fetcher Fetcher, policy registry.SpacePolicy, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		fetcher: fetcher,
		policy:  policy,
		logger:  logger,
		live:    ledger.NewStore(),
		labels:  map[string]string{},
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/api/fetch-data", s.handleFetchData)
	r.POST("/api/events", s.handleEvent)
	return r
}

func (s *Server) rememberLabels(spaces []model.Space) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range spaces {
		if sp.DisplayName != "" {
			s.labels[sp.ID] = sp.DisplayName
		}
	}
}

func (s *Server) labelFor(spaceID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labels[spaceID]
}
