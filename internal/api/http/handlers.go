package http

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/project"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/session"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/id"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Client-facing errors never echo paths or file system errors
const (
	errOutsideProjectDir = "project_path must name a file in the project directory"
	errInvalidProject    = "project not found or invalid"
)

// ClientCounter reports connected progress observers
type ClientCounter interface {
	Clients() int
}

// ProjectSource locates project files
type ProjectSource struct {
	Dir     string
	Pattern string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *session.Manager
	projects ProjectSource
	clients  ClientCounter
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	sessions *session.Manager,
	projects ProjectSource,
	clients ClientCounter,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		sessions: sessions,
		projects: projects,
		clients:  clients,
		metrics:  metrics,
		logger:   logger,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Workspace Launcher",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	running := false
	if current, ok := h.sessions.Current(); ok {
		running = !current.Finished()
	}

	clients := 0
	if h.clients != nil {
		clients = h.clients.Clients()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"sessions":   len(h.sessions.List()),
		"running":    running,
		"ws_clients": clients,
	})
}

// ListSessions lists every session since startup
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.sessions.List()
	summaries := make([]session.Summary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summarize())
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": summaries,
		"count":    len(summaries),
	})
}

// CurrentSession returns the most recent session
func (h *Handlers) CurrentSession(c *gin.Context) {
	current, ok := h.sessions.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session started"})
		return
	}
	c.JSON(http.StatusOK, current.Summarize())
}

// GetSession returns one session with its launch status
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Summarize())
}

// StartSession loads a project file and starts restoring it
func (h *Handlers) StartSession(c *gin.Context) {
	var req types.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := project.Resolve(h.projects.Dir, req.ProjectPath)
	if err != nil {
		h.logger.Warn("Rejected project path", zap.String("path", req.ProjectPath), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": errOutsideProjectDir})
		return
	}

	p, err := project.Load(path)
	if err != nil {
		h.logger.Warn("Rejected project", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidProject})
		return
	}

	s, err := h.sessions.Start(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, session.ErrSessionRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, s.Summarize())
}

// CancelSession stops a running session
func (h *Handlers) CancelSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := h.sessions.Cancel(s.ID.String()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": s.ID.String(),
	})
}

// ListProjects lists project files in the project directory.
// Paths are relative to the directory, as StartSession expects them.
func (h *Handlers) ListProjects(c *gin.Context) {
	paths, err := project.Discover(h.projects.Dir, h.projects.Pattern)
	if err != nil {
		h.logger.Error("Project discovery failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project discovery failed"})
		return
	}

	projects := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(h.projects.Dir, p)
		if err != nil {
			continue
		}
		projects = append(projects, filepath.ToSlash(rel))
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// MetricsSnapshot returns headline counters as JSON
func (h *Handlers) MetricsSnapshot(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, monitoring.MetricsSnapshot{})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func (h *Handlers) lookup(c *gin.Context) (*session.Session, bool) {
	sessionID := c.Param("id")
	if !id.IsValidSessionID(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}

	s, ok := h.sessions.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}
