package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/launch"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/launcher"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/id"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRunning  = errors.New("a restoration session is already running")
)

// Runner tracks and runs one restoration
type Runner interface {
	Track(project *types.Project, sink launch.ChangeFunc) *launch.Status
	Run(ctx context.Context, sessionID string, project *types.Project, status *launch.Status) (*launcher.Result, error)
}

// Publisher forwards status changes to observers.
// Publish is called with the registry locked and must not block.
type Publisher interface {
	Publish(sessionID string, status types.LaunchStatusMap)
}

// Session is one restoration of a project
type Session struct {
	ID        id.SessionID
	Project   *types.Project
	StartedAt time.Time

	status *launch.Status
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	result *launcher.Result // Protected by mu
	err    error            // Protected by mu
}

// Status returns the live launch status registry
func (s *Session) Status() *launch.Status {
	return s.status
}

// Done is closed when the session finished
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Finished reports whether the session finished
func (s *Session) Finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome once the session finished, nil before
func (s *Session) Result() (*launcher.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.err
}

// Summary is the JSON view of a session
type Summary struct {
	ID                  string                `json:"id"`
	ProjectID           string                `json:"project_id"`
	ProjectName         string                `json:"project_name"`
	StartedAt           time.Time             `json:"started_at"`
	Finished            bool                  `json:"finished"`
	AllLaunched         bool                  `json:"all_launched"`
	AllLaunchedAndMoved bool                  `json:"all_launched_and_moved"`
	Apps                []types.AppLaunchData `json:"apps"`
	Result              *launcher.Result      `json:"result,omitempty"`
	Error               string                `json:"error,omitempty"`
}

// Summarize captures the current state of the session
func (s *Session) Summarize() Summary {
	status := s.status.Get()
	summary := Summary{
		ID:          s.ID.String(),
		ProjectID:   s.Project.ID,
		ProjectName: s.Project.Name,
		StartedAt:   s.StartedAt,
		Finished:    s.Finished(),
		Apps:        status.Entries(),
	}

	msg := types.NewStatusMessage(summary.ID, status, 0)
	summary.AllLaunched = msg.AllLaunched
	summary.AllLaunchedAndMoved = msg.AllLaunchedAndMoved

	result, err := s.Result()
	summary.Result = result
	if err != nil {
		summary.Error = err.Error()
	}
	return summary
}

// Manager starts restoration sessions and keeps them in memory
type Manager struct {
	sessions  sync.Map // id.SessionID -> *Session
	runner    Runner
	publisher Publisher
	logger    *zap.Logger

	mu      sync.RWMutex
	current *Session // Protected by mu
}

// NewManager creates a new session manager
func NewManager(runner Runner, publisher Publisher, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		runner:    runner,
		publisher: publisher,
		logger:    logger,
	}
}

// Start restores project in the background.
// The session outlives ctx cancellation; use Cancel to stop it.
func (m *Manager) Start(ctx context.Context, project *types.Project) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && !m.current.Finished() {
		return nil, fmt.Errorf("%w: %s", ErrSessionRunning, m.current.ID)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := &Session{
		ID:        id.NewSessionID(),
		Project:   project,
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	sessionID := session.ID.String()
	session.status = m.runner.Track(project, func(status types.LaunchStatusMap) {
		if m.publisher != nil {
			m.publisher.Publish(sessionID, status)
		}
	})

	m.sessions.Store(session.ID, session)
	m.current = session

	if m.publisher != nil {
		m.publisher.Publish(sessionID, session.status.Get())
	}

	m.logger.Info("Session started",
		zap.String("session", sessionID),
		zap.String("project", project.Name),
		zap.Int("apps", len(project.Apps)))

	go m.run(runCtx, session)

	return session, nil
}

func (m *Manager) run(ctx context.Context, session *Session) {
	defer close(session.done)
	defer session.cancel()

	result, err := m.runner.Run(ctx, session.ID.String(), session.Project, session.status)

	session.mu.Lock()
	session.result = result
	session.err = err
	session.mu.Unlock()

	if err != nil {
		m.logger.Warn("Session interrupted", zap.String("session", session.ID.String()), zap.Error(err))
	}
}

// Get retrieves a session by ID
func (m *Manager) Get(sessionID string) (*Session, bool) {
	value, ok := m.sessions.Load(id.SessionID(sessionID))
	if !ok {
		return nil, false
	}
	return value.(*Session), true
}

// Current returns the most recently started session
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current != nil
}

// List returns all sessions, oldest first
func (m *Manager) List() []*Session {
	var sessions []*Session
	m.sessions.Range(func(_, value any) bool {
		sessions = append(sessions, value.(*Session))
		return true
	})

	slices.SortFunc(sessions, func(a, b *Session) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return sessions
}

// Wait blocks until the session finished or ctx is done
func (m *Manager) Wait(ctx context.Context, sessionID string) (*launcher.Result, error) {
	session, ok := m.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	select {
	case <-session.Done():
		return session.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel stops a running session; unfinished applications are marked failed
func (m *Manager) Cancel(sessionID string) error {
	session, ok := m.Get(sessionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	session.cancel()
	return nil
}

// Shutdown cancels the running session and waits for it to finish
func (m *Manager) Shutdown(ctx context.Context) error {
	session, ok := m.Current()
	if !ok {
		return nil
	}

	session.cancel()
	select {
	case <-session.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
