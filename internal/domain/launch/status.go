package launch

import (
	"sync"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// ChangeFunc receives the full status map after every accepted mutation.
// It runs while the registry is exclusively locked and must not call back
// into the registry.
type ChangeFunc func(types.LaunchStatusMap)

// Status tracks the launch progress of a fixed set of applications
type Status struct {
	mu       sync.RWMutex
	apps     types.LaunchStatusMap // Protected by mu; keys never change after New
	onChange ChangeFunc
	logger   *zap.Logger
}

// New creates a registry with one waiting entry per project application
func New(project *types.Project, onChange ChangeFunc, logger *zap.Logger) *Status {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Status{
		apps:     make(types.LaunchStatusMap),
		onChange: onChange,
		logger:   logger,
	}
	if project == nil {
		return s
	}

	for _, app := range project.Apps {
		s.apps[app.Key()] = types.AppLaunchData{App: app, State: types.LaunchWaiting}
	}
	return s
}

// Get returns a copy of the current status map
func (s *Status) Get() types.LaunchStatusMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.apps.Clone()
}

// Len returns the number of tracked applications
func (s *Status) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.apps)
}

// AllLaunchedAndMoved reports whether every application reached a terminal state
func (s *Status) AllLaunchedAndMoved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, data := range s.apps {
		if data.State != types.LaunchFailed && data.State != types.LaunchLaunchedAndMoved {
			s.logger.Debug("Application not finished",
				zap.String("app", data.App.DisplayName()),
				zap.Stringer("state", data.State))
			return false
		}
	}
	return true
}

// AllLaunched reports whether no application is still waiting.
// Failed applications count as done waiting.
func (s *Status) AllLaunched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, data := range s.apps {
		if data.State == types.LaunchWaiting {
			return false
		}
	}
	return true
}

// UpdateLaunched moves app to state only if it is currently launched
func (s *Status) UpdateLaunched(app types.Application, state types.LaunchState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := app.Key()
	data, ok := s.apps[key]
	if !ok {
		s.logUntracked("update launched", app)
		return
	}

	// A concurrent failure may already have moved the entry on
	if data.State != types.LaunchLaunched {
		s.logger.Debug("Skipping update of application not in launched state",
			zap.String("app", app.DisplayName()),
			zap.Stringer("current", data.State),
			zap.Stringer("requested", state))
		return
	}

	data.State = state
	s.apps[key] = data
	s.notify(app, types.LaunchLaunched, state)
}

// Update sets the state of app unconditionally
func (s *Status) Update(app types.Application, state types.LaunchState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := app.Key()
	data, ok := s.apps[key]
	if !ok {
		s.logUntracked("update", app)
		return
	}

	from := data.State
	data.State = state
	s.apps[key] = data
	s.notify(app, from, state)
}

// UpdateHandle sets the state of app unconditionally and records its handle
func (s *Status) UpdateHandle(app types.Application, handle types.Handle, state types.LaunchState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := app.Key()
	data, ok := s.apps[key]
	if !ok {
		s.logUntracked("update handle", app)
		return
	}

	from := data.State
	data.State = state
	data.Handle = handle
	s.apps[key] = data
	s.notify(app, from, state)
}

// GetStatus returns the state of app.
// Untracked applications are reported as failed.
func (s *Status) GetStatus(app types.Application) types.LaunchState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.apps[app.Key()]
	if !ok {
		s.logUntracked("get status", app)
		return types.LaunchFailed
	}
	return data.State
}

// Lookup returns the state of app and whether it is tracked at all
func (s *Status) Lookup(app types.Application) (types.LaunchState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.apps[app.Key()]
	return data.State, ok
}

// ExistsSameAppLaunched reports whether any entry with the same launch
// target as app is currently launched
func (s *Status) ExistsSameAppLaunched(app types.Application) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := app.Target()
	for _, data := range s.apps {
		if data.State == types.LaunchLaunched && data.App.Target() == target {
			return true
		}
	}
	return false
}

// notify logs the transition and runs the change callback (must hold mu)
func (s *Status) notify(app types.Application, from, to types.LaunchState) {
	s.logger.Debug("Launch state updated",
		zap.String("app", app.DisplayName()),
		zap.Stringer("from", from),
		zap.Stringer("to", to))

	if s.onChange != nil {
		s.onChange(s.apps.Clone())
	}
}

func (s *Status) logUntracked(op string, app types.Application) {
	s.logger.Error("Application is not tracked in the project",
		zap.String("op", op),
		zap.String("app", app.DisplayName()),
		zap.String("path", app.Path))
}
