package desktop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"go.uber.org/zap"
)

var ErrNoHandle = errors.New("application has no process handle")

// Placement is a requested window arrangement
type Placement struct {
	App       types.AppKey   `json:"app"`
	Handle    types.Handle   `json:"handle"`
	Monitor   int            `json:"monitor"`
	Position  types.Position `json:"position"`
	Minimized bool           `json:"minimized"`
	Maximized bool           `json:"maximized"`
}

// PlacementRecorder is a WindowMover that records requested placements.
// Repositioning real windows is platform specific and not done here.
type PlacementRecorder struct {
	mu         sync.RWMutex
	placements map[types.AppKey]Placement // Protected by mu
	logger     *zap.Logger
}

// NewPlacementRecorder creates a recorder
func NewPlacementRecorder(logger *zap.Logger) *PlacementRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementRecorder{
		placements: make(map[types.AppKey]Placement),
		logger:     logger,
	}
}

// Move records where the window of app belongs
func (r *PlacementRecorder) Move(ctx context.Context, app types.Application, handle types.Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if handle.IsZero() {
		return fmt.Errorf("%s: %w", app.DisplayName(), ErrNoHandle)
	}

	p := Placement{
		App:       app.Key(),
		Handle:    handle,
		Monitor:   app.Monitor,
		Position:  app.Position,
		Minimized: app.Minimized,
		Maximized: app.Maximized,
	}

	r.mu.Lock()
	r.placements[p.App] = p
	r.mu.Unlock()

	r.logger.Info("Window placement recorded",
		zap.String("app", app.DisplayName()),
		zap.Int("pid", handle.PID),
		zap.Int("monitor", p.Monitor),
		zap.Int("x", p.Position.X),
		zap.Int("y", p.Position.Y),
		zap.Int("width", p.Position.Width),
		zap.Int("height", p.Position.Height))
	return nil
}

// Placement returns the recorded placement of app
func (r *PlacementRecorder) Placement(app types.Application) (Placement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.placements[app.Key()]
	return p, ok
}
