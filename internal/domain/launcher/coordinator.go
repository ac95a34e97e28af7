package launcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/launch"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Launcher starts one application
type Launcher interface {
	Launch(ctx context.Context, app types.Application) (types.Handle, error)
}

// WindowMover places the window of a launched application
type WindowMover interface {
	Move(ctx context.Context, app types.Application, handle types.Handle) error
}

// Config controls how a session runs
type Config struct {
	Timeout      time.Duration // Zero disables the deadline
	Concurrency  int           // Zero or less means one worker per app
	Rate         float64       // Launch starts per second, zero or less is unlimited
	PollInterval time.Duration
}

// DefaultConfig returns the settings used when none are configured
func DefaultConfig() Config {
	return Config{
		Timeout:      90 * time.Second,
		Concurrency:  4,
		Rate:         10,
		PollInterval: 100 * time.Millisecond,
	}
}

// Result summarises a finished session
type Result struct {
	SessionID string                `json:"session_id"`
	ProjectID string                `json:"project_id"`
	Snapshot  types.LaunchStatusMap `json:"-"`
	Total     int                   `json:"total"`
	Moved     int                   `json:"moved"`
	Failed    int                   `json:"failed"`
	Duration  time.Duration         `json:"duration"`
}

// Succeeded reports whether every application was launched and placed
func (r *Result) Succeeded() bool {
	return r.Failed == 0 && r.Moved == r.Total
}

// Coordinator restores a project by launching and placing every application
type Coordinator struct {
	launcher Launcher
	mover    WindowMover
	cfg      Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewCoordinator creates a coordinator
func NewCoordinator(launcher Launcher, mover WindowMover, cfg Config, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	return &Coordinator{
		launcher: launcher,
		mover:    mover,
		cfg:      cfg,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the coordinator
func (c *Coordinator) WithMetrics(metrics *monitoring.Metrics) *Coordinator {
	c.metrics = metrics
	return c
}

// Track builds the status registry of a session. Every accepted change is
// recorded in metrics and then forwarded to sink, which may be nil.
func (c *Coordinator) Track(project *types.Project, sink launch.ChangeFunc) *launch.Status {
	status := launch.New(project, func(m types.LaunchStatusMap) {
		if c.metrics != nil {
			c.metrics.ObserveStatus(m)
		}
		if sink != nil {
			sink(m)
		}
	}, c.logger.Named("status"))

	if c.metrics != nil {
		c.metrics.SetAppsByState(status.Get())
	}
	return status
}

// Run launches every application of project and tracks progress in status.
// When the deadline passes or ctx is cancelled, unfinished applications
// are marked failed and the returned error wraps the context error.
func (c *Coordinator) Run(ctx context.Context, sessionID string, project *types.Project, status *launch.Status) (*Result, error) {
	start := time.Now()
	log := c.logger.With(zap.String("session", sessionID), zap.String("project", project.Name))
	log.Info("Restoring workspace", zap.Int("apps", status.Len()))

	if c.metrics != nil {
		c.metrics.SessionStarted()
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	limit := rate.Inf
	if c.cfg.Rate > 0 {
		limit = rate.Limit(c.cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	if c.cfg.Concurrency > 0 {
		g.SetLimit(c.cfg.Concurrency)
	}

	targets := &targetLocks{locks: make(map[string]*sync.Mutex)}
	var arranging sync.Once
	for _, app := range uniqueApps(project.Apps) {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			c.restore(gctx, limiter, targets, status, app)
			if status.AllLaunched() {
				arranging.Do(func() {
					log.Info("All applications launched, arranging windows")
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	var runErr error
	if err := ctx.Err(); err != nil {
		runErr = fmt.Errorf("restoration of %s interrupted: %w", project.Name, err)
	}
	// Workers can stop early without the context ending, e.g. when the
	// next launch slot lies beyond the deadline
	if !status.AllLaunchedAndMoved() {
		c.failUnfinished(status, log)
	}

	snapshot := status.Get()
	result := &Result{
		SessionID: sessionID,
		ProjectID: project.ID,
		Snapshot:  snapshot,
		Total:     len(snapshot),
		Moved:     snapshot.Count(types.LaunchLaunchedAndMoved),
		Failed:    snapshot.Count(types.LaunchFailed),
		Duration:  time.Since(start),
	}

	if c.metrics != nil {
		c.metrics.SessionFinished(result.Succeeded(), result.Duration)
	}

	log.Info("Workspace restoration finished",
		zap.Int("moved", result.Moved),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
		zap.Error(runErr))

	return result, runErr
}

// restore drives one application from waiting to a terminal state
func (c *Coordinator) restore(ctx context.Context, limiter *rate.Limiter, targets *targetLocks, status *launch.Status, app types.Application) {
	log := c.logger.With(zap.String("app", app.DisplayName()))

	// Only waiting entries are launched; anything else was settled elsewhere
	if state, ok := status.Lookup(app); !ok || state != types.LaunchWaiting {
		log.Debug("Skipping application", zap.Bool("tracked", ok), zap.Stringer("state", state))
		return
	}

	if err := limiter.Wait(ctx); err != nil {
		log.Warn("Launch could not be scheduled", zap.Error(err))
		status.Update(app, types.LaunchFailed)
		return
	}

	handle, ok := c.launch(ctx, targets, status, app, log)
	if !ok {
		return
	}

	timer := monitoring.NewTimer(c.metrics, "move")
	if err := c.mover.Move(ctx, app, handle); err != nil {
		timer.Stop("error")
		log.Warn("Failed to move application window", zap.Int("pid", handle.PID), zap.Error(err))
		status.Update(app, types.LaunchFailed)
		return
	}
	timer.Stop("success")
	status.UpdateLaunched(app, types.LaunchLaunchedAndMoved)
}

// launch starts app once no other entry with the same target is launched
// and still waiting for its window to be placed
func (c *Coordinator) launch(ctx context.Context, targets *targetLocks, status *launch.Status, app types.Application, log *zap.Logger) (types.Handle, bool) {
	unlock := targets.lock(app.Target())
	defer unlock()

	// Two entries with the same target would race for the same window
	if err := c.waitForSameApp(ctx, status, app); err != nil {
		return types.Handle{}, false
	}

	timer := monitoring.NewTimer(c.metrics, "launch")
	handle, err := c.launcher.Launch(ctx, app)
	if err != nil {
		timer.Stop("error")
		log.Warn("Failed to launch application", zap.String("path", app.Path), zap.Error(err))
		status.Update(app, types.LaunchFailed)
		return types.Handle{}, false
	}
	timer.Stop("success")
	status.UpdateHandle(app, handle, types.LaunchLaunched)
	return handle, true
}

// waitForSameApp blocks while another entry with the same target is launched
func (c *Coordinator) waitForSameApp(ctx context.Context, status *launch.Status, app types.Application) error {
	if !status.ExistsSameAppLaunched(app) {
		return nil
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for status.ExistsSameAppLaunched(app) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// failUnfinished marks every non-terminal entry as failed
func (c *Coordinator) failUnfinished(status *launch.Status, log *zap.Logger) {
	for _, data := range status.Get() {
		if data.State.IsTerminal() {
			continue
		}
		log.Warn("Giving up on application",
			zap.String("app", data.App.DisplayName()),
			zap.Stringer("state", data.State))
		status.Update(data.App, types.LaunchFailed)
	}
}

// targetLocks serialises the check-and-launch step per launch target
type targetLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (t *targetLocks) lock(target string) func() {
	t.mu.Lock()
	l, ok := t.locks[target]
	if !ok {
		l = &sync.Mutex{}
		t.locks[target] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// uniqueApps drops repeated identities, keeping project order
func uniqueApps(apps []types.Application) []types.Application {
	seen := make(map[types.AppKey]bool, len(apps))
	out := make([]types.Application, 0, len(apps))
	for _, app := range apps {
		if seen[app.Key()] {
			continue
		}
		seen[app.Key()] = true
		out = append(out, app)
	}
	return out
}
