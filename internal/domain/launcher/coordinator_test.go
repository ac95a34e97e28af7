package launcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLauncher struct {
	mock.Mock
}

func (m *mockLauncher) Launch(ctx context.Context, app types.Application) (types.Handle, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(types.Handle), args.Error(1)
}

type mockMover struct {
	mock.Mock
}

func (m *mockMover) Move(ctx context.Context, app types.Application, handle types.Handle) error {
	args := m.Called(ctx, app, handle)
	return args.Error(0)
}

// funcLauncher and funcMover adapt closures for timing-sensitive tests
type funcLauncher func(ctx context.Context, app types.Application) (types.Handle, error)

func (f funcLauncher) Launch(ctx context.Context, app types.Application) (types.Handle, error) {
	return f(ctx, app)
}

type funcMover func(ctx context.Context, app types.Application, handle types.Handle) error

func (f funcMover) Move(ctx context.Context, app types.Application, handle types.Handle) error {
	return f(ctx, app, handle)
}

func testConfig() Config {
	return Config{
		Timeout:      5 * time.Second,
		Concurrency:  4,
		PollInterval: 5 * time.Millisecond,
	}
}

func project(apps ...types.Application) *types.Project {
	return &types.Project{ID: "p1", Name: "test", Apps: apps}
}

func TestRunSuccess(t *testing.T) {
	a := types.Application{Name: "A", Path: "/bin/a"}
	b := types.Application{Name: "B", Path: "/bin/b"}

	launcher := new(mockLauncher)
	launcher.On("Launch", mock.Anything, a).Return(types.Handle{PID: 10}, nil).Once()
	launcher.On("Launch", mock.Anything, b).Return(types.Handle{PID: 20}, nil).Once()
	mover := new(mockMover)
	mover.On("Move", mock.Anything, a, types.Handle{PID: 10}).Return(nil).Once()
	mover.On("Move", mock.Anything, b, types.Handle{PID: 20}).Return(nil).Once()

	var notifications atomic.Int32
	c := NewCoordinator(launcher, mover, testConfig(), nil)
	p := project(a, b)
	status := c.Track(p, func(types.LaunchStatusMap) { notifications.Add(1) })

	result, err := c.Run(context.Background(), "sess_1", p, status)
	require.NoError(t, err)

	assert.True(t, result.Succeeded())
	assert.Equal(t, 2, result.Moved)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "sess_1", result.SessionID)
	assert.Equal(t, "p1", result.ProjectID)
	assert.Equal(t, types.Handle{PID: 10}, result.Snapshot[a.Key()].Handle)
	assert.True(t, status.AllLaunchedAndMoved())
	assert.Equal(t, int32(4), notifications.Load(), "launched and moved per app")

	launcher.AssertExpectations(t)
	mover.AssertExpectations(t)
}

func TestRunFailures(t *testing.T) {
	ok := types.Application{Name: "ok", Path: "/bin/ok"}
	noLaunch := types.Application{Name: "no-launch", Path: "/bin/missing"}
	noMove := types.Application{Name: "no-move", Path: "/bin/stubborn"}

	launcher := new(mockLauncher)
	launcher.On("Launch", mock.Anything, ok).Return(types.Handle{PID: 1}, nil)
	launcher.On("Launch", mock.Anything, noLaunch).Return(types.Handle{}, errors.New("not found"))
	launcher.On("Launch", mock.Anything, noMove).Return(types.Handle{PID: 3}, nil)
	mover := new(mockMover)
	mover.On("Move", mock.Anything, ok, mock.Anything).Return(nil)
	mover.On("Move", mock.Anything, noMove, mock.Anything).Return(errors.New("window not found"))

	c := NewCoordinator(launcher, mover, testConfig(), nil)
	p := project(ok, noLaunch, noMove)
	status := c.Track(p, nil)

	result, err := c.Run(context.Background(), "sess_2", p, status)
	require.NoError(t, err)

	assert.False(t, result.Succeeded())
	assert.Equal(t, 1, result.Moved)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, types.LaunchLaunchedAndMoved, status.GetStatus(ok))
	assert.Equal(t, types.LaunchFailed, status.GetStatus(noLaunch))
	assert.Equal(t, types.LaunchFailed, status.GetStatus(noMove))
	assert.Equal(t, types.Handle{PID: 3}, result.Snapshot[noMove.Key()].Handle)
	mover.AssertNotCalled(t, "Move", mock.Anything, noLaunch, mock.Anything)
}

func TestRunTimeoutFailsUnfinished(t *testing.T) {
	fast := types.Application{Name: "fast", Path: "/bin/fast"}
	slow := types.Application{Name: "slow", Path: "/bin/slow"}
	stuck := types.Application{Name: "stuck", Path: "/bin/stuck"}

	launcher := funcLauncher(func(ctx context.Context, app types.Application) (types.Handle, error) {
		if app == slow {
			<-ctx.Done()
			return types.Handle{}, ctx.Err()
		}
		return types.Handle{PID: 1}, nil
	})
	mover := funcMover(func(ctx context.Context, app types.Application, _ types.Handle) error {
		if app == stuck {
			<-ctx.Done()
		}
		return nil
	})

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	c := NewCoordinator(launcher, mover, cfg, nil)
	p := project(fast, slow, stuck)
	status := c.Track(p, nil)

	result, err := c.Run(context.Background(), "sess_3", p, status)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, types.LaunchLaunchedAndMoved, status.GetStatus(fast))
	assert.Equal(t, types.LaunchFailed, status.GetStatus(slow))
	// The stuck mover returns nil once the deadline passes
	assert.Equal(t, types.LaunchLaunchedAndMoved, status.GetStatus(stuck))
	assert.True(t, status.AllLaunchedAndMoved())
	assert.Equal(t, 3, result.Moved+result.Failed)
}

func TestRunFailsAppsPastTheLaunchSlots(t *testing.T) {
	apps := []types.Application{
		{Name: "A", Path: "/bin/a"},
		{Name: "B", Path: "/bin/b"},
		{Name: "C", Path: "/bin/c"},
		{Name: "D", Path: "/bin/d"},
	}
	launcher := funcLauncher(func(context.Context, types.Application) (types.Handle, error) {
		return types.Handle{PID: 1}, nil
	})
	mover := funcMover(func(context.Context, types.Application, types.Handle) error { return nil })

	// Slots open at 0ms and 200ms; the third would open after the deadline
	cfg := testConfig()
	cfg.Timeout = 300 * time.Millisecond
	cfg.Rate = 5
	c := NewCoordinator(launcher, mover, cfg, nil)
	p := project(apps...)
	status := c.Track(p, nil)

	result, err := c.Run(context.Background(), "sess_9", p, status)
	require.NoError(t, err)

	snapshot := status.Get()
	assert.Zero(t, snapshot.Count(types.LaunchWaiting))
	assert.Zero(t, snapshot.Count(types.LaunchLaunched))
	assert.True(t, status.AllLaunchedAndMoved())
	assert.Equal(t, 2, result.Moved)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 4, result.Total)
	assert.False(t, result.Succeeded())
}

func TestRunLaunchesOnlyWaitingEntries(t *testing.T) {
	a := types.Application{Name: "A", Path: "/bin/a"}
	settled := types.Application{Name: "settled", Path: "/bin/settled"}

	launcher := new(mockLauncher)
	launcher.On("Launch", mock.Anything, a).Return(types.Handle{PID: 10}, nil).Once()
	mover := new(mockMover)
	mover.On("Move", mock.Anything, a, types.Handle{PID: 10}).Return(nil).Once()

	c := NewCoordinator(launcher, mover, testConfig(), nil)
	p := project(a, settled)
	status := c.Track(p, nil)
	status.Update(settled, types.LaunchFailed)

	result, err := c.Run(context.Background(), "sess_10", p, status)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Moved)
	assert.Equal(t, 1, result.Failed)
	launcher.AssertNotCalled(t, "Launch", mock.Anything, settled)
	launcher.AssertExpectations(t)
	mover.AssertExpectations(t)
}

func TestResultSucceeded(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{"all moved", Result{Total: 2, Moved: 2}, true},
		{"empty project", Result{}, true},
		{"one failed", Result{Total: 2, Moved: 1, Failed: 1}, false},
		{"one unfinished", Result{Total: 2, Moved: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Succeeded())
		})
	}
}

func TestRunCancelled(t *testing.T) {
	a := types.Application{Name: "A", Path: "/bin/a"}
	launcher := funcLauncher(func(ctx context.Context, _ types.Application) (types.Handle, error) {
		<-ctx.Done()
		return types.Handle{}, ctx.Err()
	})
	c := NewCoordinator(launcher, funcMover(func(context.Context, types.Application, types.Handle) error { return nil }), testConfig(), nil)
	p := project(a)
	status := c.Track(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	result, err := c.Run(ctx, "sess_4", p, status)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Failed)
}

func TestRunSerialisesSameTarget(t *testing.T) {
	first := types.Application{ID: "1", Name: "term", Path: "/usr/bin/term", Args: "-e top"}
	second := types.Application{ID: "2", Name: "term", Path: "/usr/bin/term", Args: "-e htop"}
	other := types.Application{Name: "other", Path: "/usr/bin/other"}

	var mu sync.Mutex
	var events []string
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	launcher := funcLauncher(func(_ context.Context, app types.Application) (types.Handle, error) {
		record("launch " + app.Target() + " " + app.Args)
		return types.Handle{PID: 1}, nil
	})
	mover := funcMover(func(_ context.Context, app types.Application, _ types.Handle) error {
		time.Sleep(30 * time.Millisecond)
		record("moved " + app.Target() + " " + app.Args)
		return nil
	})

	c := NewCoordinator(launcher, mover, testConfig(), nil)
	p := project(first, second, other)
	status := c.Track(p, nil)

	result, err := c.Run(context.Background(), "sess_5", p, status)
	require.NoError(t, err)
	require.True(t, result.Succeeded())

	// For the shared target, each launch is followed by its move before the
	// next launch of the same target.
	var shared []string
	for _, e := range events {
		if e != "launch /usr/bin/other " && e != "moved /usr/bin/other " {
			shared = append(shared, e[:6])
		}
	}
	assert.Equal(t, []string{"launch", "moved ", "launch", "moved "}, shared)
}

func TestRunDuplicateEntriesLaunchOnce(t *testing.T) {
	a := types.Application{Name: "A", Path: "/bin/a"}

	var launches atomic.Int32
	launcher := funcLauncher(func(context.Context, types.Application) (types.Handle, error) {
		launches.Add(1)
		return types.Handle{PID: 1}, nil
	})
	c := NewCoordinator(launcher, funcMover(func(context.Context, types.Application, types.Handle) error { return nil }), testConfig(), nil)
	p := project(a, a)
	status := c.Track(p, nil)

	_, err := c.Run(context.Background(), "sess_6", p, status)
	require.NoError(t, err)
	assert.Equal(t, int32(1), launches.Load())
	assert.Equal(t, 1, status.Len())
}

func TestRunEmptyProject(t *testing.T) {
	c := NewCoordinator(new(mockLauncher), new(mockMover), testConfig(), nil)
	p := project()
	status := c.Track(p, nil)

	result, err := c.Run(context.Background(), "sess_7", p, status)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 0, result.Moved)
}

func TestRunRecordsMetrics(t *testing.T) {
	a := types.Application{Name: "A", Path: "/bin/a"}
	b := types.Application{Name: "B", Path: "/bin/b"}
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	launcher := funcLauncher(func(_ context.Context, app types.Application) (types.Handle, error) {
		if app == b {
			return types.Handle{}, errors.New("boom")
		}
		return types.Handle{PID: 1}, nil
	})
	c := NewCoordinator(launcher, funcMover(func(context.Context, types.Application, types.Handle) error { return nil }), testConfig(), nil).
		WithMetrics(metrics)
	p := project(a, b)
	status := c.Track(p, nil)

	_, err := c.Run(context.Background(), "sess_8", p, status)
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Transitions))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AppsByState.WithLabelValues("launched_and_moved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AppsByState.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.AppsByState.WithLabelValues("waiting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsTotal.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.SessionsActive))
}
