package desktop

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// ExecLauncher starts applications as detached OS processes
type ExecLauncher struct {
	logger *zap.Logger
}

// NewExecLauncher creates a launcher
func NewExecLauncher(logger *zap.Logger) *ExecLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecLauncher{logger: logger}
}

// Launch starts app.Path with app.Args. Arguments follow shell quoting
// rules on Unix and are passed through verbatim on Windows.
// The process outlives the launcher; it is only reaped here.
func (l *ExecLauncher) Launch(ctx context.Context, app types.Application) (types.Handle, error) {
	if err := ctx.Err(); err != nil {
		return types.Handle{}, err
	}

	path, err := exec.LookPath(app.Path)
	if err != nil {
		return types.Handle{}, fmt.Errorf("failed to resolve %s: %w", app.Path, err)
	}

	cmd, err := command(path, app.Args)
	if err != nil {
		return types.Handle{}, fmt.Errorf("failed to prepare %s: %w", app.DisplayName(), err)
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return types.Handle{}, fmt.Errorf("failed to start %s: %w", app.DisplayName(), err)
	}

	pid := cmd.Process.Pid
	l.logger.Info("Application started", zap.String("app", app.DisplayName()), zap.Int("pid", pid))

	go func() {
		err := cmd.Wait()
		l.logger.Debug("Application exited",
			zap.String("app", app.DisplayName()),
			zap.Int("pid", pid),
			zap.Error(err))
	}()

	return types.Handle{PID: pid}, nil
}
