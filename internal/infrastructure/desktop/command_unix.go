//go:build !windows

package desktop

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/mattn/go-shellwords"
)

// command splits args with shell quoting rules, so "My Docs/a.txt" stays
// one argument. The child gets its own process group so it does not
// receive signals aimed at the launcher.
func command(path, args string) (*exec.Cmd, error) {
	argv, err := shellwords.Parse(args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments %q: %w", args, err)
	}

	cmd := exec.Command(path, argv...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	return cmd, nil
}
