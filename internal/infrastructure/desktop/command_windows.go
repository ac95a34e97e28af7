//go:build windows

package desktop

import (
	"os/exec"
	"strings"
	"syscall"
)

const createNewProcessGroup = 0x00000200

// command hands args to the child verbatim; Windows programs parse their
// own command line, and backslashes in paths are not escapes.
func command(path, args string) (*exec.Cmd, error) {
	cmd := exec.Command(path)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: createNewProcessGroup,
		CmdLine:       strings.TrimSpace(syscall.EscapeArg(path) + " " + args),
	}
	return cmd, nil
}
