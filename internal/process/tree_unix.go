//go:build !windows

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// isolate makes the child lead a new process group, so that killTree
// reaches the helpers a renderer script spawns.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killTree sends SIGKILL to the group led by p. A group that is already
// gone reports os.ErrProcessDone.
func killTree(p *os.Process) error {
	err := syscall.Kill(-p.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}
