//go:build unix

package collector

import (
	"os/exec"
	"syscall"
)

// killProcessGroup puts the shell in its own process group and kills the
// whole group on cancellation, so pipelines and wrappers die with it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
