// Copyright 2026 The rc9 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner launches the external helper programs the namespace
// builtins delegate to (sshfs, mount, umount, fusermount, 9pfuse, ssh).
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Launcher runs delegated helper programs. Run blocks the caller the way a
// foreground shell command does; Start is fire-and-forget for service
// workers.
type Launcher interface {
	// Run executes argv with the caller's stdio and blocks until the
	// process exits. The returned error reports only launch failures
	// (missing binary, fork failure); a process that ran and failed is
	// reported through the wait status.
	Run(argv []string) (unix.WaitStatus, error)

	// Start executes argv detached, wired to the given stdio files, and
	// returns its pid. The child is never reaped by this package; its
	// lifetime is independent of the caller's (the host init or subreaper
	// collects it).
	Start(argv []string, stdin, stdout, stderr *os.File) (int, error)
}

// ExecLauncher is the real Launcher, backed by fork/exec.
type ExecLauncher struct{}

var _ Launcher = ExecLauncher{}

// Run implements Launcher.Run.
func (ExecLauncher) Run(argv []string) (unix.WaitStatus, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok {
			return unix.WaitStatus(ws), nil
		}
	}
	return 0, err
}

// Start implements Launcher.Start.
func (ExecLauncher) Start(argv []string, stdin, stdout, stderr *os.File) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// Drop the handle without waiting. The worker is deliberately not
	// reaped here.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release pid %d: %v", pid, err)
	}
	return pid, nil
}

// Succeeded reports whether a Run call ended with a normal zero exit.
func Succeeded(ws unix.WaitStatus, err error) bool {
	return err == nil && ws.Exited() && ws.ExitStatus() == 0
}
