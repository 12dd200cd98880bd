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

// Package shell defines the surface the namespace builtins consume from
// their host shell: a variable environment, an exit-status sink and output
// sinks. The host shell implements these interfaces; in-memory
// implementations are provided for tests and the standalone binary.
package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Environ is the host shell's variable store. Shell variables are lists of
// words, in the manner of rc's $path.
type Environ interface {
	// Get returns the value of a variable, or nil if unset.
	Get(name string) []string
	// Set assigns a variable.
	Set(name string, values []string)
}

// Status is the host shell's exit-status sink ($status).
type Status interface {
	// Set reports plain success or failure of a builtin.
	Set(ok bool)
	// SetWaitStatus reports the raw wait status of a delegated process,
	// preserving the exit-code/signal distinction.
	SetWaitStatus(ws unix.WaitStatus)
}

// Shell bundles everything a builtin may touch in its host. A failed
// builtin reports through Status and Diag; it must never terminate the
// host process.
type Shell struct {
	Vars   Environ
	Status Status

	// Stdout receives builtin output (ns and srv listings).
	Stdout io.Writer
	// Diag receives usage and error diagnostics, one line at a time.
	Diag io.Writer

	// Trace echoes the effective form of state-changing commands to Diag,
	// like the shell's -x mode.
	Trace bool

	// Interrupted reports whether an interrupt is pending in the host
	// shell. May be nil.
	Interrupted func() bool
}

// Diagf writes a single diagnostic line.
func (s *Shell) Diagf(format string, args ...any) {
	fmt.Fprintf(s.Diag, format+"\n", args...)
}

// Outf writes a line of builtin output.
func (s *Shell) Outf(format string, args ...any) {
	fmt.Fprintf(s.Stdout, format+"\n", args...)
}

// Tracef echoes an effective command when tracing is on.
func (s *Shell) Tracef(format string, args ...any) {
	if s.Trace {
		fmt.Fprintf(s.Diag, format+"\n", args...)
	}
}

// CheckInterrupt reports a pending interrupt, if the host wired a probe.
func (s *Shell) CheckInterrupt() bool {
	return s.Interrupted != nil && s.Interrupted()
}

// MapEnviron is an in-memory Environ.
type MapEnviron struct {
	vars map[string][]string
}

var _ Environ = (*MapEnviron)(nil)

// NewMapEnviron returns an empty MapEnviron.
func NewMapEnviron() *MapEnviron {
	return &MapEnviron{vars: make(map[string][]string)}
}

// Get implements Environ.Get.
func (m *MapEnviron) Get(name string) []string {
	return m.vars[name]
}

// Set implements Environ.Set.
func (m *MapEnviron) Set(name string, values []string) {
	m.vars[name] = values
}

// ExitStatus records the most recent builtin result. It implements Status
// for hosts that represent $status as a numeric exit code.
type ExitStatus struct {
	// Code is the exit code a shell would report: 0 on success, 1 on
	// failure, 128+signal for delegated processes killed by a signal.
	Code int
	// Signal is set when a delegated process was terminated by a signal.
	Signal unix.Signal
}

var _ Status = (*ExitStatus)(nil)

// Set implements Status.Set.
func (e *ExitStatus) Set(ok bool) {
	e.Signal = 0
	if ok {
		e.Code = 0
	} else {
		e.Code = 1
	}
}

// SetWaitStatus implements Status.SetWaitStatus.
func (e *ExitStatus) SetWaitStatus(ws unix.WaitStatus) {
	e.Signal = 0
	switch {
	case ws.Signaled():
		e.Signal = ws.Signal()
		e.Code = 128 + int(ws.Signal())
	case ws.Exited():
		e.Code = ws.ExitStatus()
	}
}

// Ok reports whether the last builtin succeeded.
func (e *ExitStatus) Ok() bool {
	return e.Code == 0
}

// New returns a Shell backed by in-memory variables and the process's
// stdio, seeded with $path from the process environment. Suitable for the
// standalone binary and tests.
func New() *Shell {
	vars := NewMapEnviron()
	if p := os.Getenv("PATH"); p != "" {
		vars.Set("path", filepath.SplitList(p))
	}
	if h := os.Getenv("CPU"); h != "" {
		vars.Set("cpu", strings.Fields(h))
	}
	return &Shell{
		Vars:   vars,
		Status: &ExitStatus{},
		Stdout: os.Stdout,
		Diag:   os.Stderr,
	}
}
