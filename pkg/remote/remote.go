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

// Package remote executes commands on another host over ssh, carrying the
// caller's search path along so the remote environment behaves like the
// local one.
package remote

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"rc9.dev/rc9/pkg/runner"
)

// Options selects the target and transport details of one remote run.
type Options struct {
	Host string
	User string
	// ForwardAgent passes -A so the remote side can use the local ssh
	// agent.
	ForwardAgent bool
}

// Executor builds and runs ssh command lines.
type Executor struct {
	Launcher runner.Launcher
	// SSH is the ssh program name.
	SSH string
	// IsTerminal reports whether stdin is a terminal, in which case a
	// remote tty is allocated. Overridable in tests.
	IsTerminal func() bool
}

// New returns an executor using the given launcher and the stock ssh.
func New(l runner.Launcher) *Executor {
	return &Executor{
		Launcher: l,
		SSH:      "ssh",
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Serialize flattens a command line into a single remote shell string,
// prefixed with a PATH export built from the caller's search path. Words
// containing whitespace are single-quoted so they survive the remote
// shell's splitting.
func Serialize(path []string, argv []string) string {
	var b strings.Builder
	if len(path) > 0 {
		b.WriteString("PATH=")
		b.WriteString(strings.Join(path, ":"))
		b.WriteString("; ")
	}
	for i, arg := range argv {
		if i > 0 {
			b.WriteByte(' ')
		}
		if strings.ContainsAny(arg, " \t") {
			b.WriteByte('\'')
			b.WriteString(arg)
			b.WriteByte('\'')
		} else {
			b.WriteString(arg)
		}
	}
	return b.String()
}

// Command builds the full ssh argv for a remote run. BatchMode disables
// interactive password prompts so a failing connection errors out instead
// of hanging the shell.
func (e *Executor) Command(opts Options, path []string, argv []string) []string {
	cmd := []string{e.SSH}
	if opts.ForwardAgent {
		cmd = append(cmd, "-A")
	}
	if e.IsTerminal != nil && e.IsTerminal() {
		cmd = append(cmd, "-t")
	}
	cmd = append(cmd, "-o", "BatchMode=yes")
	if opts.User != "" {
		cmd = append(cmd, "-l", opts.User)
	}
	return append(cmd, opts.Host, Serialize(path, argv))
}

// Run executes argv on the remote host and returns the raw wait status, so
// the caller can propagate exit codes and signal terminations unchanged.
func (e *Executor) Run(opts Options, path []string, argv []string) (unix.WaitStatus, error) {
	return e.Launcher.Run(e.Command(opts, path, argv))
}
