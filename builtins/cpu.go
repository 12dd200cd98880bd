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

package builtins

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"rc9.dev/rc9/pkg/remote"
)

// Cpu implements subcommands.Command for the "cpu" builtin: execute a
// command on a remote host with the local search path carried along, and
// the remote exit status propagated back unchanged.
type Cpu struct {
	host         string
	user         string
	forwardAgent bool
}

// Name implements subcommands.Command.Name.
func (*Cpu) Name() string {
	return "cpu"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Cpu) Synopsis() string {
	return "executes a command on a remote host"
}

// Usage implements subcommands.Command.Usage.
func (*Cpu) Usage() string {
	return `cpu [-h host] [-u user] [-A] cmd [args...]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (cp *Cpu) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cp.host, "h", "", "remote host (defaults to $cpu)")
	f.StringVar(&cp.user, "u", "", "remote user")
	f.BoolVar(&cp.forwardAgent, "A", false, "forward the ssh agent")
}

// Execute implements subcommands.Command.Execute.
func (cp *Cpu) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)

	host := cp.host
	if host == "" {
		if v := c.Shell.Vars.Get("cpu"); len(v) > 0 {
			host = v[0]
		}
	}
	if host == "" {
		return c.fail("cpu: no host specified (use -h or set $cpu)")
	}
	if f.NArg() == 0 {
		return c.usage(cp.Usage())
	}

	opts := remote.Options{Host: host, User: cp.user, ForwardAgent: cp.forwardAgent}
	path := c.Shell.Vars.Get("path")
	argv := f.Args()

	c.Shell.Tracef("cpu: %s", strings.Join(c.Remote.Command(opts, path, argv), " "))

	ws, err := c.Remote.Run(opts, path, argv)
	if err != nil {
		return c.fail("cpu: %v", err)
	}

	// The raw wait status goes to the shell so scripts can tell a remote
	// exit code from a signal death.
	c.Shell.Status.SetWaitStatus(ws)
	if c.Shell.CheckInterrupt() {
		return subcommands.ExitFailure
	}
	if ws.Exited() && ws.ExitStatus() == 0 {
		return subcommands.ExitSuccess
	}
	return subcommands.ExitFailure
}
