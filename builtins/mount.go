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

	"github.com/google/subcommands"
)

// Mount implements subcommands.Command for the "mount" builtin, which
// attaches a remote or local resource at a mountpoint by delegating to
// sshfs or mount(8) and recording the attach in the bind table.
type Mount struct {
	after  bool
	before bool
	create bool
	noAuth bool
	spec   string
}

// Name implements subcommands.Command.Name.
func (*Mount) Name() string {
	return "mount"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Mount) Synopsis() string {
	return "attaches a remote or local resource at a mountpoint"
}

// Usage implements subcommands.Command.Usage.
func (*Mount) Usage() string {
	return `mount [-abc] [-s spec] address mountpoint
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (m *Mount) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&m.after, "a", false, "union mount: address appears after mountpoint (fallback)")
	f.BoolVar(&m.before, "b", false, "union mount: address appears before mountpoint (priority)")
	f.BoolVar(&m.create, "c", false, "create the mountpoint if it doesn't exist")
	f.BoolVar(&m.noAuth, "n", false, "no authentication (accepted for Plan 9 compatibility, ignored)")
	f.StringVar(&m.spec, "s", "", "filesystem type or extra mount options")
}

// Execute implements subcommands.Command.Execute.
func (m *Mount) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)
	if f.NArg() != 2 {
		return c.usage(m.Usage())
	}
	addr, mountpoint := f.Arg(0), f.Arg(1)
	mode := unionMode(m.after, m.before, m.create)

	if err := c.Mounts.Mount(addr, mountpoint, mode, m.spec); err != nil {
		return c.fail("mount: %v", err)
	}
	c.Shell.Tracef("mount %s %s", addr, mountpoint)
	return c.ok()
}
