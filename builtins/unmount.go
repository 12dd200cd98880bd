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

// Unmount implements subcommands.Command for the "unmount" builtin. It
// removes a namespace binding, an OS-level mount, or both; either one
// disappearing counts as success.
type Unmount struct{}

// Name implements subcommands.Command.Name.
func (*Unmount) Name() string {
	return "unmount"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Unmount) Synopsis() string {
	return "removes a namespace binding and/or OS mount"
}

// Usage implements subcommands.Command.Usage.
func (*Unmount) Usage() string {
	return `unmount [from] mountpoint
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Unmount) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (u *Unmount) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)
	var from, mountpoint string
	switch f.NArg() {
	case 1:
		mountpoint = f.Arg(0)
	case 2:
		from, mountpoint = f.Arg(0), f.Arg(1)
	default:
		return c.usage(u.Usage())
	}

	if err := c.Mounts.Unmount(from, mountpoint); err != nil {
		return c.fail("unmount: %v", err)
	}
	if from != "" {
		c.Shell.Tracef("unmount %s %s", from, mountpoint)
	} else {
		c.Shell.Tracef("unmount %s", mountpoint)
	}
	return c.ok()
}
