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
	"io"
	"os"

	"github.com/google/subcommands"
)

// Ns implements subcommands.Command for the "ns" builtin, which prints the
// current namespace.
type Ns struct {
	recreate bool
}

// Name implements subcommands.Command.Name.
func (*Ns) Name() string {
	return "ns"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Ns) Synopsis() string {
	return "prints the current namespace"
}

// Usage implements subcommands.Command.Usage.
func (*Ns) Usage() string {
	return `ns [-r]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (n *Ns) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&n.recreate, "r", false, "print bind commands that recreate the namespace")
}

// Execute implements subcommands.Command.Execute.
func (n *Ns) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)
	if f.NArg() != 0 {
		return c.usage(n.Usage())
	}

	count := 0
	for line := range c.Table.Enumerate(n.recreate) {
		c.Shell.Outf("%s", line)
		count++
	}

	// An empty table is not an empty namespace: show the system's mounts
	// for orientation.
	if count == 0 && !n.recreate {
		n.showSystemMounts(c)
	}
	return c.ok()
}

func (n *Ns) showSystemMounts(c *Context) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		// No procfs; fall back to the mount tool's own listing.
		c.Mounts.Launcher.Run([]string{c.Conf.Tools.Mount})
		return
	}
	defer f.Close()
	c.Shell.Outf("# system mounts:")
	io.Copy(c.Shell.Stdout, f)
}
