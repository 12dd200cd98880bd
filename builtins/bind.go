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
	"os"

	"github.com/google/subcommands"

	"rc9.dev/rc9/pkg/bindtab"
	"rc9.dev/rc9/pkg/mounter"
)

// Bind implements subcommands.Command for the "bind" builtin. A bind
// overlays one directory (or file) onto another in the process's
// namespace; unlike a Unix mount it is process-local and unprivileged.
type Bind struct {
	after  bool
	before bool
	create bool
}

// Name implements subcommands.Command.Name.
func (*Bind) Name() string {
	return "bind"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Bind) Synopsis() string {
	return "adds a namespace binding from one path onto another"
}

// Usage implements subcommands.Command.Usage.
func (*Bind) Usage() string {
	return `bind [-abc] from to
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (b *Bind) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&b.after, "a", false, "union mount: from appears after to (fallback)")
	f.BoolVar(&b.before, "b", false, "union mount: from appears before to (priority)")
	f.BoolVar(&b.create, "c", false, "create the mountpoint if it doesn't exist")
}

// Execute implements subcommands.Command.Execute.
func (b *Bind) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)
	if f.NArg() != 2 {
		return c.usage(b.Usage())
	}
	from, to := f.Arg(0), f.Arg(1)
	mode := unionMode(b.after, b.before, b.create)

	// The source must exist; binds don't conjure paths.
	if _, err := os.Stat(from); err != nil {
		return c.fail("bind: %s: %v", from, err)
	}
	if err := mounter.EnsureMountpoint(to, mode&bindtab.Create != 0); err != nil {
		return c.fail("bind: %s: %v", to, err)
	}

	e := c.Table.Add(from, to, mode)

	// Let scripts chain namespace setup off the last bind.
	c.Shell.Vars.Set("ns_bind_last", []string{e.From + " " + e.To})

	c.Shell.Tracef("bind %s%s %s", e.Mode.Flag(), e.From, e.To)
	return c.ok()
}
