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

// Import implements subcommands.Command for the "import" builtin, which
// brings a remote file tree into the local namespace via sshfs with a
// 9pfuse fallback.
type Import struct {
	after  bool
	before bool
	create bool
}

// Name implements subcommands.Command.Name.
func (*Import) Name() string {
	return "import"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Import) Synopsis() string {
	return "imports a remote file tree into the namespace"
}

// Usage implements subcommands.Command.Usage.
func (*Import) Usage() string {
	return `import [-abc] host path [mountpoint]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (i *Import) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&i.after, "a", false, "union mount: tree appears after mountpoint (fallback)")
	f.BoolVar(&i.before, "b", false, "union mount: tree appears before mountpoint (priority)")
	f.BoolVar(&i.create, "c", false, "create the mountpoint if it doesn't exist")
}

// Execute implements subcommands.Command.Execute.
func (i *Import) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)
	if f.NArg() != 2 && f.NArg() != 3 {
		return c.usage(i.Usage())
	}
	host, path := f.Arg(0), f.Arg(1)
	mountpoint := f.Arg(2) // "" means mount at the remote path locally
	mode := unionMode(i.after, i.before, i.create)

	c.Shell.Tracef("import %s %s -> %s", host, path, mountpoint)

	if err := c.Mounts.Import(host, path, mountpoint, mode); err != nil {
		return c.fail("import: could not import %s from %s: %v", path, host, err)
	}
	return c.ok()
}
