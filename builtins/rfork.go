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

	"rc9.dev/rc9/pkg/procattr"
)

// Rfork implements subcommands.Command for the "rfork" builtin. Unlike
// Plan 9's rfork it does not create a process: the flags apply to the
// current process, permanently.
type Rfork struct{}

// Name implements subcommands.Command.Name.
func (*Rfork) Name() string {
	return "rfork"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Rfork) Synopsis() string {
	return "changes the current process's namespace and attributes"
}

// Usage implements subcommands.Command.Usage.
func (*Rfork) Usage() string {
	return `rfork [cCeEnNsfF]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Rfork) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (r *Rfork) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)
	if f.NArg() > 1 {
		return c.usage(r.Usage())
	}

	flags, err := procattr.Parse(f.Arg(0))
	if err != nil {
		return c.fail("rfork: %v", err)
	}
	if err := procattr.Apply(flags, c.Shell.Vars, c.Conf.DefaultPath); err != nil {
		return c.fail("rfork: %v", err)
	}
	return c.ok()
}
