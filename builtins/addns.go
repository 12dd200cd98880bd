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

// Addns implements subcommands.Command for the "addns" builtin, a
// shorthand for "bind -a from to" used in namespace setup scripts.
type Addns struct{}

// Name implements subcommands.Command.Name.
func (*Addns) Name() string {
	return "addns"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Addns) Synopsis() string {
	return "appends a union namespace entry (bind -a)"
}

// Usage implements subcommands.Command.Usage.
func (*Addns) Usage() string {
	return `addns from to
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Addns) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (a *Addns) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)
	if f.NArg() != 2 {
		return c.usage(a.Usage())
	}

	// Delegate to bind so the two can never drift apart.
	bind := &Bind{}
	fs := flag.NewFlagSet(bind.Name(), flag.ContinueOnError)
	fs.SetOutput(c.Shell.Diag)
	bind.SetFlags(fs)
	if err := fs.Parse([]string{"-a", f.Arg(0), f.Arg(1)}); err != nil {
		return c.fail("addns: %v", err)
	}
	return bind.Execute(ctx, fs, args...)
}
