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
	"strconv"

	"github.com/google/subcommands"
)

// Srv implements subcommands.Command for the "srv" builtin: named service
// rendezvous over FIFOs in a well-known directory.
//
//	srv              list services
//	srv name         connect: export $srv_<name> with the rendezvous path
//	srv name cmd...  post a service running cmd
//	srv -r name      remove a service
type Srv struct {
	remove bool
}

// Name implements subcommands.Command.Name.
func (*Srv) Name() string {
	return "srv"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Srv) Synopsis() string {
	return "lists, connects, posts or removes named services"
}

// Usage implements subcommands.Command.Usage.
func (*Srv) Usage() string {
	return `srv [-r] [name [cmd ...]]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (s *Srv) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&s.remove, "r", false, "remove the named service")
}

// Execute implements subcommands.Command.Execute.
func (s *Srv) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	c := args[0].(*Context)

	switch {
	case s.remove:
		if f.NArg() != 1 {
			return c.usage(s.Usage())
		}
		name := f.Arg(0)
		if err := c.Services.Remove(name); err != nil {
			return c.fail("srv: %v", err)
		}
		c.Shell.Tracef("srv: removed %s", name)
		return c.ok()

	case f.NArg() == 0:
		return s.list(c)

	case f.NArg() == 1:
		name := f.Arg(0)
		path, err := c.Services.Lookup(name)
		if err != nil {
			return c.fail("srv: %v", err)
		}
		c.Shell.Vars.Set("srv_"+name, []string{path})
		c.Shell.Outf("%s", path)
		return c.ok()

	default:
		name := f.Arg(0)
		pid, err := c.Services.Create(name, f.Args()[1:])
		if err != nil {
			return c.fail("srv: %v", err)
		}
		c.Shell.Vars.Set("apid", []string{strconv.Itoa(pid)})
		c.Shell.Tracef("srv: %s -> %s (pid %d)", name, c.Services.PathOf(name), pid)
		return c.ok()
	}
}

func (s *Srv) list(c *Context) subcommands.ExitStatus {
	found := false
	for svc := range c.Services.List() {
		c.Shell.Outf("%s\t%s\t(%s)", svc.Name, svc.Path, svc.Kind)
		found = true
	}
	if !found {
		c.Shell.Outf("# no services (srv dir: %s)", c.Services.Dir)
		// Best-effort orientation for the reader; a failure here is
		// deliberately silent.
		c.Mounts.Launcher.Run([]string{c.Conf.Tools.Mount})
	}
	return c.ok()
}
