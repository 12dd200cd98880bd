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

// Package builtins implements the namespace and rendezvous shell builtins:
// bind, mount, unmount, ns, cpu, import, srv, rfork and addns. Each is a
// subcommands.Command taking a *Context as its first Execute argument.
//
// Builtins report through the host shell's status and diagnostic sinks and
// never terminate the host process.
package builtins

import (
	"strings"

	"github.com/google/subcommands"

	"rc9.dev/rc9/config"
	"rc9.dev/rc9/pkg/bindtab"
	"rc9.dev/rc9/pkg/mounter"
	"rc9.dev/rc9/pkg/remote"
	"rc9.dev/rc9/pkg/runner"
	"rc9.dev/rc9/pkg/shell"
	"rc9.dev/rc9/pkg/srvfs"
)

// Context carries the namespace state a builtin invocation operates on.
// One Context belongs to one shell execution context; its bind table is
// process-local and single-threaded, like the shell's own dispatch.
type Context struct {
	Shell    *shell.Shell
	Table    *bindtab.Table
	Mounts   *mounter.Orchestrator
	Services *srvfs.Registry
	Remote   *remote.Executor
	Conf     *config.Config
}

// NewContext wires a fresh namespace context for a host shell.
func NewContext(conf *config.Config, sh *shell.Shell) *Context {
	launcher := runner.ExecLauncher{}
	table := bindtab.New()

	mounts := mounter.New(launcher, table)
	mounts.Tools = mounter.Tools{
		SSHFS:      conf.Tools.SSHFS,
		Mount:      conf.Tools.Mount,
		Umount:     conf.Tools.Umount,
		Fusermount: conf.Tools.Fusermount,
		NinePFuse:  conf.Tools.NinePFuse,
	}
	mounts.MountOptions = conf.MountOptions
	mounts.ImportOptions = conf.ImportOptions

	rem := remote.New(launcher)
	rem.SSH = conf.Tools.SSH

	return &Context{
		Shell:    sh,
		Table:    table,
		Mounts:   mounts,
		Services: srvfs.New(conf.SrvDir, launcher),
		Remote:   rem,
		Conf:     conf,
	}
}

// ok reports success to the status sink.
func (c *Context) ok() subcommands.ExitStatus {
	c.Shell.Status.Set(true)
	return subcommands.ExitSuccess
}

// fail writes one diagnostic line and reports failure.
func (c *Context) fail(format string, args ...any) subcommands.ExitStatus {
	c.Shell.Diagf(format, args...)
	c.Shell.Status.Set(false)
	return subcommands.ExitFailure
}

// usage reports a usage error. Usage errors have no side effects.
func (c *Context) usage(u string) subcommands.ExitStatus {
	c.Shell.Diagf("usage: %s", strings.TrimSpace(u))
	c.Shell.Status.Set(false)
	return subcommands.ExitUsageError
}

// unionMode combines the -a/-b/-c flags common to bind, mount and import.
// -b takes precedence over -a, matching the later-flag-wins reading of a
// combined flag string.
func unionMode(after, before, create bool) bindtab.Mode {
	m := bindtab.Replace
	if after {
		m = bindtab.After
	}
	if before {
		m = bindtab.Before
	}
	if create {
		m |= bindtab.Create
	}
	return m
}
