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

// Package mounter attaches remote and local resources to namespace
// mountpoints. Transport is deliberately delegated to existing tools
// (sshfs, mount(8), 9pfuse); the orchestrator's job is sequencing fallback
// strategies and recording successful attaches in the bind table.
package mounter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"rc9.dev/rc9/pkg/bindtab"
	"rc9.dev/rc9/pkg/runner"
)

var log = logrus.WithField("module", "mounter")

// Tools names the external programs the orchestrator delegates to. Each
// must be on $PATH for the corresponding strategy to work.
type Tools struct {
	SSHFS      string
	Mount      string
	Umount     string
	Fusermount string
	NinePFuse  string
}

// DefaultTools returns the conventional tool names.
func DefaultTools() Tools {
	return Tools{
		SSHFS:      "sshfs",
		Mount:      "mount",
		Umount:     "umount",
		Fusermount: "fusermount",
		NinePFuse:  "9pfuse",
	}
}

// Request describes one attach attempt.
type Request struct {
	// Addr is the resource address: host:/path, a device, or a 9P dial
	// string.
	Addr string
	// Mountpoint is where the resource becomes visible.
	Mountpoint string
	// Spec is the optional filesystem type or extra mount options.
	Spec string
}

// Strategy is one way of attaching a request. Strategies are tried in
// order; the first success wins.
type Strategy struct {
	// Name identifies the strategy in diagnostics.
	Name string
	// Applies reports whether the strategy can serve the request. Nil
	// means always.
	Applies func(Request) bool
	// Argv builds the delegated command line.
	Argv func(Request) []string
}

// Orchestrator sequences mount strategies and records outcomes in the bind
// table. On failure the table is left untouched.
type Orchestrator struct {
	Launcher runner.Launcher
	Table    *bindtab.Table
	Tools    Tools

	// MountOptions are the sshfs -o options used by Mount.
	MountOptions string
	// ImportOptions are the sshfs -o options used by Import.
	ImportOptions string
}

// New returns an orchestrator with default tools and options.
func New(l runner.Launcher, t *bindtab.Table) *Orchestrator {
	return &Orchestrator{
		Launcher:      l,
		Table:         t,
		Tools:         DefaultTools(),
		MountOptions:  "reconnect,ServerAliveInterval=15",
		ImportOptions: "reconnect,ServerAliveInterval=15,follow_symlinks",
	}
}

// EnsureMountpoint validates that path can serve as a mountpoint, creating
// the directory when create is set. An existing non-directory is accepted:
// file binds are allowed.
func EnsureMountpoint(path string, create bool) error {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return nil
	}
	if create {
		if err := os.Mkdir(path, 0755); err == nil || os.IsExist(err) {
			return nil
		}
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return nil
}

// isRemoteAddr reports the host:/path shape sshfs understands.
func isRemoteAddr(addr string) bool {
	return strings.Contains(addr, ":") && strings.Contains(addr, "/")
}

// Mount attaches addr at mountpoint, trying sshfs for host:/path addresses
// and mount(8) otherwise, and records the bind on success. The mountpoint
// is created if absent.
func (o *Orchestrator) Mount(addr, mountpoint string, mode bindtab.Mode, spec string) error {
	if err := EnsureMountpoint(mountpoint, true); err != nil {
		return fmt.Errorf("cannot create %s: %v", mountpoint, err)
	}
	req := Request{Addr: addr, Mountpoint: mountpoint, Spec: spec}
	strategies := []Strategy{
		{
			Name:    "sshfs",
			Applies: func(r Request) bool { return isRemoteAddr(r.Addr) },
			Argv: func(r Request) []string {
				opts := o.MountOptions
				if r.Spec != "" {
					opts += "," + r.Spec
				}
				return []string{o.Tools.SSHFS, r.Addr, r.Mountpoint, "-o", opts}
			},
		},
		{
			Name: "mount",
			Argv: func(r Request) []string {
				argv := []string{o.Tools.Mount}
				if r.Spec != "" {
					argv = append(argv, "-t", r.Spec)
				}
				return append(argv, r.Addr, r.Mountpoint)
			},
		},
	}
	return o.attach(req, mode, strategies)
}

// Import mounts a remote file tree, trying sshfs and then 9pfuse, and
// records the bind keyed by the synthesized host:path address.
func (o *Orchestrator) Import(host, remotePath, mountpoint string, mode bindtab.Mode) error {
	if mountpoint == "" {
		mountpoint = remotePath
	}
	if err := EnsureMountpoint(mountpoint, true); err != nil {
		return fmt.Errorf("cannot create %s: %v", mountpoint, err)
	}
	req := Request{Addr: host + ":" + remotePath, Mountpoint: mountpoint}
	strategies := []Strategy{
		{
			Name: "sshfs",
			Argv: func(r Request) []string {
				return []string{o.Tools.SSHFS, r.Addr, r.Mountpoint, "-o", o.ImportOptions}
			},
		},
		{
			Name: "9pfuse",
			Argv: func(r Request) []string {
				return []string{o.Tools.NinePFuse, r.Addr, r.Mountpoint}
			},
		},
	}
	return o.attach(req, mode, strategies)
}

// attach runs the strategies in order. Intermediate failures are expected
// and recoverable, so they are only collected and logged; exhaustion is the
// reported failure.
func (o *Orchestrator) attach(req Request, mode bindtab.Mode, strategies []Strategy) error {
	var errs *multierror.Error
	for _, s := range strategies {
		if s.Applies != nil && !s.Applies(req) {
			continue
		}
		ws, err := o.Launcher.Run(s.Argv(req))
		if runner.Succeeded(ws, err) {
			o.Table.Add(req.Addr, req.Mountpoint, mode)
			return nil
		}
		if err == nil {
			err = waitError(ws)
		}
		log.Debugf("%s %s on %s: %v", s.Name, req.Addr, req.Mountpoint, err)
		errs = multierror.Append(errs, fmt.Errorf("%s: %v", s.Name, err))
	}
	return fmt.Errorf("failed to mount %s on %s: %w", req.Addr, req.Mountpoint, errs.ErrorOrNil())
}

// Unmount removes bindings at mountpoint from the table and independently
// attempts an external unmount. Success is the OR of the two legs: a stale
// bind entry alone satisfies it, as does a real mount the table never knew
// about. The two cases are not distinguished in the result.
func (o *Orchestrator) Unmount(from, mountpoint string) error {
	removed := o.Table.Remove(from, mountpoint)
	detached := o.detach(mountpoint)
	if !removed && !detached {
		return fmt.Errorf("%s: not mounted", mountpoint)
	}
	return nil
}

// detach tries umount and then fusermount -u. Busy mounts settle quickly
// after their last user exits, so each tool is retried briefly.
func (o *Orchestrator) detach(mountpoint string) bool {
	for _, argv := range [][]string{
		{o.Tools.Umount, mountpoint},
		{o.Tools.Fusermount, "-u", mountpoint},
	} {
		if o.retryTool(argv) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) retryTool(argv []string) bool {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxElapsedTime = 500 * time.Millisecond
	err := backoff.Retry(func() error {
		ws, err := o.Launcher.Run(argv)
		if runner.Succeeded(ws, err) {
			return nil
		}
		if err != nil {
			// The tool couldn't be launched at all; retrying won't help.
			return backoff.Permanent(err)
		}
		return waitError(ws)
	}, b)
	if err != nil {
		log.Debugf("%s: %v", argv[0], err)
	}
	return err == nil
}

// waitError describes an unsuccessful wait status.
func waitError(ws unix.WaitStatus) error {
	if ws.Signaled() {
		return fmt.Errorf("terminated by signal %v", ws.Signal())
	}
	return fmt.Errorf("exit status %d", ws.ExitStatus())
}
