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

// Package srvfs manages named rendezvous points as FIFOs in a well-known
// directory. The filesystem is the registry: an entry exists exactly when
// its FIFO does, so the registry holds no in-memory state and stays
// consistent across process restarts.
package srvfs

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/fifo"
	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"rc9.dev/rc9/pkg/runner"
)

var log = logrus.WithField("module", "srvfs")

// lockFile serializes create/remove against other shells sharing the
// directory. It is skipped by listings along with all dotfiles.
const lockFile = ".lock"

// Service describes one registry entry.
type Service struct {
	Name string
	Path string
	// Kind is fifo, sock or file. Entries are FIFOs when created here,
	// but anything another process drops in the directory is listed too.
	Kind string
}

// Registry is a service directory. All operations re-derive truth from the
// filesystem.
type Registry struct {
	Dir      string
	Launcher runner.Launcher
}

// New returns a registry over dir.
func New(dir string, l runner.Launcher) *Registry {
	return &Registry{Dir: dir, Launcher: l}
}

// PathOf returns the rendezvous path for a service name.
func (r *Registry) PathOf(name string) string {
	return filepath.Join(r.Dir, name)
}

func (r *Registry) ensureDir() error {
	if st, err := os.Stat(r.Dir); err == nil && st.IsDir() {
		return nil
	}
	return os.MkdirAll(r.Dir, 0755)
}

func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("invalid service name %q", name)
	}
	return nil
}

// List yields the registry's services. A missing directory lists as empty.
func (r *Registry) List() iter.Seq[Service] {
	return func(yield func(Service) bool) {
		ents, err := os.ReadDir(r.Dir)
		if err != nil {
			return
		}
		for _, ent := range ents {
			if strings.HasPrefix(ent.Name(), ".") {
				continue
			}
			path := filepath.Join(r.Dir, ent.Name())
			st, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !yield(Service{Name: ent.Name(), Path: path, Kind: kindOf(path, st.Mode())}) {
				return
			}
		}
	}
}

func kindOf(path string, mode fs.FileMode) string {
	if ok, err := fifo.IsFifo(path); err == nil && ok {
		return "fifo"
	}
	if mode&fs.ModeSocket != 0 {
		return "sock"
	}
	return "file"
}

// Lookup returns the rendezvous path of an existing service.
func (r *Registry) Lookup(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	path := r.PathOf(name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s: not found", name)
	}
	return path, nil
}

// Create posts a new service: it replaces any stale object at the
// rendezvous path with a fresh FIFO and starts a detached worker with the
// FIFO on its stdin and stdout. The worker is never reaped; its pid is
// returned so the shell can export it. If the FIFO cannot be created, no
// worker is started.
func (r *Registry) Create(name string, argv []string) (int, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	if len(argv) == 0 {
		return 0, fmt.Errorf("%s: no command", name)
	}
	if err := r.ensureDir(); err != nil {
		return 0, err
	}

	// Two shells posting the same name can race the unlink/mkfifo window.
	lock := flock.New(filepath.Join(r.Dir, lockFile))
	if err := lock.Lock(); err == nil {
		defer lock.Unlock()
	} else {
		log.WithError(err).Warn("service directory lock unavailable")
	}

	path := r.PathOf(name)
	_ = os.Remove(path) // stale entry from a dead worker
	if err := unix.Mkfifo(path, 0666); err != nil {
		return 0, fmt.Errorf("cannot create %s: %v", path, err)
	}

	// Opening read-write never blocks and keeps the FIFO connectable from
	// either end.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("cannot open %s: %v", path, err)
	}
	defer f.Close()

	pid, err := r.Launcher.Start(argv, f, f, os.Stderr)
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return pid, nil
}

// Remove unlinks a service's rendezvous point. A still-running worker is
// left alone; removal only takes away the name.
func (r *Registry) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	path := r.PathOf(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s: not found", name)
	}
	lock := flock.New(filepath.Join(r.Dir, lockFile))
	if err := lock.Lock(); err == nil {
		defer lock.Unlock()
	}
	return os.Remove(path)
}
