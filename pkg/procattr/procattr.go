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

// Package procattr applies Plan 9-style rfork flags to the current
// process: new process group, new mount namespace, cleared environment,
// closed file descriptors. All mutations are permanent for the process's
// lifetime; there is no rollback if a later flag fails after an earlier one
// applied.
package procattr

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"rc9.dev/rc9/pkg/shell"
)

var log = logrus.WithField("module", "procattr")

// Flags is an OR'd set of process-attribute mutations.
type Flags uint

const (
	// NewNamespace moves the process into a new mount namespace.
	NewNamespace Flags = 1 << iota
	// CopyNamespace is accepted for Plan 9 compatibility; Unix fork
	// already copies the namespace.
	CopyNamespace
	// NewEnv replaces the environment with an empty set and resets the
	// shell's search path to the default list.
	NewEnv
	// CopyEnv is a no-op on Unix.
	CopyEnv
	// NewProcGroup makes the process its own process-group leader.
	NewProcGroup
	// NewFDs closes every file descriptor numbered 3 and up.
	NewFDs
	// CopyFDs is a no-op on Unix.
	CopyFDs
)

// Parse converts an rfork flag string into a flag set. An empty string
// defaults to a new process group only. Unknown characters fail with
// nothing applied.
func Parse(s string) (Flags, error) {
	var f Flags
	for _, c := range s {
		switch c {
		case 'c', 'n':
			f |= NewNamespace
		case 'C', 'N':
			f |= CopyNamespace
		case 'e':
			f |= NewEnv
		case 'E':
			f |= CopyEnv
		case 's':
			f |= NewProcGroup
		case 'f':
			f |= NewFDs
		case 'F':
			f |= CopyFDs
		default:
			return 0, fmt.Errorf("unknown flag %c", c)
		}
	}
	if f == 0 {
		f = NewProcGroup
	}
	return f, nil
}

// Apply mutates the current process. defaultPath is the search path the
// shell falls back to after NewEnv clears the environment. The copy
// variants are no-ops: Unix fork copies those attributes by default.
func Apply(f Flags, vars shell.Environ, defaultPath []string) error {
	if f&NewProcGroup != 0 {
		if err := unix.Setpgid(0, os.Getpid()); err != nil && err != unix.EPERM {
			// EPERM means we already lead a group; anything else is
			// unexpected but not worth failing the whole call.
			log.WithError(err).Debug("setpgid")
		}
	}

	if f&NewNamespace != 0 {
		if err := unshareMountNS(); err != nil {
			return err
		}
	}

	if f&NewEnv != 0 {
		os.Clearenv()
		vars.Set("path", defaultPath)
	}

	if f&NewFDs != 0 {
		closeFDs()
	}
	return nil
}

// closeFDs closes every descriptor numbered 3 and up, preserving stdio.
func closeFDs() {
	// ReadDir snapshots and closes the directory before we start closing,
	// so the sweep can't pull the rug out from under itself. Its own
	// (already closed) descriptor appearing in the list is harmless.
	if ents, err := os.ReadDir("/proc/self/fd"); err == nil {
		for _, ent := range ents {
			if fd, err := strconv.Atoi(ent.Name()); err == nil && fd > 2 {
				unix.Close(fd)
			}
		}
		return
	}
	// No /proc; sweep a fixed range.
	for fd := 3; fd < 1024; fd++ {
		unix.Close(fd)
	}
}
