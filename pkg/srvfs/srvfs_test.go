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

package srvfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"rc9.dev/rc9/pkg/runner/runnertest"
)

func collect(r *Registry) []Service {
	var svcs []Service
	for s := range r.List() {
		svcs = append(svcs, s)
	}
	return svcs
}

func TestServiceRoundTrip(t *testing.T) {
	fake := &runnertest.Fake{StartedPid: 1234}
	r := New(t.TempDir(), fake)

	pid, err := r.Create("foo", []string{"cat"})
	require.NoError(t, err)
	require.Equal(t, 1234, pid)

	// The rendezvous point is a FIFO.
	st, err := os.Stat(r.PathOf("foo"))
	require.NoError(t, err)
	require.Equal(t, os.ModeNamedPipe, st.Mode()&os.ModeNamedPipe)

	// The worker got the command line.
	require.Equal(t, [][]string{{"cat"}}, fake.Calls)

	// It shows up in the listing, classified as a fifo.
	svcs := collect(r)
	require.Len(t, svcs, 1)
	require.Equal(t, Service{Name: "foo", Path: r.PathOf("foo"), Kind: "fifo"}, svcs[0])

	// Connect resolves the path.
	path, err := r.Lookup("foo")
	require.NoError(t, err)
	require.Equal(t, r.PathOf("foo"), path)

	// Remove takes the name away; a second lookup fails.
	require.NoError(t, r.Remove("foo"))
	_, err = r.Lookup("foo")
	require.ErrorContains(t, err, "not found")
	require.Empty(t, collect(r))
}

func TestCreateReplacesStaleEntry(t *testing.T) {
	fake := &runnertest.Fake{}
	r := New(t.TempDir(), fake)

	// A dead worker's FIFO, or any stray file, at the rendezvous path.
	require.NoError(t, os.WriteFile(r.PathOf("stale"), []byte("x"), 0644))

	_, err := r.Create("stale", []string{"cat"})
	require.NoError(t, err)

	st, err := os.Stat(r.PathOf("stale"))
	require.NoError(t, err)
	require.NotZero(t, st.Mode()&os.ModeNamedPipe)
}

func TestCreateFailureDoesNotStartWorker(t *testing.T) {
	fake := &runnertest.Fake{}
	dir := t.TempDir()
	r := New(dir, fake)

	// Occupy the rendezvous path with a non-empty directory so both the
	// stale unlink and the mkfifo fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "busy", "sub"), 0755))

	_, err := r.Create("busy", []string{"cat"})
	require.Error(t, err)
	require.Empty(t, fake.Calls)
}

func TestListClassifiesKinds(t *testing.T) {
	r := New(t.TempDir(), &runnertest.Fake{})
	require.NoError(t, r.ensureDir())

	require.NoError(t, unix.Mkfifo(r.PathOf("pipe"), 0666))
	require.NoError(t, os.WriteFile(r.PathOf("plain"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, ".hidden"), nil, 0644))

	kinds := map[string]string{}
	for s := range r.List() {
		kinds[s.Name] = s.Kind
	}
	require.Equal(t, map[string]string{"pipe": "fifo", "plain": "file"}, kinds)
}

func TestListMissingDir(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "nosuch"), &runnertest.Fake{})
	require.Empty(t, collect(r))
}

func TestRemoveMissing(t *testing.T) {
	r := New(t.TempDir(), &runnertest.Fake{})
	err := r.Remove("ghost")
	require.ErrorContains(t, err, "not found")
}

func TestBadNames(t *testing.T) {
	r := New(t.TempDir(), &runnertest.Fake{})
	for _, name := range []string{"", ".", "..", "a/b", ".lock"} {
		if _, err := r.Create(name, []string{"cat"}); err == nil {
			t.Errorf("Create(%q) succeeded, want error", name)
		}
		if _, err := r.Lookup(name); err == nil {
			t.Errorf("Lookup(%q) succeeded, want error", name)
		}
	}
}
