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

package nspath

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanLexical(t *testing.T) {
	for _, tc := range []struct {
		name string
		path string
		want string
	}{
		{name: "empty", path: "", want: "."},
		{name: "trailing slash", path: "/no/such/dir/", want: "/no/such/dir"},
		{name: "trailing slashes", path: "/no/such/dir///", want: "/no/such/dir"},
		{name: "root", path: "/", want: "/"},
		{name: "dot segments", path: "/no/such/../dir/.", want: "/no/dir"},
		{name: "relative", path: "no/such/dir/", want: "no/such/dir"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.path); got != tc.want {
				t.Errorf("Clean(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestCleanResolvesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	got := Clean(link + "/")
	// The temp dir itself may sit behind a symlink (e.g. /tmp on some
	// systems), so compare against the resolved target.
	want, err := filepath.EvalSymlinks(target)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Clean(%q) = %q, want %q", link, got, want)
	}
}
