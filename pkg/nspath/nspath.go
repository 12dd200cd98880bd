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

// Package nspath canonicalizes filesystem paths used as namespace table
// keys. Paths that exist are resolved to their real absolute form; paths
// that don't are cleaned lexically, so a mountpoint can be named before it
// is created.
package nspath

import "path/filepath"

// Clean returns the canonical form of path. An empty path canonicalizes
// to ".".
func Clean(path string) string {
	if path == "" {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		if abs, err := filepath.Abs(resolved); err == nil {
			return abs
		}
	}
	// The path doesn't exist (or resolution failed); fall back to a
	// lexical cleanup, which also strips trailing separators without
	// touching the root.
	return filepath.Clean(path)
}
