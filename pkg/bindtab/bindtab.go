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

// Package bindtab maintains the per-process namespace bind table: an
// ordered multimap from canonical mountpoint to bind entries. The order of
// entries sharing a mountpoint encodes union-mount precedence, so a lookup
// returns the highest-priority source first.
package bindtab

import (
	"fmt"
	"iter"

	"rc9.dev/rc9/pkg/nspath"
)

// Mode describes how a bind entry joins the entries already present at its
// mountpoint.
type Mode uint8

const (
	// Replace removes all existing entries at the mountpoint.
	Replace Mode = 0
	// Before prepends the entry, giving it highest priority.
	Before Mode = 1 << 0
	// After appends the entry, making it the fallback.
	After Mode = 1 << 1
	// Create asks operations consuming the mode to create the mountpoint
	// if it is absent. It is not stored in the table.
	Create Mode = 1 << 2
)

// Union strips the Create flag, leaving only the union-placement bits.
func (m Mode) Union() Mode {
	return m & (Before | After)
}

// String returns the placement name used by namespace listings.
func (m Mode) String() string {
	switch {
	case m&Before != 0:
		return "before"
	case m&After != 0:
		return "after"
	default:
		return "replace"
	}
}

// Flag returns the bind flag that recreates this mode, including a
// trailing space, or "" for replace.
func (m Mode) Flag() string {
	switch {
	case m&Before != 0:
		return "-b "
	case m&After != 0:
		return "-a "
	default:
		return ""
	}
}

// Entry is a single namespace binding. From and To are stored in canonical
// form.
type Entry struct {
	From string
	To   string
	Mode Mode
}

// Table is the namespace bind table. It is owned by a single shell
// execution context and is not safe for concurrent use.
type Table struct {
	chains map[string][]*Entry
	// order keeps mountpoints in first-bind order so listings are
	// deterministic.
	order []string
	count int
}

// New returns an empty table.
func New() *Table {
	return &Table{chains: make(map[string][]*Entry)}
}

// Add canonicalizes both paths and inserts a binding according to the
// mode's placement rule. Callers are responsible for validating that the
// paths exist beforehand.
func (t *Table) Add(from, to string, mode Mode) *Entry {
	e := &Entry{
		From: nspath.Clean(from),
		To:   nspath.Clean(to),
		Mode: mode.Union(),
	}
	chain := t.chains[e.To]
	switch {
	case len(chain) == 0:
		t.order = append(t.order, e.To)
		t.chains[e.To] = []*Entry{e}
	case mode&Before != 0:
		t.chains[e.To] = append([]*Entry{e}, chain...)
	case mode&After != 0:
		t.chains[e.To] = append(chain, e)
	default:
		// Replace clears every existing entry at this mountpoint.
		t.count -= len(chain)
		t.chains[e.To] = []*Entry{e}
	}
	t.count++
	return e
}

// Remove deletes bindings at mountpoint to. With from set, only the first
// entry matching both paths is removed; with from empty, every entry at the
// mountpoint goes. It reports whether anything was removed.
func (t *Table) Remove(from, to string) bool {
	cto := nspath.Clean(to)
	chain := t.chains[cto]
	if len(chain) == 0 {
		return false
	}
	if from == "" {
		t.count -= len(chain)
		t.drop(cto)
		return true
	}
	cfrom := nspath.Clean(from)
	for i, e := range chain {
		if e.From == cfrom {
			chain = append(chain[:i], chain[i+1:]...)
			t.count--
			if len(chain) == 0 {
				t.drop(cto)
			} else {
				t.chains[cto] = chain
			}
			return true
		}
	}
	return false
}

func (t *Table) drop(to string) {
	delete(t.chains, to)
	for i, k := range t.order {
		if k == to {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

// FindFirst returns the highest-priority entry bound at mountpoint to.
func (t *Table) FindFirst(to string) (*Entry, bool) {
	chain := t.chains[nspath.Clean(to)]
	if len(chain) == 0 {
		return nil, false
	}
	return chain[0], true
}

// Resolve maps a path through the table: a bound path resolves to its
// highest-priority source, an unbound path resolves to itself in canonical
// form.
func (t *Table) Resolve(path string) string {
	clean := nspath.Clean(path)
	if chain := t.chains[clean]; len(chain) > 0 {
		return chain[0].From
	}
	return clean
}

// Count returns the number of live entries.
func (t *Table) Count() int {
	return t.count
}

// Enumerate yields one printable line per entry, in precedence order within
// a mountpoint and first-bind order across mountpoints. With recreate set,
// lines are bind commands suitable for replaying the namespace; otherwise
// they are tab-separated "from to (mode)" rows.
func (t *Table) Enumerate(recreate bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, to := range t.order {
			for _, e := range t.chains[to] {
				var line string
				if recreate {
					line = fmt.Sprintf("bind %s%s %s", e.Mode.Flag(), e.From, e.To)
				} else {
					line = fmt.Sprintf("%s\t%s\t(%s)", e.From, e.To, e.Mode)
				}
				if !yield(line) {
					return
				}
			}
		}
	}
}
