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

package cli

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"

	"rc9.dev/rc9/builtins"
	"rc9.dev/rc9/config"
	"rc9.dev/rc9/pkg/shell"
)

func TestExpand(t *testing.T) {
	for _, tc := range []struct {
		name string
		cmd  string
		args []string
		want []string
	}{
		{
			name: "cluster splits",
			cmd:  "bind",
			args: []string{"-ac", "/lib", "/usr/lib"},
			want: []string{"-a", "-c", "/lib", "/usr/lib"},
		},
		{
			name: "separate flags pass through",
			cmd:  "bind",
			args: []string{"-a", "-c", "/lib", "/usr/lib"},
			want: []string{"-a", "-c", "/lib", "/usr/lib"},
		},
		{
			name: "valued flag takes next argument",
			cmd:  "cpu",
			args: []string{"-h", "fir", "uname"},
			want: []string{"-h", "fir", "uname"},
		},
		{
			name: "valued flag takes attached value",
			cmd:  "cpu",
			args: []string{"-hfir", "uname"},
			want: []string{"-h", "fir", "uname"},
		},
		{
			name: "boolean then valued in one cluster",
			cmd:  "cpu",
			args: []string{"-Ah", "fir", "uname"},
			want: []string{"-A", "-h", "fir", "uname"},
		},
		{
			name: "operands end flag processing",
			cmd:  "cpu",
			args: []string{"-h", "fir", "ls", "-la", "/tmp"},
			want: []string{"-h", "fir", "ls", "-la", "/tmp"},
		},
		{
			name: "mount spec option",
			cmd:  "mount",
			args: []string{"-bs", "nfs", "srv:/x", "/n/x"},
			want: []string{"-b", "-s", "nfs", "srv:/x", "/n/x"},
		},
		{
			name: "double dash passes through",
			cmd:  "bind",
			args: []string{"--", "-odd", "/mnt"},
			want: []string{"--", "-odd", "/mnt"},
		},
		{
			name: "lone dash is an operand",
			cmd:  "srv",
			args: []string{"-", "cat"},
			want: []string{"-", "cat"},
		},
		{
			name: "no args",
			cmd:  "ns",
			args: nil,
			want: nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Expand(tc.cmd, tc.args)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Expand(%q, %v) mismatch (-want +got):\n%s", tc.cmd, tc.args, diff)
			}
		})
	}
}

func testContext(t *testing.T) *builtins.Context {
	t.Helper()
	conf := config.Default()
	conf.SrvDir = t.TempDir()
	sh := &shell.Shell{
		Vars:   shell.NewMapEnviron(),
		Status: &shell.ExitStatus{},
		Stdout: &bytes.Buffer{},
		Diag:   &bytes.Buffer{},
	}
	return builtins.NewContext(conf, sh)
}

func bindings(c *builtins.Context) []string {
	return slices.Collect(c.Table.Enumerate(true))
}

func TestRunDispatch(t *testing.T) {
	c := testContext(t)
	from, to := t.TempDir(), t.TempDir()

	es, known := Run(context.Background(), c, []string{"bind", "-a", from, to})
	if !known {
		t.Fatal("bind not recognized as a builtin")
	}
	if es != subcommands.ExitSuccess {
		t.Fatalf("bind returned %v, want success", es)
	}
	if got := c.Table.Count(); got != 1 {
		t.Errorf("table has %d bindings, want 1", got)
	}
	if !c.Shell.Status.(*shell.ExitStatus).Ok() {
		t.Error("status sink reports failure after successful bind")
	}
}

func TestRunUnknownName(t *testing.T) {
	c := testContext(t)
	if _, known := Run(context.Background(), c, []string{"grep", "x"}); known {
		t.Error("grep claimed as a builtin")
	}
}

func TestRunClusteredFlags(t *testing.T) {
	one := testContext(t)
	two := testContext(t)
	from, to := t.TempDir(), t.TempDir()

	if es, _ := Run(context.Background(), one, []string{"bind", "-ac", from, to}); es != subcommands.ExitSuccess {
		t.Fatalf("bind -ac returned %v", es)
	}
	if es, _ := Run(context.Background(), two, []string{"bind", "-a", "-c", from, to}); es != subcommands.ExitSuccess {
		t.Fatalf("bind -a -c returned %v", es)
	}
	if diff := cmp.Diff(bindings(one), bindings(two)); diff != "" {
		t.Errorf("clustered and separate flags diverge:\n%s", diff)
	}
}

// addns must behave exactly like bind -a.
func TestRunAddnsMatchesBindAfter(t *testing.T) {
	viaBind := testContext(t)
	viaAddns := testContext(t)
	from, to := t.TempDir(), t.TempDir()

	if es, _ := Run(context.Background(), viaBind, []string{"bind", "-a", from, to}); es != subcommands.ExitSuccess {
		t.Fatalf("bind -a returned %v", es)
	}
	if es, _ := Run(context.Background(), viaAddns, []string{"addns", from, to}); es != subcommands.ExitSuccess {
		t.Fatalf("addns returned %v", es)
	}
	if diff := cmp.Diff(bindings(viaBind), bindings(viaAddns)); diff != "" {
		t.Errorf("addns and bind -a diverge:\n%s", diff)
	}
}

func TestRunUsageErrorHasNoSideEffects(t *testing.T) {
	c := testContext(t)

	es, known := Run(context.Background(), c, []string{"bind", "/only-one-arg"})
	if !known || es != subcommands.ExitUsageError {
		t.Fatalf("bind with one arg returned (%v, %v), want usage error", es, known)
	}
	if got := c.Table.Count(); got != 0 {
		t.Errorf("usage error mutated the table: %d bindings", got)
	}
	if c.Shell.Status.(*shell.ExitStatus).Ok() {
		t.Error("status sink reports success after usage error")
	}
}

func TestRunBadFlagSetsStatus(t *testing.T) {
	c := testContext(t)

	es, known := Run(context.Background(), c, []string{"ns", "-z"})
	if !known || es != subcommands.ExitUsageError {
		t.Fatalf("ns -z returned (%v, %v), want usage error", es, known)
	}
	if c.Shell.Status.(*shell.ExitStatus).Ok() {
		t.Error("status sink reports success after flag parse error")
	}
}

func TestNamesCoverAllBuiltins(t *testing.T) {
	want := []string{"bind", "mount", "unmount", "ns", "cpu", "import", "srv", "rfork", "addns"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("builtin names mismatch (-want +got):\n%s", diff)
	}
}
