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

package procattr

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"rc9.dev/rc9/pkg/shell"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Flags
	}{
		{in: "", want: NewProcGroup},
		{in: "s", want: NewProcGroup},
		{in: "n", want: NewNamespace},
		{in: "c", want: NewNamespace},
		{in: "e", want: NewEnv},
		{in: "f", want: NewFDs},
		{in: "CENF", want: CopyNamespace | CopyEnv | CopyFDs},
		{in: "ens", want: NewEnv | NewNamespace | NewProcGroup},
	} {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("sx"); err == nil {
		t.Error("Parse(\"sx\") succeeded, want error")
	}
}

// Attribute mutations are permanent, so they run in a helper process.
const helperEnv = "PROCATTR_TEST_HELPER"

func runHelper(t *testing.T, mode string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run", "TestApplyHelper$", "-test.v")
	cmd.Env = append(os.Environ(), helperEnv+"="+mode)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("helper %q failed: %v\n%s", mode, err, out)
	}
	if !strings.Contains(string(out), "helper: ok") {
		t.Fatalf("helper %q did not confirm:\n%s", mode, out)
	}
}

func TestApplyNewFDs(t *testing.T)       { runHelper(t, "fds") }
func TestApplyNewProcGroup(t *testing.T) { runHelper(t, "pgroup") }
func TestApplyNewEnv(t *testing.T)       { runHelper(t, "env") }

// TestApplyHelper is the helper-process body; it only runs when dispatched
// by runHelper.
func TestApplyHelper(t *testing.T) {
	mode := os.Getenv(helperEnv)
	if mode == "" {
		t.Skip("helper body; driven by TestApply*")
	}
	vars := shell.NewMapEnviron()
	defaultPath := []string{"/usr/local/bin", "/usr/bin", "/bin"}

	switch mode {
	case "fds":
		a, err := os.Open(os.DevNull)
		if err != nil {
			fatal("open: %v", err)
		}
		b, err := os.Open(os.DevNull)
		if err != nil {
			fatal("open: %v", err)
		}
		if err := Apply(NewFDs, vars, defaultPath); err != nil {
			fatal("Apply: %v", err)
		}
		for _, fd := range []int{int(a.Fd()), int(b.Fd())} {
			if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != unix.EBADF {
				fatal("fd %d still open after rfork f", fd)
			}
		}
		for fd := 0; fd <= 2; fd++ {
			if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != nil {
				fatal("stdio fd %d closed: %v", fd, err)
			}
		}

	case "pgroup":
		if err := Apply(NewProcGroup, vars, defaultPath); err != nil {
			fatal("Apply: %v", err)
		}
		if pg := unix.Getpgrp(); pg != os.Getpid() {
			fatal("pgrp = %d, want own pid %d", pg, os.Getpid())
		}

	case "env":
		os.Setenv("PROCATTR_CANARY", "1")
		if err := Apply(NewEnv, vars, defaultPath); err != nil {
			fatal("Apply: %v", err)
		}
		if len(os.Environ()) != 0 {
			fatal("environment not empty: %v", os.Environ())
		}
		if !slices.Equal(vars.Get("path"), defaultPath) {
			fatal("path = %v, want %v", vars.Get("path"), defaultPath)
		}

	default:
		fatal("unknown helper mode %q", mode)
	}

	fmt.Println("helper: ok")
	os.Exit(0)
}

func fatal(format string, args ...any) {
	fmt.Printf("helper: "+format+"\n", args...)
	os.Exit(1)
}
