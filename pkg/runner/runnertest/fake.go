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

// Package runnertest provides a scriptable runner.Launcher for tests that
// exercise delegation without executing real helper programs.
package runnertest

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Result is one scripted outcome for a helper program.
type Result struct {
	Status unix.WaitStatus
	Err    error
}

// Exit builds the Result of a process that exited with the given code.
// The wait-status encoding is the Linux one, which is what the tests run
// on.
func Exit(code int) Result {
	return Result{Status: unix.WaitStatus(code << 8)}
}

// Signaled builds the Result of a process terminated by a signal.
func Signaled(sig unix.Signal) Result {
	return Result{Status: unix.WaitStatus(sig)}
}

// Fake records every launched argv and plays back results scripted per
// program name. A program with no scripted results left reports a launch
// error, as if the binary were missing.
type Fake struct {
	// Calls records every Run and Start argv in order.
	Calls [][]string
	// StartedPid is returned by Start.
	StartedPid int

	results map[string][]Result
}

// Script queues a result for the next Run of the named program.
func (f *Fake) Script(name string, r Result) {
	if f.results == nil {
		f.results = make(map[string][]Result)
	}
	f.results[name] = append(f.results[name], r)
}

// Run implements runner.Launcher.Run.
func (f *Fake) Run(argv []string) (unix.WaitStatus, error) {
	f.Calls = append(f.Calls, argv)
	name := argv[0]
	queue := f.results[name]
	if len(queue) == 0 {
		return 0, fmt.Errorf("%s: executable file not found in $PATH", name)
	}
	r := queue[0]
	f.results[name] = queue[1:]
	return r.Status, r.Err
}

// Start implements runner.Launcher.Start.
func (f *Fake) Start(argv []string, stdin, stdout, stderr *os.File) (int, error) {
	f.Calls = append(f.Calls, argv)
	if f.StartedPid == 0 {
		f.StartedPid = 4242
	}
	return f.StartedPid, nil
}
