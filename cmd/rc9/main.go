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

// Binary rc9 runs the namespace builtins standalone, outside a host shell.
// Note that bind-table state is per process, so state-changing builtins are
// mostly useful here for trying out mounts, services and remote execution.
package main

import (
	"os"

	"rc9.dev/rc9/cli"
)

func main() {
	os.Exit(cli.Main())
}
