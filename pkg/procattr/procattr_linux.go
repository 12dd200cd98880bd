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

	"github.com/moby/sys/capability"
	"golang.org/x/sys/unix"
)

// unshareMountNS detaches the process into a new mount namespace.
func unshareMountNS() error {
	if err := unix.Unshare(unix.CLONE_NEWNS); err != nil {
		if err == unix.EPERM && !hasSysAdmin() {
			return fmt.Errorf("unshare(CLONE_NEWNS): %v (missing CAP_SYS_ADMIN)", err)
		}
		return fmt.Errorf("unshare(CLONE_NEWNS): %v", err)
	}
	return nil
}

func hasSysAdmin() bool {
	caps, err := capability.NewPid2(0)
	if err != nil {
		return true // can't tell; don't embellish the error
	}
	if err := caps.Load(); err != nil {
		return true
	}
	return caps.Get(capability.EFFECTIVE, capability.CAP_SYS_ADMIN)
}
