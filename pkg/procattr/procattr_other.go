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

//go:build !linux

package procattr

import "errors"

// unshareMountNS fails explicitly where the kernel has no mount-namespace
// primitive; silently degrading would leave the caller believing it is
// isolated.
func unshareMountNS() error {
	return errors.New("mount namespace not supported on this platform")
}
