// Copyright 2024 The Zen Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builddir

import "os/exec"

// TouchClear runs "touch -c" on path: it updates the file's modification
// time if it exists, but never creates it. Used to back-date an object
// file whose underlying change was cosmetic only, so make sees it as
// newer than its sources without zen having recompiled it.
func TouchClear(path string) error {
	return exec.Command("touch", "-c", path).Run()
}
