/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package version

import "testing"

func TestStringNonEmpty(t *testing.T) {
	if String() == "" {
		t.Fatalf("version string is empty")
	}
}

func TestStringTracksVersionVar(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "9.9.9-test"
	if got := String(); got != "9.9.9-test" {
		t.Fatalf("String() = %q, want override", got)
	}
}
