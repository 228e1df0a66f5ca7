// Copyright 2025 lablink LLC
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

package task

import "strings"

// 🛤️ BuildPath derives the relative destination path from the hierarchy
// fields {project, experiment, run, analysis}, joined with "/" in that fixed
// order. Empty fields are omitted entirely; no placeholder is inserted. The
// record's Destination name is appended later by the executor, not here.
func BuildPath(rec Record) string {
	parts := make([]string, 0, 4)
	for _, field := range []string{rec.Project, rec.Experiment, rec.Run, rec.Analysis} {
		if field != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, "/")
}
