// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package kernel

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// DepsFor resolves each requested module name and computes its transitive
// dependency closure. The result maps resolved canonical keys to their
// sorted, deduplicated dependency sets.
//
// Names that do not resolve to a path-qualified key are silently dropped;
// callers needing strict validation must pre-check with Resolve.
func (k *Info) DepsFor(ctx context.Context, names []string) map[string][]string {
	modTree := make(map[string][]string, len(names))

	for _, name := range names {
		resolved := k.Resolve(ctx, name)
		if !strings.Contains(resolved, "/") {
			slog.Debug("dropping unresolvable module name",
				"module", name,
				"kernel", k.Version,
			)
			continue
		}

		modTree[resolved] = k.closure(resolved)
	}

	return modTree
}

// MergeDepsFor flattens the closures of all requested modules together with
// the requested keys themselves into one sorted, deduplicated list.
func (k *Info) MergeDepsFor(ctx context.Context, names []string) []string {
	buff := make(map[string]struct{})
	for modPath, modDeps := range k.DepsFor(ctx, names) {
		buff[modPath] = struct{}{}
		for _, dep := range modDeps {
			buff[dep] = struct{}{}
		}
	}

	merged := make([]string, 0, len(buff))
	for m := range buff {
		merged = append(merged, m)
	}
	sort.Strings(merged)

	return merged
}

// closure walks the dependency graph breadth-first from one canonical key.
// The visited set bounds the walk to O(edges) on diamond-shaped graphs and
// terminates it on cyclic ones. A dependency without its own index entry is
// treated as a leaf with no further dependencies.
func (k *Info) closure(modPath string) []string {
	visited := map[string]struct{}{modPath: {}}
	queue := append([]string(nil), k.deps[modPath]...)

	deps := make([]string, 0, len(queue))
	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]

		if _, seen := visited[dep]; seen {
			continue
		}
		visited[dep] = struct{}{}
		deps = append(deps, dep)

		queue = append(queue, k.deps[dep]...)
	}
	sort.Strings(deps)

	return deps
}
