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
	"strings"
)

// Resolve maps a loosely-specified module identifier (bare name,
// underscore/dash variant, or partial path) to the canonical key used in
// the dependency index. Example: "sunrpc" resolves to
// "kernel/net/sunrpc/sunrpc.ko".
//
// Tiers, first match wins:
//
//  1. exact index membership after appending the module extension
//  2. suffix scan of index keys, anchored at a path boundary
//  3. the same scan with every underscore replaced by a dash (module
//     names are inconsistently spelled across subsystems; best effort
//     only, mixed-delimiter names can match neither variant)
//  4. external metadata lookup with the original, unmodified name
//
// Resolve never fails: when every tier misses (or the external lookup
// errors), the input is returned unchanged. Callers detect resolution
// failure by checking whether the result contains a path separator.
func (k *Info) Resolve(ctx context.Context, name string) string {
	if !k.valid || name == "" {
		return name
	}

	mName := name
	if !strings.HasSuffix(mName, k.ext) {
		mName += k.ext
	}

	if _, ok := k.deps[mName]; ok {
		return mName
	}

	if !strings.HasPrefix(mName, kernelDirName+"/") {
		if !strings.Contains(mName, "/") {
			// Anchor the suffix match to a path boundary so "rpc.ko"
			// cannot match "sunrpc.ko".
			mName = "/" + mName
		}

		altName := strings.ReplaceAll(mName, "_", "-")
		for modPath := range k.deps {
			if strings.HasSuffix(modPath, mName) || strings.HasSuffix(modPath, altName) {
				return modPath
			}
		}
	}

	if k.lookup == nil {
		return name
	}

	out, err := k.lookup(ctx, name)
	if err != nil {
		// Degrade to resolution failure; a broken or missing lookup
		// tool must not abort the whole resolution.
		slog.Warn("external module lookup failed",
			"module", name,
			"kernel", k.Version,
			"error", err,
		)
		return name
	}

	if modPath, ok := k.matchLookupOutput(out); ok {
		return modPath
	}

	return name
}

// matchLookupOutput scans external lookup output for a "filename:" field
// whose value contains a /kernel/ path segment, rebuilds the candidate key
// as kernel/<suffix>, and accepts it only if that exact key is indexed.
func (k *Info) matchLookupOutput(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.ReplaceAll(line, " ", "")
		if !strings.HasPrefix(line, "filename:/") {
			continue
		}

		_, suffix, found := strings.Cut(line, "/"+kernelDirName+"/")
		if !found {
			continue
		}

		candidate := kernelDirName + "/" + suffix
		if _, ok := k.deps[candidate]; ok {
			return candidate, true
		}
	}

	return "", false
}
