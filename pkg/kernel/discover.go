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
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/version"
)

// listConcurrency bounds parallel descriptor parses during discovery.
const listConcurrency = 4

// List enumerates the installed kernel versions under
// <root>/lib/modules and opens a snapshot for each, in parallel. Versions
// whose module tree is invalid (no kernel/ subdirectory) are filtered out
// and never surface in the result.
//
// The result is sorted oldest kernel first.
func List(ctx context.Context, rootPath string, opts ...Option) ([]*Info, error) {
	dir := filepath.Join(normalizeRoot(rootPath), ModulesDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
			"failed to enumerate kernel module trees", err,
			map[string]any{"path": dir})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)

	var mu sync.Mutex
	kernels := make([]*Info, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		kver := entry.Name()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			k, err := Open(rootPath, kver, opts...)
			if err != nil {
				return err
			}
			if !k.IsValid() {
				return nil
			}

			mu.Lock()
			kernels = append(kernels, k)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(kernels, func(i, j int) bool {
		return version.Less(kernels[i].Version, kernels[j].Version)
	})

	return kernels, nil
}
