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

package api

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/kernel"
	"github.com/NVIDIA/kmodep/pkg/lsmod"
	kver "github.com/NVIDIA/kmodep/pkg/version"
)

// Cache caches kernel snapshots by version so repeated API requests do not
// re-parse the dependency index. Kernel module trees change only on package
// install or removal; the filesystem watcher invalidates the cache when
// that happens. The live module table is never cached.
type Cache struct {
	root string
	opts []kernel.Option

	mu      sync.RWMutex
	kernels map[string]*kernel.Info
	listed  bool
}

// NewCache creates a Cache scanning the given filesystem root.
// Options are passed through to every kernel snapshot it opens.
func NewCache(root string, opts ...kernel.Option) *Cache {
	return &Cache{
		root:    root,
		opts:    opts,
		kernels: make(map[string]*kernel.Info),
	}
}

// Kernels returns all valid kernel snapshots under the root.
func (c *Cache) Kernels(ctx context.Context) ([]*kernel.Info, error) {
	c.mu.RLock()
	if c.listed {
		kernels := c.snapshotLocked()
		c.mu.RUnlock()
		return kernels, nil
	}
	c.mu.RUnlock()

	kernels, err := kernel.List(ctx, c.root, c.opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.kernels = make(map[string]*kernel.Info, len(kernels))
	for _, k := range kernels {
		c.kernels[k.Version] = k
	}
	c.listed = true
	c.mu.Unlock()

	return kernels, nil
}

// Kernel returns the snapshot for one kernel version, opening and caching
// it on first use.
func (c *Cache) Kernel(ctx context.Context, version string) (*kernel.Info, error) {
	c.mu.RLock()
	k, ok := c.kernels[version]
	c.mu.RUnlock()
	if ok {
		return k, nil
	}

	k, err := kernel.Open(c.root, version, c.opts...)
	if err != nil {
		return nil, err
	}
	if !k.IsValid() {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			"kernel version not found", map[string]any{"version": version})
	}

	c.mu.Lock()
	c.kernels[version] = k
	c.mu.Unlock()

	return k, nil
}

// Loaded returns a fresh read of the live module table.
func (c *Cache) Loaded() ([]lsmod.Module, error) {
	return lsmod.Read()
}

// Invalidate drops all cached snapshots. The next request re-reads the
// module trees from disk.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.kernels = make(map[string]*kernel.Info)
	c.listed = false
	c.mu.Unlock()

	slog.Debug("kernel cache invalidated", "root", c.root)
}

func (c *Cache) snapshotLocked() []*kernel.Info {
	kernels := make([]*kernel.Info, 0, len(c.kernels))
	for _, k := range c.kernels {
		kernels = append(kernels, k)
	}
	sort.Slice(kernels, func(i, j int) bool {
		return kver.Less(kernels[i].Version, kernels[j].Version)
	})
	return kernels
}
