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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kmodep/pkg/errors"
)

const testDeps = `kernel/fs/ext4/ext4.ko: kernel/lib/crc16.ko
kernel/lib/crc16.ko:
`

// writeKernel creates a minimal valid kernel module tree under root.
func writeKernel(t *testing.T, root, version string) {
	t.Helper()

	base := filepath.Join(root, "lib", "modules", version)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "kernel"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "modules.dep"), []byte(testDeps), 0o644))
}

func TestCache_Kernels(t *testing.T) {
	root := t.TempDir()
	writeKernel(t, root, "6.8.0-a")
	writeKernel(t, root, "6.8.1-b")

	c := NewCache(root)

	kernels, err := c.Kernels(context.TODO())
	require.NoError(t, err)
	require.Len(t, kernels, 2)
	assert.Equal(t, "6.8.0-a", kernels[0].Version)
	assert.Equal(t, "6.8.1-b", kernels[1].Version)
}

func TestCache_Kernels_ServedFromCache(t *testing.T) {
	root := t.TempDir()
	writeKernel(t, root, "6.8.0-a")

	c := NewCache(root)

	_, err := c.Kernels(context.TODO())
	require.NoError(t, err)

	// A kernel added after the first listing is invisible until invalidation.
	writeKernel(t, root, "6.8.1-b")

	kernels, err := c.Kernels(context.TODO())
	require.NoError(t, err)
	assert.Len(t, kernels, 1)

	c.Invalidate()

	kernels, err = c.Kernels(context.TODO())
	require.NoError(t, err)
	assert.Len(t, kernels, 2)
}

func TestCache_Kernel(t *testing.T) {
	root := t.TempDir()
	writeKernel(t, root, "6.8.0-a")

	c := NewCache(root)

	k, err := c.Kernel(context.TODO(), "6.8.0-a")
	require.NoError(t, err)
	assert.Equal(t, "6.8.0-a", k.Version)

	// Second fetch returns the cached snapshot.
	k2, err := c.Kernel(context.TODO(), "6.8.0-a")
	require.NoError(t, err)
	assert.Same(t, k, k2)
}

func TestCache_Kernel_NotFound(t *testing.T) {
	c := NewCache(t.TempDir())

	_, err := c.Kernel(context.TODO(), "9.9.9-none")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestCache_Invalidate_DropsSnapshots(t *testing.T) {
	root := t.TempDir()
	writeKernel(t, root, "6.8.0-a")

	c := NewCache(root)

	k, err := c.Kernel(context.TODO(), "6.8.0-a")
	require.NoError(t, err)

	c.Invalidate()

	k2, err := c.Kernel(context.TODO(), "6.8.0-a")
	require.NoError(t, err)
	assert.NotSame(t, k, k2)
}
