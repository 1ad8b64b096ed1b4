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

package depgraph

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kmodep/pkg/kernel"
)

const testVersion = "6.8.0-test"

const testDeps = `kernel/fs/nfs/nfs.ko: kernel/net/sunrpc/sunrpc.ko kernel/fs/lockd/lockd.ko
kernel/net/sunrpc/sunrpc.ko:
kernel/fs/lockd/lockd.ko: kernel/net/sunrpc/sunrpc.ko
kernel/fs/ext4/ext4.ko: kernel/lib/crc16.ko
kernel/lib/crc16.ko:
`

func testKernel(t *testing.T) *kernel.Info {
	t.Helper()

	root := t.TempDir()
	base := filepath.Join(root, "lib", "modules", testVersion)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "kernel"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "modules.dep"), []byte(testDeps), 0o644))

	k, err := kernel.Open(root, testVersion)
	require.NoError(t, err)
	return k
}

func TestBuild(t *testing.T) {
	g, err := Build(context.TODO(), testKernel(t), []string{"nfs"})
	require.NoError(t, err)

	adjacency, err := g.AdjacencyMap()
	require.NoError(t, err)

	require.Contains(t, adjacency, "kernel/fs/nfs/nfs.ko")
	assert.Contains(t, adjacency["kernel/fs/nfs/nfs.ko"], "kernel/net/sunrpc/sunrpc.ko")
	assert.Contains(t, adjacency["kernel/fs/nfs/nfs.ko"], "kernel/fs/lockd/lockd.ko")
}

func TestBuild_MultipleRoots(t *testing.T) {
	g, err := Build(context.TODO(), testKernel(t), []string{"nfs", "ext4"})
	require.NoError(t, err)

	adjacency, err := g.AdjacencyMap()
	require.NoError(t, err)

	assert.Contains(t, adjacency, "kernel/fs/nfs/nfs.ko")
	assert.Contains(t, adjacency, "kernel/fs/ext4/ext4.ko")
	assert.Contains(t, adjacency["kernel/fs/ext4/ext4.ko"], "kernel/lib/crc16.ko")
}

func TestBuild_SharedDependencyDeduplicated(t *testing.T) {
	g, err := Build(context.TODO(), testKernel(t), []string{"nfs", "lockd"})
	require.NoError(t, err)

	order, err := g.Order()
	require.NoError(t, err)

	// nfs, lockd, sunrpc: sunrpc appears once despite two closures
	// containing it.
	assert.Equal(t, 3, order)
}

func TestBuild_NoDependencies(t *testing.T) {
	g, err := Build(context.TODO(), testKernel(t), []string{"crc16"})
	require.NoError(t, err)

	adjacency, err := g.AdjacencyMap()
	require.NoError(t, err)

	require.Contains(t, adjacency, "kernel/lib/crc16.ko")
	assert.Empty(t, adjacency["kernel/lib/crc16.ko"])
}

func TestWriteDOT(t *testing.T) {
	g, err := Build(context.TODO(), testKernel(t), []string{"ext4"})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteDOT(g, &sb))

	out := sb.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "kernel/fs/ext4/ext4.ko")
	assert.Contains(t, out, "kernel/lib/crc16.ko")
}
