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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestKernel(t *testing.T, depContent string, opts ...Option) *Info {
	t.Helper()

	root := t.TempDir()
	writeKernelTree(t, root, "6.8.0", depContent)

	k, err := Open(root, "6.8.0", opts...)
	require.NoError(t, err)
	require.True(t, k.IsValid())
	return k
}

func TestResolve_SuffixMatching(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare name",
			input: "sunrpc",
			want:  "kernel/net/sunrpc/sunrpc.ko",
		},
		{
			name:  "name with extension",
			input: "sunrpc.ko",
			want:  "kernel/net/sunrpc/sunrpc.ko",
		},
		{
			name:  "partial path",
			input: "sunrpc/sunrpc.ko",
			want:  "kernel/net/sunrpc/sunrpc.ko",
		},
		{
			name:  "canonical key is idempotent",
			input: "kernel/net/sunrpc/sunrpc.ko",
			want:  "kernel/net/sunrpc/sunrpc.ko",
		},
		{
			name: "bare name does not match longer suffix",
			// "rpc" must not resolve to sunrpc.ko via substring match.
			input: "rpc",
			want:  "rpc",
		},
		{
			name:  "unknown name returned unchanged",
			input: "bogus",
			want:  "bogus",
		},
	}

	k := openTestKernel(t, testDeps)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, k.Resolve(context.TODO(), tt.input))
		})
	}
}

func TestResolve_UnderscoreDashFallback(t *testing.T) {
	k := openTestKernel(t, "kernel/net/sunrpc/sun-rpc.ko:\n")

	// No exact underscore match exists, so the dash-substituted suffix
	// match must win.
	got := k.Resolve(context.TODO(), "sun_rpc")
	assert.Equal(t, "kernel/net/sunrpc/sun-rpc.ko", got)
}

func TestResolve_CompressedExtension(t *testing.T) {
	k := openTestKernel(t, "kernel/a/b.ko.zst: \nkernel/c/d.ko.zst:\n")

	assert.Equal(t, "kernel/a/b.ko.zst", k.Resolve(context.TODO(), "b"))
	assert.Equal(t, "kernel/c/d.ko.zst", k.Resolve(context.TODO(), "d.ko.zst"))
}

func TestResolve_ExternalLookup(t *testing.T) {
	lookupOut := "filename:  /lib/modules/6.8.0/kernel/net/sunrpc/sunrpc.ko\nlicense: GPL\n"

	tests := []struct {
		name   string
		lookup LookupFunc
		input  string
		want   string
	}{
		{
			name: "resolves via filename field",
			lookup: func(ctx context.Context, name string) (string, error) {
				return lookupOut, nil
			},
			input: "rpc_is_named_weirdly",
			want:  "kernel/net/sunrpc/sunrpc.ko",
		},
		{
			name: "candidate must be indexed",
			lookup: func(ctx context.Context, name string) (string, error) {
				return "filename: /lib/modules/6.8.0/kernel/not/indexed.ko\n", nil
			},
			input: "rpc_is_named_weirdly",
			want:  "rpc_is_named_weirdly",
		},
		{
			name: "lookup error degrades to unresolved",
			lookup: func(ctx context.Context, name string) (string, error) {
				return "", fmt.Errorf("exec: modinfo: not found")
			},
			input: "rpc_is_named_weirdly",
			want:  "rpc_is_named_weirdly",
		},
		{
			name: "output without kernel segment ignored",
			lookup: func(ctx context.Context, name string) (string, error) {
				return "filename: /opt/drivers/custom.ko\n", nil
			},
			input: "rpc_is_named_weirdly",
			want:  "rpc_is_named_weirdly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := openTestKernel(t, testDeps, WithLookup(tt.lookup))
			assert.Equal(t, tt.want, k.Resolve(context.TODO(), tt.input))
		})
	}
}

func TestResolve_ExternalLookupGetsOriginalName(t *testing.T) {
	var seen string
	lookup := func(ctx context.Context, name string) (string, error) {
		seen = name
		return "", nil
	}

	k := openTestKernel(t, testDeps, WithLookup(lookup))
	k.Resolve(context.TODO(), "weird_name")

	// The external tool receives the original, unmodified name, not the
	// extension-appended or dash-substituted variants.
	assert.Equal(t, "weird_name", seen)
}

func TestResolve_InvalidKernel(t *testing.T) {
	root := t.TempDir()
	k, err := Open(root, "0.0.0-none")
	require.NoError(t, err)
	require.False(t, k.IsValid())

	assert.Equal(t, "sunrpc", k.Resolve(context.TODO(), "sunrpc"))
}
