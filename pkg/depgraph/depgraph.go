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

// Package depgraph renders module dependency closures as a directed graph
// suitable for Graphviz visualization.
package depgraph

import (
	"context"
	"io"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/NVIDIA/kmodep/pkg/kernel"
)

// Build resolves the given module names against the kernel snapshot and
// returns a directed graph whose vertices are resolved module paths and
// whose edges point from each module to its full dependency closure.
// Cycles in the underlying index are preserved as-is.
func Build(ctx context.Context, k *kernel.Info, modules []string) (graphlib.Graph[string, string], error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for modPath, closure := range k.DepsFor(ctx, modules) {
		if err := addVertex(g, modPath); err != nil {
			return nil, err
		}
		for _, dep := range closure {
			if err := addVertex(g, dep); err != nil {
				return nil, err
			}
			if err := addEdge(g, modPath, dep); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// WriteDOT renders the graph in Graphviz DOT format.
func WriteDOT(g graphlib.Graph[string, string], w io.Writer) error {
	return draw.DOT(g, w)
}

func addVertex(g graphlib.Graph[string, string], v string) error {
	err := g.AddVertex(v)
	if err != nil && err != graphlib.ErrVertexAlreadyExists {
		return err
	}
	return nil
}

func addEdge(g graphlib.Graph[string, string], from, to string) error {
	err := g.AddEdge(from, to)
	if err != nil && err != graphlib.ErrEdgeAlreadyExists {
		return err
	}
	return nil
}
