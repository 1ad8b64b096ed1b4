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

// Package modtree answers "what is the full dependency set" for either an
// explicit module list or the modules currently loaded by the kernel.
package modtree

import (
	"context"

	"github.com/NVIDIA/kmodep/pkg/kernel"
	"github.com/NVIDIA/kmodep/pkg/lsmod"
)

// ReadLiveFunc reads the live module table. Injectable for testing;
// defaults to lsmod.Read.
type ReadLiveFunc func() ([]lsmod.Module, error)

// Option configures a Service.
type Option func(*Service)

// WithLiveReader overrides the live module table reader.
func WithLiveReader(fn ReadLiveFunc) Option {
	return func(s *Service) {
		s.readLive = fn
	}
}

// Service composes a kernel snapshot with the live module table.
type Service struct {
	kernel   *kernel.Info
	readLive ReadLiveFunc
}

// New creates a Service for the given kernel snapshot.
func New(k *kernel.Info, opts ...Option) *Service {
	s := &Service{
		kernel:   k,
		readLive: lsmod.Read,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kernel returns the underlying kernel snapshot.
func (s *Service) Kernel() *kernel.Info {
	return s.kernel
}

// LoadedModuleNames returns the names of the currently loaded modules, in
// live table order.
func (s *Service) LoadedModuleNames() ([]string, error) {
	mods, err := s.readLive()
	if err != nil {
		return nil, err
	}
	return lsmod.Names(mods), nil
}

// DepsFor computes the dependency closure for the given modules. An empty
// list substitutes the currently loaded modules.
func (s *Service) DepsFor(ctx context.Context, modules []string) (map[string][]string, error) {
	if len(modules) == 0 {
		loaded, err := s.LoadedModuleNames()
		if err != nil {
			return nil, err
		}
		modules = loaded
	}

	return s.kernel.DepsFor(ctx, modules), nil
}

// MergeDepsFor flattens the closures of the given modules (or of the
// currently loaded ones when the list is empty) together with the resolved
// module keys themselves into one sorted, deduplicated list.
func (s *Service) MergeDepsFor(ctx context.Context, modules []string) ([]string, error) {
	if len(modules) == 0 {
		loaded, err := s.LoadedModuleNames()
		if err != nil {
			return nil, err
		}
		modules = loaded
	}

	return s.kernel.MergeDepsFor(ctx, modules), nil
}
