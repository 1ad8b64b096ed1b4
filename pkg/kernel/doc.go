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

// Package kernel resolves kernel-module dependency graphs for installed
// kernel versions.
//
// An Info is an immutable snapshot of one kernel's modules.dep descriptor.
// It answers three questions:
//
//   - which canonical module does a loose name refer to (Resolve)
//   - which modules must be present before loading a given set (DepsFor,
//     MergeDepsFor)
//   - what is on the media at all (DiskModules, IsDependency)
//
// Discovery of installed kernels is handled by List, which filters out the
// stale version directories left behind by incomplete kernel removal.
//
// The last resolution tier shells out to an external metadata tool
// (modinfo); it is injected as a LookupFunc so the resolution logic is
// testable without spawning processes. See the modinfo package for the
// production implementation.
package kernel
