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
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/file"
)

const (
	// ModulesDir is the directory under the root filesystem holding one
	// module tree per installed kernel version.
	ModulesDir = "lib/modules"

	depFileName   = "modules.dep"
	kernelDirName = "kernel"

	// defaultExtension is assumed until the descriptor reveals the real
	// one (.ko, .ko.xz, .ko.zst depending on how modules were packaged).
	defaultExtension = ".ko"
)

// LookupFunc queries external module metadata (modinfo) by module name and
// returns its raw text output. It is the injectable last resolution tier;
// see Info.Resolve.
type LookupFunc func(ctx context.Context, name string) (string, error)

// Option configures an Info during Open.
type Option func(*Info)

// WithLookup sets the external metadata lookup used as the last name
// resolution tier. Without it, resolution stops after the suffix scans.
func WithLookup(fn LookupFunc) Option {
	return func(k *Info) {
		k.lookup = fn
	}
}

// Info is an immutable snapshot of one kernel's on-disk module tree: the
// parsed dependency descriptor, the inferred module file extension, and a
// reverse index of module names that appear as someone's dependency.
//
// An Info is built once by Open and never mutated, so it is safe to read
// concurrently. It does not observe later changes to the descriptor file.
type Info struct {
	// Version is the kernel version this snapshot describes.
	Version string

	path    string
	depPath string
	ext     string
	valid   bool
	lookup  LookupFunc

	// deps maps canonical module paths (kernel/net/sunrpc/sunrpc.ko) to
	// their ordered direct dependencies. An empty list means "no
	// dependencies", not "unknown module".
	deps map[string][]string

	// dependents holds short base names of every module that appears in
	// some other module's dependency list.
	dependents map[string]struct{}
}

// Open builds the module snapshot for one kernel version under the given
// root filesystem path ("" or "/" for the host).
//
// A version directory without a kernel/ subdirectory yields a non-nil Info
// with IsValid() == false and no error: stale version directories are
// common after incomplete kernel removal and callers filter on validity.
// A valid directory with an unreadable or unparseable descriptor is a hard
// failure, since that indicates a broken installation.
func Open(rootPath, version string, opts ...Option) (*Info, error) {
	k := &Info{
		Version:    version,
		path:       filepath.Join(normalizeRoot(rootPath), ModulesDir, version),
		deps:       make(map[string][]string),
		dependents: make(map[string]struct{}),
		ext:        defaultExtension,
	}
	k.depPath = filepath.Join(k.path, depFileName)

	for _, opt := range opts {
		opt(k)
	}

	fi, err := os.Stat(filepath.Join(k.path, kernelDirName))
	if err != nil || !fi.IsDir() {
		return k, nil
	}
	k.valid = true

	if err := k.loadDeps(); err != nil {
		return nil, err
	}

	return k, nil
}

// normalizeRoot maps "", "/" and surrounding whitespace to the host root.
func normalizeRoot(rootPath string) string {
	rootPath = strings.TrimRight(strings.TrimSpace(rootPath), "/")
	if rootPath == "" {
		return "/"
	}
	return rootPath
}

// loadDeps parses modules.dep into the dependency and reverse indexes.
// Each record is "<module-path>: <space-separated dependency paths>";
// lines without a separator are skipped.
func (k *Info) loadDeps() error {
	lines, err := file.NewParser().GetLines(k.depPath)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeDescriptorUnreadable,
			"failed to read module dependency descriptor", err,
			map[string]any{
				"kernel": k.Version,
				"path":   k.depPath,
			})
	}

	extSet := false
	for _, line := range lines {
		modPath, modDeps, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		modPath = strings.TrimSpace(modPath)
		if modPath == "" {
			continue
		}

		if !extSet {
			if idx := strings.Index(modPath, defaultExtension); idx >= 0 {
				// Frozen for the whole context; the extension is
				// uniform across all modules of one kernel.
				k.ext = modPath[idx:]
				extSet = true
			}
		}

		depList := strings.Fields(modDeps)
		k.deps[modPath] = depList

		for _, dep := range depList {
			k.dependents[baseName(dep)] = struct{}{}
		}
	}

	return nil
}

// baseName reduces a module path to its short name: base filename with
// everything after (and including) the first dot stripped.
func baseName(modPath string) string {
	base := path.Base(modPath)
	if idx := strings.Index(base, "."); idx >= 0 {
		return base[:idx]
	}
	return base
}

// IsValid reports whether there are actual modules on the media for this
// kernel. No dependency data is trusted unless this returns true.
func (k *Info) IsValid() bool {
	return k.valid
}

// Path returns the kernel's module tree root (<root>/lib/modules/<version>).
func (k *Info) Path() string {
	return k.path
}

// DepPath returns the path of the dependency descriptor file.
func (k *Info) DepPath() string {
	return k.depPath
}

// Extension returns the module file extension inferred from the descriptor
// (e.g. ".ko", ".ko.xz", ".ko.zst").
func (k *Info) Extension() string {
	return k.ext
}

// ModuleCount returns the number of modules indexed by the descriptor.
func (k *Info) ModuleCount() int {
	return len(k.deps)
}

// IsDependency reports whether the short module name appears in some other
// module's dependency list.
func (k *Info) IsDependency(name string) bool {
	_, ok := k.dependents[name]
	return ok
}

// DiskModules returns every module known to the descriptor, sorted:
// the union of all index keys and all listed dependencies.
func (k *Info) DiskModules() []string {
	buff := make(map[string]struct{}, len(k.deps))
	for modPath, modDeps := range k.deps {
		buff[modPath] = struct{}{}
		for _, dep := range modDeps {
			buff[dep] = struct{}{}
		}
	}

	mods := make([]string, 0, len(buff))
	for m := range buff {
		mods = append(mods, m)
	}
	sort.Strings(mods)

	return mods
}
