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

package lsmod

import (
	"strconv"
	"strings"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/file"
)

var (
	filePathModules = "/proc/modules"
)

const fieldCount = 6

// Module is one record of the live module table: a currently loaded kernel
// module with its memory footprint and active dependents.
//
// UsedBy lists the modules currently depending on this one as reported by
// the kernel. Note the direction: these are live dependents, not the
// on-disk dependency edges of the descriptor.
type Module struct {
	Name     string   `json:"name" yaml:"name"`
	MemSize  uint64   `json:"memSize" yaml:"memSize"`
	RefCount int      `json:"refCount" yaml:"refCount"`
	UsedBy   []string `json:"usedBy" yaml:"usedBy"`

	// MemOffset is only populated with elevated privilege; the kernel
	// reports 0x0 otherwise.
	MemOffset uint64 `json:"memOffset" yaml:"memOffset"`
}

// Read parses the live module table into structured records, in table
// order. A fresh snapshot is taken on every call.
//
// The table is assumed well-formed by the host kernel: any line that does
// not match the six-field format fails the whole read, since a mismatch
// indicates an unsupported format version and no partial result is usable.
func Read() ([]Module, error) {
	lines, err := file.NewParser().GetLines(filePathModules)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeLiveTableUnreadable,
			"failed to read live module table", err,
			map[string]any{"path": filePathModules})
	}

	mods := make([]Module, 0, len(lines))
	for _, line := range lines {
		m, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}

	return mods, nil
}

// parseLine parses one record: name, resident size, reference count,
// comma-terminated dependents (or "-"), an unused field, and a hex memory
// offset prefixed 0x.
func parseLine(line string) (Module, error) {
	fields := strings.Fields(line)
	if len(fields) != fieldCount {
		return Module{}, malformed(line, "expected 6 fields, got "+strconv.Itoa(len(fields)))
	}

	memSize, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Module{}, malformed(line, "invalid memory size")
	}

	refCount, err := strconv.Atoi(fields[2])
	if err != nil || refCount < 0 {
		return Module{}, malformed(line, "invalid reference count")
	}

	usedBy, err := parseUsedBy(fields[3])
	if err != nil {
		return Module{}, malformed(line, "invalid dependents list")
	}

	offsetHex, found := strings.CutPrefix(fields[5], "0x")
	if !found {
		return Module{}, malformed(line, "memory offset missing 0x prefix")
	}
	memOffset, err := strconv.ParseUint(offsetHex, 16, 64)
	if err != nil {
		return Module{}, malformed(line, "invalid memory offset")
	}

	return Module{
		Name:      fields[0],
		MemSize:   memSize,
		RefCount:  refCount,
		UsedBy:    usedBy,
		MemOffset: memOffset,
	}, nil
}

// parseUsedBy parses the dependents field: "-" for none, otherwise a
// comma-terminated list like "nfsd,lockd,".
func parseUsedBy(field string) ([]string, error) {
	if field == "-" {
		return []string{}, nil
	}

	trimmed, found := strings.CutSuffix(field, ",")
	if !found {
		return nil, errors.New(errors.ErrCodeLiveTableMalformed, "dependents list not comma-terminated")
	}

	return strings.Split(trimmed, ","), nil
}

func malformed(line, reason string) error {
	return errors.NewWithContext(errors.ErrCodeLiveTableMalformed,
		"malformed live module table line: "+reason,
		map[string]any{"line": line})
}

// Names extracts just the module names from a set of records, preserving
// table order.
func Names(mods []Module) []string {
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name)
	}
	return names
}
