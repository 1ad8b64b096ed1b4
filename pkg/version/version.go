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

// Package version parses kernel release strings for ordering purposes.
//
// Kernel releases follow "<major>.<minor>.<patch><extras>", where extras
// carry distribution metadata like "-57-generic" or "-1028-aws". Extras are
// preserved verbatim and compared lexically as a tie breaker.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Version represents a parsed kernel release with Major, Minor, and Patch
// components plus preserved distribution metadata such as "-57-generic".
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`

	// Extras stores additional release metadata like "-1028-aws"
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// String returns the canonical string representation, extras included.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Extras)
}

// Parse parses a kernel release string into a Version.
// Supported formats: "6", "6.8", "6.8.0", "6.8.0-57-generic", "v6.8.0".
// Anything after the first '-' or '+' is preserved in Extras.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	s = strings.TrimPrefix(s, "v")

	var v Version
	numeric := s
	if idx := strings.IndexAny(s, "-+"); idx >= 0 {
		numeric = s[:idx]
		v.Extras = s[idx:]
	}

	parts := strings.Split(numeric, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrTooManyComponents, s)
	}

	targets := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		*targets[i] = n
	}

	return v, nil
}

// Compare returns -1, 0, or 1 when v is older than, equal to, or newer
// than other. Numeric components are compared first; equal releases fall
// back to a lexical comparison of extras.
func (v Version) Compare(other Version) int {
	pairs := [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] < p[1] {
				return -1
			}
			return 1
		}
	}

	return strings.Compare(v.Extras, other.Extras)
}

// Less orders two raw release strings, parsing both and falling back to a
// plain string comparison when either does not parse.
func Less(a, b string) bool {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return va.Compare(vb) < 0
}
