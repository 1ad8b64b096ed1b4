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

package version

import (
	"errors"
	"sort"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{
			name:  "full kernel release",
			input: "6.8.0-57-generic",
			want:  Version{Major: 6, Minor: 8, Patch: 0, Extras: "-57-generic"},
		},
		{
			name:  "cloud kernel release",
			input: "5.15.0-1028-aws",
			want:  Version{Major: 5, Minor: 15, Patch: 0, Extras: "-1028-aws"},
		},
		{
			name:  "plain version",
			input: "6.12.9",
			want:  Version{Major: 6, Minor: 12, Patch: 9},
		},
		{
			name:  "v prefix",
			input: "v6.8.0",
			want:  Version{Major: 6, Minor: 8},
		},
		{
			name:  "two components",
			input: "6.8",
			want:  Version{Major: 6, Minor: 8},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrEmptyVersion,
		},
		{
			name:    "too many components",
			input:   "1.2.3.4",
			wantErr: ErrTooManyComponents,
		},
		{
			name:    "non numeric",
			input:   "6.x.0",
			wantErr: ErrNonNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersion_String(t *testing.T) {
	v := Version{Major: 6, Minor: 8, Patch: 0, Extras: "-57-generic"}
	if got := v.String(); got != "6.8.0-57-generic" {
		t.Errorf("String() = %q", got)
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"6.8.0", "6.8.0", 0},
		{"6.8.0", "6.9.0", -1},
		{"6.10.0", "6.9.0", 1},
		{"5.15.0", "6.1.0", -1},
		{"6.8.0-56-generic", "6.8.0-57-generic", -1},
	}

	for _, tt := range tests {
		va, err := Parse(tt.a)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.a, err)
		}
		vb, err := Parse(tt.b)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.b, err)
		}
		if got := va.Compare(vb); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLess_SortsReleases(t *testing.T) {
	releases := []string{
		"6.10.1-generic",
		"5.15.0-1028-aws",
		"6.8.0-57-generic",
		"6.8.0-56-generic",
	}

	sort.Slice(releases, func(i, j int) bool {
		return Less(releases[i], releases[j])
	})

	want := []string{
		"5.15.0-1028-aws",
		"6.8.0-56-generic",
		"6.8.0-57-generic",
		"6.10.1-generic",
	}
	for i := range want {
		if releases[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", releases, want)
		}
	}
}
