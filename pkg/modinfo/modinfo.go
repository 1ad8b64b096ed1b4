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

// Package modinfo invokes the external module metadata tool and captures
// its raw output for the resolver's last name-resolution tier.
package modinfo

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"github.com/NVIDIA/kmodep/pkg/defaults"
	"github.com/NVIDIA/kmodep/pkg/errors"
)

const (
	// fallbackPath is used when modinfo is not on PATH; the canonical
	// location on most distributions.
	fallbackPath = "/usr/sbin/modinfo"

	toolName = "modinfo"

	defaultTimeout = defaults.LookupTimeout
)

// Option configures a Runner.
type Option func(*Runner)

// WithPath overrides the tool executable path, skipping PATH discovery.
func WithPath(path string) Option {
	return func(r *Runner) {
		r.path = path
	}
}

// WithTimeout overrides the per-lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// Runner invokes the external metadata tool as a subprocess. Its Lookup
// method satisfies kernel.LookupFunc.
type Runner struct {
	path    string
	timeout time.Duration
}

// NewRunner creates a Runner, discovering the tool on PATH and falling
// back to the canonical sbin location.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.path == "" {
		path, err := exec.LookPath(toolName)
		if err != nil {
			path = fallbackPath
		}
		r.path = path
	}

	return r
}

// Lookup runs `<tool> <name>` and returns its standard output. The call is
// bounded by the configured timeout on top of any caller deadline.
func (r *Runner) Lookup(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.path, name)
	output, err := cmd.Output()
	if err != nil {
		code := errors.ErrCodeExternalLookupFailed
		if ctx.Err() == context.DeadlineExceeded {
			code = errors.ErrCodeTimeout
		}
		return "", errors.WrapWithContext(code,
			"external module lookup failed", err,
			map[string]any{
				"tool":   r.path,
				"module": name,
			})
	}

	slog.Debug("external module lookup",
		slog.String("tool", r.path),
		slog.String("module", name),
		slog.Int("bytes", len(output)),
	)

	return string(output), nil
}
