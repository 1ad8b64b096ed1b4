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

// Package defaults provides centralized configuration constants for kmodep.
//
// Timeout values, rate limits, and other tuning defaults used across the
// codebase live here so every component agrees on them.
package defaults

import "time"

// External tool timeouts.
const (
	// LookupTimeout bounds one external module metadata lookup. An
	// unresponsive tool must not hang name resolution.
	LookupTimeout = 5 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Filesystem watcher tuning.
const (
	// WatchDebounceInterval coalesces bursts of filesystem events, such as
	// a package manager unpacking a kernel, into one cache invalidation.
	WatchDebounceInterval = 300 * time.Millisecond
)
