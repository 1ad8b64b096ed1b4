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

// Package logging provides structured logging utilities shared by the CLI
// and the API daemon.
//
// It wraps the standard library slog package with project defaults:
// JSON output to stderr, environment-based level configuration (LOG_LEVEL),
// module/version context on every record, and source location tracking at
// debug level.
//
// When the process runs under systemd supervision (JOURNAL_STREAM set and
// the journald socket reachable), records are additionally forwarded to the
// journal with mapped syslog priorities.
//
// Usage:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("kmodep", version)
//	    slog.Info("resolving modules", "kernel", kver)
//	}
package logging
