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

// Package server implements the kmodepd HTTP API.
//
// Endpoints:
//
//	GET /v1/kernels                       - list kernel versions on the host
//	GET /v1/kernels/{version}/modules     - modules available on disk for a kernel
//	GET /v1/kernels/{version}/deps        - dependency closures (module=..., merge=true)
//	GET /v1/loaded                        - live module table
//	GET /healthz, /readyz, /metrics       - operational endpoints
//
// API routes run through a middleware chain providing request IDs, panic
// recovery, token bucket rate limiting, Prometheus RED metrics, and debug
// request logging. Data access goes through the Provider interface so the
// server stays decoupled from the cache and filesystem layers.
package server
