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

// Package header provides the common envelope for kmodep output documents.
//
// The Header type wraps every serialized report (kernel lists, module
// lists, dependency reports) with Kubernetes-style Kind, APIVersion, and
// Metadata fields so consumers can check the schema before parsing:
//
//	if report.Header.APIVersion != "v1" {
//	    return fmt.Errorf("unsupported API version: %s", report.Header.APIVersion)
//	}
//
// Timestamps in Metadata use RFC3339 format.
package header
