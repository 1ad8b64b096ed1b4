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

package defaults

import (
	"testing"
	"time"
)

// Guard rails: shutdown must outlast write timeout so in-flight responses
// can complete, and the debounce must stay well under the lookup bound.
func TestTimeoutRelationships(t *testing.T) {
	if ServerShutdownTimeout < ServerWriteTimeout {
		t.Errorf("shutdown timeout %v shorter than write timeout %v",
			ServerShutdownTimeout, ServerWriteTimeout)
	}

	if WatchDebounceInterval >= time.Second {
		t.Errorf("debounce interval %v too coarse", WatchDebounceInterval)
	}

	if LookupTimeout <= 0 {
		t.Error("lookup timeout must be positive")
	}
}
