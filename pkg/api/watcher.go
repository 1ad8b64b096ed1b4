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

package api

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/NVIDIA/kmodep/pkg/defaults"
	"github.com/NVIDIA/kmodep/pkg/kernel"
)

const debounceInterval = defaults.WatchDebounceInterval

// watchModules invalidates the cache when the module tree under
// <root>/lib/modules changes, e.g. on kernel package install or removal.
// It watches the modules directory and each version directory below it;
// newly created version directories are added as they appear. The function
// blocks until the context is canceled.
func watchModules(ctx context.Context, root string, cache *Cache) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	modulesDir := filepath.Join(root, kernel.ModulesDir)
	if err := watcher.Add(modulesDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(modulesDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				if err := watcher.Add(filepath.Join(modulesDir, entry.Name())); err != nil {
					slog.Warn("failed to watch kernel directory",
						"dir", entry.Name(), "error", err)
				}
			}
		}
	}

	slog.Info("watching module tree", "dir", modulesDir)

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevantChange(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, cache.Invalidate)

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("module tree watcher error", "error", err)
		}
	}
}

func isRelevantChange(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		if err := watcher.Add(path); err != nil {
			slog.Warn("failed to watch new directory", "dir", path, "error", err)
		}
	}
}
