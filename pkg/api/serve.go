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
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/kmodep/pkg/kernel"
	"github.com/NVIDIA/kmodep/pkg/logging"
	"github.com/NVIDIA/kmodep/pkg/modinfo"
	"github.com/NVIDIA/kmodep/pkg/server"
)

const (
	name           = "kmodepd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/kmodep/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the kmodep daemon and blocks until shutdown.
// It configures logging, builds the kernel cache with its filesystem
// watcher, and handles graceful shutdown on SIGINT and SIGTERM.
func Serve(root string) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"root", root,
	)

	cache := NewCache(root, kernel.WithLookup(modinfo.NewRunner().Lookup))

	cfg := server.NewConfig()
	cfg.Name = name
	cfg.Version = version
	srv := server.New(cfg, cache)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(gctx)
	})

	g.Go(func() error {
		if err := watchModules(gctx, root, cache); err != nil {
			// A missing watch target degrades cache freshness, not service.
			slog.Warn("module tree watcher unavailable", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
