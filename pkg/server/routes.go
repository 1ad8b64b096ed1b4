package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/kernel"
	"github.com/NVIDIA/kmodep/pkg/lsmod"
	"github.com/NVIDIA/kmodep/pkg/serializer"
)

// Provider supplies kernel and live module data to the HTTP handlers.
type Provider interface {
	// Kernels returns all valid kernel snapshots on the host.
	Kernels(ctx context.Context) ([]*kernel.Info, error)
	// Kernel returns the snapshot for one kernel version.
	Kernel(ctx context.Context, version string) (*kernel.Info, error)
	// Loaded returns the live module table.
	Loaded() ([]lsmod.Module, error)
}

// KernelSummary describes one kernel version in list responses.
type KernelSummary struct {
	Version     string `json:"version"`
	Path        string `json:"path"`
	ModuleCount int    `json:"moduleCount"`
}

// ModulesResponse lists the modules available on disk for a kernel.
type ModulesResponse struct {
	Version string   `json:"version"`
	Modules []string `json:"modules"`
}

// DepsResponse holds a dependency closure report for one kernel.
type DepsResponse struct {
	Version string              `json:"version"`
	Deps    map[string][]string `json:"deps,omitempty"`
	Merged  []string            `json:"merged,omitempty"`
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Default handler
	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	// API endpoints with middleware
	mux.HandleFunc("GET /v1/kernels", s.withMiddleware(s.handleKernels))
	mux.HandleFunc("GET /v1/kernels/{version}/modules", s.withMiddleware(s.handleKernelModules))
	mux.HandleFunc("GET /v1/kernels/{version}/deps", s.withMiddleware(s.handleKernelDeps))
	mux.HandleFunc("GET /v1/loaded", s.withMiddleware(s.handleLoaded))

	return mux
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "route not found", false, nil)
		return
	}

	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes: []string{
			"GET /v1/kernels",
			"GET /v1/kernels/{version}/modules",
			"GET /v1/kernels/{version}/deps",
			"GET /v1/loaded",
			"GET /healthz",
			"GET /readyz",
			"GET /metrics",
		},
	}

	s.mu.RLock()
	resp.Ready = s.ready
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleKernels handles GET /v1/kernels
func (s *Server) handleKernels(w http.ResponseWriter, r *http.Request) {
	kernels, err := s.provider.Kernels(r.Context())
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}

	summaries := make([]KernelSummary, 0, len(kernels))
	for _, k := range kernels {
		summaries = append(summaries, KernelSummary{
			Version:     k.Version,
			Path:        k.Path(),
			ModuleCount: k.ModuleCount(),
		})
	}

	serializer.RespondJSON(w, http.StatusOK, summaries)
}

// handleKernelModules handles GET /v1/kernels/{version}/modules
func (s *Server) handleKernelModules(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kernelFor(w, r)
	if !ok {
		return
	}

	serializer.RespondJSON(w, http.StatusOK, ModulesResponse{
		Version: k.Version,
		Modules: k.DiskModules(),
	})
}

// handleKernelDeps handles GET /v1/kernels/{version}/deps.
// Modules are selected with repeated module query parameters; merge=true
// flattens the closures into one sorted list.
func (s *Server) handleKernelDeps(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kernelFor(w, r)
	if !ok {
		return
	}

	modules := r.URL.Query()["module"]
	if len(modules) == 0 {
		WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"at least one module query parameter is required", false, nil)
		return
	}

	resp := DepsResponse{Version: k.Version}
	if r.URL.Query().Get("merge") == "true" {
		resp.Merged = k.MergeDepsFor(r.Context(), modules)
	} else {
		resp.Deps = k.DepsFor(r.Context(), modules)
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleLoaded handles GET /v1/loaded
func (s *Server) handleLoaded(w http.ResponseWriter, r *http.Request) {
	mods, err := s.provider.Loaded()
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, mods)
}

func (s *Server) kernelFor(w http.ResponseWriter, r *http.Request) (*kernel.Info, bool) {
	version := r.PathValue("version")
	if version == "" {
		WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"kernel version is required", false, nil)
		return nil, false
	}

	k, err := s.provider.Kernel(r.Context(), version)
	if err != nil {
		writeErrorFrom(w, r, err)
		return nil, false
	}
	return k, true
}
