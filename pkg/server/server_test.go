package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/kernel"
	"github.com/NVIDIA/kmodep/pkg/lsmod"
)

const testVersion = "6.8.0-test"

const testDeps = `kernel/fs/nfs/nfs.ko: kernel/net/sunrpc/sunrpc.ko kernel/fs/lockd/lockd.ko
kernel/net/sunrpc/sunrpc.ko:
kernel/fs/lockd/lockd.ko: kernel/net/sunrpc/sunrpc.ko
`

type fakeProvider struct {
	kernels   []*kernel.Info
	loaded    []lsmod.Module
	loadedErr error
}

func (f *fakeProvider) Kernels(_ context.Context) ([]*kernel.Info, error) {
	return f.kernels, nil
}

func (f *fakeProvider) Kernel(_ context.Context, version string) (*kernel.Info, error) {
	for _, k := range f.kernels {
		if k.Version == version {
			return k, nil
		}
	}
	return nil, errors.NewWithContext(errors.ErrCodeNotFound,
		"kernel version not found", map[string]any{"version": version})
}

func (f *fakeProvider) Loaded() ([]lsmod.Module, error) {
	return f.loaded, f.loadedErr
}

func testKernel(t *testing.T) *kernel.Info {
	t.Helper()

	root := t.TempDir()
	base := filepath.Join(root, "lib", "modules", testVersion)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "kernel"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "modules.dep"), []byte(testDeps), 0o644))

	k, err := kernel.Open(root, testVersion)
	require.NoError(t, err)
	return k
}

func testServer(t *testing.T, p Provider) *Server {
	t.Helper()
	if p == nil {
		p = &fakeProvider{}
	}
	return New(NewConfig(), p)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleKernels(t *testing.T) {
	p := &fakeProvider{kernels: []*kernel.Info{testKernel(t)}}
	rec := doRequest(t, testServer(t, p), http.MethodGet, "/v1/kernels")

	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []KernelSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, testVersion, summaries[0].Version)
	assert.Equal(t, 3, summaries[0].ModuleCount)
}

func TestHandleKernelModules(t *testing.T) {
	p := &fakeProvider{kernels: []*kernel.Info{testKernel(t)}}
	rec := doRequest(t, testServer(t, p), http.MethodGet, "/v1/kernels/"+testVersion+"/modules")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ModulesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testVersion, resp.Version)
	assert.Contains(t, resp.Modules, "kernel/fs/nfs/nfs.ko")
}

func TestHandleKernelModules_UnknownVersion(t *testing.T) {
	rec := doRequest(t, testServer(t, nil), http.MethodGet, "/v1/kernels/9.9.9/modules")

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeNotFound), resp.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestHandleKernelDeps(t *testing.T) {
	p := &fakeProvider{kernels: []*kernel.Info{testKernel(t)}}
	rec := doRequest(t, testServer(t, p), http.MethodGet,
		"/v1/kernels/"+testVersion+"/deps?module=nfs")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DepsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{
		"kernel/fs/lockd/lockd.ko",
		"kernel/net/sunrpc/sunrpc.ko",
	}, resp.Deps["kernel/fs/nfs/nfs.ko"])
	assert.Empty(t, resp.Merged)
}

func TestHandleKernelDeps_Merged(t *testing.T) {
	p := &fakeProvider{kernels: []*kernel.Info{testKernel(t)}}
	rec := doRequest(t, testServer(t, p), http.MethodGet,
		"/v1/kernels/"+testVersion+"/deps?module=nfs&merge=true")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DepsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{
		"kernel/fs/lockd/lockd.ko",
		"kernel/fs/nfs/nfs.ko",
		"kernel/net/sunrpc/sunrpc.ko",
	}, resp.Merged)
	assert.Empty(t, resp.Deps)
}

func TestHandleKernelDeps_MissingModuleParam(t *testing.T) {
	p := &fakeProvider{kernels: []*kernel.Info{testKernel(t)}}
	rec := doRequest(t, testServer(t, p), http.MethodGet,
		"/v1/kernels/"+testVersion+"/deps")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeInvalidRequest), resp.Code)
}

func TestHandleLoaded(t *testing.T) {
	p := &fakeProvider{loaded: []lsmod.Module{
		{Name: "sunrpc", RefCount: 2, UsedBy: []string{"nfsd", "lockd"}},
	}}
	rec := doRequest(t, testServer(t, p), http.MethodGet, "/v1/loaded")

	require.Equal(t, http.StatusOK, rec.Code)

	var mods []lsmod.Module
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mods))
	require.Len(t, mods, 1)
	assert.Equal(t, "sunrpc", mods[0].Name)
}

func TestHandleLoaded_ReadFailure(t *testing.T) {
	p := &fakeProvider{
		loadedErr: errors.New(errors.ErrCodeLiveTableUnreadable, "cannot read live table"),
	}
	rec := doRequest(t, testServer(t, p), http.MethodGet, "/v1/loaded")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(t, testServer(t, nil), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestHandleReady(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = doRequest(t, s, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleDefault(t *testing.T) {
	rec := doRequest(t, testServer(t, nil), http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Name   string   `json:"name"`
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "kmodepd", resp.Name)
	assert.NotEmpty(t, resp.Routes)
}

func TestHandleDefault_UnknownRoute(t *testing.T) {
	rec := doRequest(t, testServer(t, nil), http.MethodGet, "/no-such-route")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/v1/loaded")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	// Malformed IDs are replaced
	req := httptest.NewRequest(http.MethodGet, "/v1/loaded", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid")
	rec2 := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec2, req)
	assert.NotEqual(t, "not-a-uuid", rec2.Header().Get("X-Request-Id"))
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s := New(cfg, &fakeProvider{})

	first := doRequest(t, s, http.MethodGet, "/v1/loaded")
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, s, http.MethodGet, "/v1/loaded")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")

	cfg := NewConfig()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "5s", cfg.ShutdownTimeout.String())
}

func TestHTTPStatusFor(t *testing.T) {
	tests := []struct {
		code   errors.ErrorCode
		status int
	}{
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeUnknownModule, http.StatusNotFound},
		{errors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{errors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{errors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{errors.ErrCodeLiveTableUnreadable, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, httpStatusFor(tt.code), string(tt.code))
	}
}
