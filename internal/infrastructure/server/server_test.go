package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/desktop"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct{}

func (fakeLauncher) Launch(_ context.Context, app types.Application) (types.Handle, error) {
	return types.Handle{PID: 100 + len(app.Name)}, nil
}

func newTestServer(t *testing.T, overrides ...func(*config.Config)) (*Server, *httptest.Server, *desktop.PlacementRecorder) {
	t.Helper()

	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.Project.Dir = t.TempDir()
	cfg.Launch.Timeout = 5 * time.Second
	cfg.Launch.Rate = 0
	cfg.Launch.PollInterval = time.Millisecond
	for _, override := range overrides {
		override(cfg)
	}

	mover := desktop.NewPlacementRecorder(nil)
	srv, err := NewServer(cfg, nil,
		WithLauncher(fakeLauncher{}),
		WithWindowMover(mover),
		WithRegistry(prometheus.NewRegistry()),
	)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Sessions().Shutdown(ctx)
		srv.hub.Close()
	})
	return srv, ts, mover
}

func writeProject(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dev.yaml")
	content := `id: dev
name: Dev
apps:
  - name: Editor
    path: /usr/bin/editor
    position: {x: 0, y: 0, width: 800, height: 600}
  - name: Terminal
    path: /usr/bin/terminal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewServerRequiresConfig(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimitModes(t *testing.T) {
	tests := []struct {
		name       string
		global     bool
		wantSecond int
	}{
		{"per client", false, http.StatusOK},
		{"global", true, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts, _ := newTestServer(t, func(cfg *config.Config) {
				cfg.RateLimit.RequestsPerSecond = 1
				cfg.RateLimit.Burst = 1
				cfg.RateLimit.Global = tt.global
			})

			get := func(clientIP string) int {
				req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
				require.NoError(t, err)
				req.Header.Set("X-Forwarded-For", clientIP)
				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				resp.Body.Close()
				return resp.StatusCode
			}

			assert.Equal(t, http.StatusOK, get("10.0.0.1"))
			assert.Equal(t, tt.wantSecond, get("10.0.0.2"))
		})
	}
}

func TestRestoreThroughAPI(t *testing.T) {
	srv, ts, mover := newTestServer(t)
	path := writeProject(t, srv.config.Project.Dir)

	body, _ := json.Marshal(types.StartSessionRequest{ProjectPath: path})
	resp, err := http.Post(ts.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var started struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := srv.Sessions().Wait(ctx, started.ID)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 2, result.Moved)

	placement, ok := mover.Placement(types.Application{Path: "/usr/bin/editor"})
	require.True(t, ok)
	assert.Equal(t, 800, placement.Position.Width)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	metrics, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(metrics), `launcher_sessions_total{outcome="succeeded"} 1`)
	assert.Contains(t, string(metrics), "launcher_transitions_total")
}

func TestRestoreRejectsMissingProject(t *testing.T) {
	srv, _, _ := newTestServer(t)

	_, err := srv.Restore(context.Background(), filepath.Join(srv.config.Project.Dir, "missing.json"))
	assert.Error(t, err)
}

func TestStreamBypassesCompression(t *testing.T) {
	srv, ts, _ := newTestServer(t)

	header := http.Header{}
	header.Set("Accept-Encoding", "gzip")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+streamPath, header)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var welcome map[string]any
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "system", welcome["type"])

	_, err = srv.Restore(context.Background(), writeProject(t, srv.config.Project.Dir))
	require.NoError(t, err)

	var status map[string]any
	require.NoError(t, conn.ReadJSON(&status))
	assert.Equal(t, "status", status["type"])
}
