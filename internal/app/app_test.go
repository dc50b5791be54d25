package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer that is written by the app while the test
// reads it.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestNewConfig(t *testing.T) {
	valid := Config{CatalogPaths: []string{"x"}, LogLevel: "info", LogFormat: "text"}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty level defaults to info", func(c *Config) { c.LogLevel = "" }, ""},
		{"no catalog", func(c *Config) { c.CatalogPaths = nil }, "catalog path"},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.LogFormat = "" }, "invalid log format"},
		{"negative wait", func(c *Config) { c.WaitTimeout = -time.Second }, "wait timeout"},
		{"bad port", func(c *Config) { c.HealthcheckPort = -1 }, "healthcheck port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			got, err := NewConfig(cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	buf.Reset()
	newLogger("debug", "text", &buf).Debug("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func newTestApp(t *testing.T, cfg Config) (*App, *syncBuffer, *syncBuffer) {
	t.Helper()
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &syncBuffer{}, &syncBuffer{}
	a := NewApp(out, logs, appConfig)
	t.Cleanup(func() {
		if os.Getenv("SUITEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

func writeCatalog(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestApp_Roots(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, filepath.Join(dir, "main.hcl"), `suite "ets" "a" {}`)

	raw := eid.New()
	a, _, _ := newTestApp(t, Config{CatalogPaths: []string{dir}, Roots: []string{"ets.a", raw.String(), "free text"}})
	_, err := a.LoadCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []eid.EID{eid.Derive("ets.a"), raw, eid.Derive("free text")}, a.roots())
}

func TestApp_HealthHandler(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, filepath.Join(dir, "main.hcl"), `
		suite "ets" "a" {}
		suite "ets" "b" {}
	`)
	a, _, _ := newTestApp(t, Config{CatalogPaths: []string{dir}})
	_, err := a.LoadCatalog(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(a.healthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var status healthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, healthStatus{Status: "OK", Registered: 2}, status)
}

func TestApp_RunWatchReplansOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.hcl")
	writeCatalog(t, path, `suite "ets" "a" {}`)

	a, out, logs := newTestApp(t, Config{CatalogPaths: []string{dir}, Watch: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "Watching catalog for changes.")
	}, 5*time.Second, 10*time.Millisecond)

	writeCatalog(t, path, `
		suite "ets" "a" { depends_on = [suite.ets.b] }
		suite "ets" "b" {}
	`)

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "NAME") == 2
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, a.Registry().Len())

	writeCatalog(t, path, `suite "ets" "a" {}`)

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "NAME") == 3
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, a.Registry().Len())
	assert.Empty(t, a.Registry().UnresolvedIDs(), "removed suites are not reported as unresolved")
	assert.Contains(t, logs.String(), "Watching registered suites.")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Contains(t, logs.String(), "Watch stopped.")
}
