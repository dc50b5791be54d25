// Package testutil provides the harness used by the integration tests: it
// writes catalog files into a temporary directory and runs the application
// against them, capturing the printed plan and the log output.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/suitegraph/internal/app"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir       string
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// WriteFiles writes files, keyed by paths relative to dir, creating
// subdirectories as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		filePath := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
}

// RunIntegrationTest writes files into a temporary root, points the catalog
// at `<root>/catalog` and the library at `<root>/library`, and runs the app
// with a background context. configure may adjust the configuration.
func RunIntegrationTest(t *testing.T, files map[string]string, configure func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, configure)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller supplied
// context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, configure func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	catalogDir := filepath.Join(tmpDir, "catalog")
	libraryDir := filepath.Join(tmpDir, "library")
	require.NoError(t, os.Mkdir(catalogDir, 0755))
	require.NoError(t, os.Mkdir(libraryDir, 0755))
	WriteFiles(t, tmpDir, files)

	cfg := app.Config{
		CatalogPaths: []string{catalogDir},
		LibraryPaths: []string{libraryDir},
		LogLevel:     "debug",
		LogFormat:    "text",
	}
	if configure != nil {
		configure(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	testApp := app.NewApp(out, logs, appConfig)
	runErr := testApp.Run(ctx)

	if os.Getenv("SUITEGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &HarnessResult{
		Dir:       tmpDir,
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       testApp,
	}
}

// PlanNames extracts the NAME column from printed plans, in order. Header
// lines are skipped, so consecutive plans are concatenated.
func PlanNames(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] == "#" {
			continue
		}
		names = append(names, fields[len(fields)-1])
	}
	return names
}
