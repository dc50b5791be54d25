package integration_tests

import (
	"testing"

	"github.com/specialistvlad/suitegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLibrary_FetchedOnDemand verifies that library suites are registered
// only when a planned suite depends on them.
func TestLibrary_FetchedOnDemand(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"catalog/main.hcl": `
			suite "ets" "wfs" { depends_on = ["lib.http"] }
		`,
		"library/lib.yaml": `
suites:
  - {kind: lib, name: http, depends_on: [lib.tls]}
  - {kind: lib, name: tls}
  - {kind: lib, name: unused}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, nil)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"wfs", "http", "tls"}, testutil.PlanNames(result.Output))
	assert.Equal(t, 3, result.App.Registry().Len(), "unused library suites stay unregistered")
	assert.Contains(t, result.LogOutput, "Library loaded.")
	assert.Contains(t, result.LogOutput, "Fetching missing dependencies.")
}
