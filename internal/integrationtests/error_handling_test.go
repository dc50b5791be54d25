package integration_tests

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/suitegraph/internal/app"
	"github.com/specialistvlad/suitegraph/internal/config"
	"github.com/specialistvlad/suitegraph/internal/depgraph"
	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/specialistvlad/suitegraph/internal/storage"
	"github.com/specialistvlad/suitegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cyclicCatalog = `
	suite "ets" "1" { depends_on = [suite.ets.2] }
	suite "ets" "2" { depends_on = [suite.ets.3] }
	suite "ets" "3" { depends_on = [suite.ets.1] }
`

func TestErrors_CycleFailsThePlan(t *testing.T) {
	result := testutil.RunIntegrationTest(t, map[string]string{"catalog/main.hcl": cyclicCatalog}, nil)

	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, depgraph.ErrCyclicDependency)
	assert.Contains(t, result.Err.Error(), "cyclic dependency detected")
	assert.Empty(t, result.Output)
}

func TestErrors_IgnoreCycles(t *testing.T) {
	result := testutil.RunIntegrationTest(t, map[string]string{"catalog/main.hcl": cyclicCatalog}, func(c *app.Config) {
		c.IgnoreCycles = true
	})

	require.NoError(t, result.Err)
	assert.Len(t, testutil.PlanNames(result.Output), 3)
	assert.Contains(t, result.LogOutput, "Dependency cycle ignored")
}

func TestErrors_DuplicateSuite(t *testing.T) {
	files := map[string]string{
		"catalog/a.hcl":  `suite "ets" "same" {}`,
		"catalog/b.yaml": "suites:\n  - {kind: ets, name: same}\n",
	}
	result := testutil.RunIntegrationTest(t, files, nil)

	require.ErrorIs(t, result.Err, config.ErrDuplicateSuite)
	assert.Contains(t, result.LogOutput, "Duplicate suite definition found.")
}

func TestErrors_MissingDependency(t *testing.T) {
	files := map[string]string{"catalog/main.hcl": `suite "ets" "a" { depends_on = ["ets.ghost"] }`}

	t.Run("fails immediately without wait", func(t *testing.T) {
		result := testutil.RunIntegrationTest(t, files, nil)
		require.ErrorIs(t, result.Err, storage.ErrNotFound)
	})

	t.Run("times out while waiting", func(t *testing.T) {
		result := testutil.RunIntegrationTest(t, files, func(c *app.Config) {
			c.LibraryPaths = nil
			c.WaitTimeout = 50 * time.Millisecond
		})
		require.ErrorIs(t, result.Err, context.DeadlineExceeded)
		assert.Contains(t, result.Err.Error(), "unresolved dependencies")
	})

	t.Run("waits for suites the library lacks", func(t *testing.T) {
		withLibrary := map[string]string{
			"catalog/main.hcl": `suite "ets" "a" { depends_on = ["lib.tls", "ets.ghost"] }`,
			"library/lib.hcl":  `suite "lib" "tls" {}`,
		}
		result := testutil.RunIntegrationTest(t, withLibrary, func(c *app.Config) {
			c.WaitTimeout = 50 * time.Millisecond
		})
		require.ErrorIs(t, result.Err, context.DeadlineExceeded)
		assert.NotErrorIs(t, result.Err, storage.ErrNotFound)
		assert.Contains(t, result.Err.Error(), eid.Derive("ets.ghost").String())
		assert.Equal(t, 2, result.App.Registry().Len(), "the library suite was registered")
	})
}

func TestErrors_InvalidCatalog(t *testing.T) {
	result := testutil.RunIntegrationTest(t, map[string]string{"catalog/main.hcl": `suite "ets" {}`}, nil)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to load catalog")
	assert.Equal(t, 0, result.App.Registry().Len())
}
