package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/suitegraph/internal/app"
	"github.com/specialistvlad/suitegraph/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want *app.Config
	}{
		{
			name: "positional paths with defaults",
			args: []string{"a.hcl", "dir"},
			want: &app.Config{
				CatalogPaths: []string{"a.hcl", "dir"},
				Order:        planner.DependentsFirst,
				LogFormat:    "text",
				LogLevel:     "info",
			},
		},
		{
			name: "every flag",
			args: []string{
				"-c", "one", "--catalog", "two", "three",
				"-l", "lib",
				"-r", "ets.a,ets.b", "--root", "ets.c",
				"--var", "region=eu",
				"--order", "dependencies-first",
				"--ignore-cycles",
				"--wait", "2s",
				"-w",
				"--healthcheck-port", "8080",
				"--log-format", "JSON",
				"--log-level", "Debug",
			},
			want: &app.Config{
				CatalogPaths:    []string{"one", "two", "three"},
				LibraryPaths:    []string{"lib"},
				Variables:       map[string]string{"region": "eu"},
				Roots:           []string{"ets.a", "ets.b", "ets.c"},
				Order:           planner.DependenciesFirst,
				IgnoreCycles:    true,
				WaitTimeout:     2 * time.Second,
				Watch:           true,
				HealthcheckPort: 8080,
				LogFormat:       "json",
				LogLevel:        "debug",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.False(t, exit)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Exits(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {}} {
		out := &bytes.Buffer{}
		cfg, exit, err := Parse(args, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown flag", []string{"--nope"}, "unknown flag: --nope"},
		{"bad order", []string{"--order", "sideways", "x"}, "invalid order"},
		{"bad log level", []string{"--log-level", "loud", "x"}, "invalid log level"},
		{"bad log format", []string{"--log-format", "xml", "x"}, "invalid log format"},
		{"negative wait", []string{"--wait", "-1s", "x"}, "wait timeout"},
		{"bad port", []string{"--healthcheck-port", "70000", "x"}, "healthcheck port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.ExitCode())
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
