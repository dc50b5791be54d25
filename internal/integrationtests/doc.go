// Package integration_tests runs the application end to end against catalog
// files written to temporary directories.
package integration_tests
