// Package hcl provides the HCL implementation of the config.Loader interface.
// It is responsible for file discovery, parsing, expression evaluation and
// the translation of suite blocks into the format-agnostic catalog model.
//
// A catalog file contains suite blocks:
//
//	suite "ExecutableTestSuite" "wfs" {
//	  id         = "3dd6f9b6-2c6a-4a59-9a4c-2c8b7b1e0f51"
//	  depends_on = [suite.ExecutableTestSuite.base, "ets.external"]
//	  parameters = {
//	    endpoint = upper(var.region)
//	  }
//	}
//
// Dependencies are either suite traversals or strings holding a
// `<kind>.<name>` reference or an identity. Parameters may use variables
// under `var` and a small set of string functions.
package hcl
