package hcl

import (
	"maps"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions available to catalog expressions.
var functions = map[string]function.Function{
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"trim":   stdlib.TrimSpaceFunc,
	"join":   stdlib.JoinFunc,
	"format": stdlib.FormatFunc,
	"concat": stdlib.ConcatFunc,
}

// newEvalContext exposes vars under `var`.
func newEvalContext(vars map[string]string) *hcl.EvalContext {
	values := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		values[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(values),
		},
		Functions: maps.Clone(functions),
	}
}
