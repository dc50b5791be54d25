// This file contains the logic for translating HCL suite blocks into the
// format-agnostic catalog model.

package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/suitegraph/internal/config"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateSuite evaluates the attributes of a suite block.
func (l *Loader) translateSuite(ctx context.Context, b *suiteBlock, evalCtx *hcl.EvalContext) (*config.Suite, error) {
	ctx, logger := ctxlog.With(ctx, "suite_kind", b.Kind, "suite_name", b.Name)
	logger.Debug("Translating HCL suite to catalog model.")

	s := &config.Suite{Kind: b.Kind, Name: b.Name}

	if isExprDefined(b.ID) {
		if err := decodeString(b.ID, evalCtx, &s.ID); err != nil {
			return nil, fmt.Errorf("suite %q attribute id: %w", s.Ref(), err)
		}
	}

	deps, err := dependsOn(ctx, b.DependsOn, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("suite %q attribute depends_on: %w", s.Ref(), err)
	}
	s.DependsOn = deps

	params, err := parameters(b.Parameters, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("suite %q attribute parameters: %w", s.Ref(), err)
	}
	s.Parameters = params

	return s, nil
}

// isExprDefined reports whether an optional attribute was present in the
// source. gohcl fills omitted optional expressions with a zero-width
// placeholder, so a nil check is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

func decodeString(expr hcl.Expression, evalCtx *hcl.EvalContext, out *string) error {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return diags
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return err
	}
	if val.IsNull() {
		return nil
	}
	return gocty.FromCtyValue(val, out)
}

// dependsOn accepts a list whose elements are either `suite.<kind>.<name>`
// traversals or string expressions.
func dependsOn(ctx context.Context, expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	if v, d := expr.Value(nil); !d.HasErrors() && v.IsNull() {
		return nil, nil
	}
	logger := ctxlog.FromContext(ctx)

	items, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	refs := make([]string, 0, len(items))
	for _, item := range items {
		if trav, d := hcl.AbsTraversalForExpr(item); !d.HasErrors() && trav.RootName() == "suite" {
			ref, err := traversalRef(trav)
			if err != nil {
				return nil, err
			}
			logger.Debug("Resolved dependency traversal.", "ref", ref)
			refs = append(refs, ref)
			continue
		}

		var ref string
		if err := decodeString(item, evalCtx, &ref); err != nil {
			return nil, err
		}
		if ref == "" {
			return nil, fmt.Errorf("%s: empty dependency reference", item.Range())
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// traversalRef turns `suite.<kind>.<name>` into `<kind>.<name>`.
func traversalRef(trav hcl.Traversal) (string, error) {
	if len(trav) != 3 {
		return "", fmt.Errorf("%s: expected a reference of the form suite.<kind>.<name>", trav.SourceRange())
	}
	parts := make([]string, 0, 2)
	for _, step := range trav[1:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			return "", fmt.Errorf("%s: expected a reference of the form suite.<kind>.<name>", trav.SourceRange())
		}
		parts = append(parts, attr.Name)
	}
	return strings.Join(parts, "."), nil
}

// parameters evaluates an object or map expression into string values.
// Numbers and bools are converted; nested values are rejected.
func parameters(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", val.Type().FriendlyName())
	}
	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to a map of strings: %w", val.Type().FriendlyName(), err)
	}
	var out map[string]string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, err
	}
	return out, nil
}
