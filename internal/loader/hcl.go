package loader

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/oconfig"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ParseHCL converts HCL native syntax into config items. Blocks become items
// whose labels are string values and whose body becomes the children.
// Attributes become items carrying the evaluated value. Source order is kept.
func (l *Loader) ParseHCL(ctx context.Context, src []byte, filename string) ([]oconfig.Item, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}

	items, err := l.translateBody(ctx, body, l.evalContext())
	if err != nil {
		return nil, fmt.Errorf("failed to translate HCL file %s: %w", filename, err)
	}
	logger.Debug("Translated HCL file.", "file", filename, "items", len(items))
	return items, nil
}

func (l *Loader) evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"join":      stdlib.JoinFunc,
			"concat":    stdlib.ConcatFunc,
			"format":    stdlib.FormatFunc,
			"coalesce":  stdlib.CoalesceFunc,
		},
	}
}

type positioned struct {
	start int
	items []oconfig.Item
}

// translateBody walks attributes and blocks and interleaves them by their
// byte offset, since hclsyntax keeps attributes in a map.
func (l *Loader) translateBody(ctx context.Context, body *hclsyntax.Body, evalCtx *hcl.EvalContext) ([]oconfig.Item, error) {
	logger := ctxlog.FromContext(ctx)
	var parts []positioned

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for '%s': %w", name, diags)
		}
		items, err := ctyToItems(name, val)
		if err != nil {
			return nil, fmt.Errorf("in attribute '%s': %w", name, err)
		}
		parts = append(parts, positioned{start: attr.SrcRange.Start.Byte, items: items})
	}

	for _, block := range body.Blocks {
		values := make([]oconfig.Value, len(block.Labels))
		for i, label := range block.Labels {
			values[i] = oconfig.String(label)
		}
		children, err := l.translateBody(ctx, block.Body, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("in block '%s': %w", block.Type, err)
		}
		logger.Debug("Translated HCL block.", "type", block.Type, "labels", block.Labels, "children", len(children))
		it := oconfig.NewItem(block.Type, values...).WithChildren(children...)
		parts = append(parts, positioned{start: block.TypeRange.Start.Byte, items: []oconfig.Item{it}})
	}

	slices.SortFunc(parts, func(a, b positioned) int { return cmp.Compare(a.start, b.start) })

	var items []oconfig.Item
	for _, p := range parts {
		items = append(items, p.items...)
	}
	return items, nil
}

// ctyToItems converts one evaluated attribute. Primitive lists flatten into
// a multi-valued item, objects become children, and lists holding objects
// become one item per element. Null yields nothing.
func ctyToItems(key string, v cty.Value) ([]oconfig.Item, error) {
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	if v.IsNull() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty.IsPrimitiveType():
		val, err := ctyToValue(v)
		if err != nil {
			return nil, err
		}
		return []oconfig.Item{oconfig.NewItem(key, val)}, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		if allPrimitive(v) {
			var values []oconfig.Value
			it := v.ElementIterator()
			for it.Next() {
				_, elem := it.Element()
				if elem.IsNull() {
					continue
				}
				val, err := ctyToValue(elem)
				if err != nil {
					return nil, err
				}
				values = append(values, val)
			}
			return []oconfig.Item{oconfig.NewItem(key, values...)}, nil
		}
		var items []oconfig.Item
		it := v.ElementIterator()
		for i := 0; it.Next(); i++ {
			_, elem := it.Element()
			elemItems, err := ctyToItems(key, elem)
			if err != nil {
				return nil, fmt.Errorf("in element %d: %w", i, err)
			}
			items = append(items, elemItems...)
		}
		return items, nil

	case ty.IsObjectType() || ty.IsMapType():
		var children []oconfig.Item
		it := v.ElementIterator()
		for it.Next() {
			k, elem := it.Element()
			name := k.AsString()
			childItems, err := ctyToItems(name, elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", name, err)
			}
			children = append(children, childItems...)
		}
		return []oconfig.Item{oconfig.NewItem(key).WithChildren(children...)}, nil
	}

	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

func allPrimitive(v cty.Value) bool {
	for _, elem := range v.AsValueSlice() {
		if !elem.Type().IsPrimitiveType() {
			return false
		}
	}
	return true
}

func ctyToValue(v cty.Value) (oconfig.Value, error) {
	switch v.Type() {
	case cty.String:
		return oconfig.String(v.AsString()), nil
	case cty.Bool:
		return oconfig.Boolean(v.True()), nil
	case cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return oconfig.Value{}, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return oconfig.Number(f), nil
	}
	return oconfig.Value{}, fmt.Errorf("unsupported value of type %s", v.Type().FriendlyName())
}
