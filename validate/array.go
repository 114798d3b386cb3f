package validate

import (
	"context"
	"reflect"

	"github.com/reoring/spoke/i18n"
	js "github.com/reoring/spoke/jsonschema"
)

type arrayRule struct {
	elem Rule
}

// Array returns a rule for one-or-more values. A slice is validated element by
// element (order preserved) and must not be empty; any other value is
// validated with elem and wrapped as a one-element list. The result is []any.
//
// A field holding an Array rule must declare its wire element tag with
// ElementTag.
func Array(elem Rule) Rule {
	if elem == nil {
		elem = Passthrough()
	}
	return &arrayRule{elem: elem}
}

func (a *arrayRule) Check(ctx context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !isList(rv) {
		ev, err := a.elem.Check(ctx, v)
		if err != nil {
			return nil, err
		}
		return []any{ev}, nil
	}
	n := rv.Len()
	if n == 0 {
		return nil, singleIssue(CodeEmptyArray, i18n.T(CodeEmptyArray, nil), nil)
	}
	out := make([]any, 0, n)
	var iss Issues
	for i := 0; i < n; i++ {
		ev, err := a.elem.Check(ctx, rv.Index(i).Interface())
		if err != nil {
			iss = AppendIssues(iss, rebase(Root().Index(i).Pointer(), err)...)
			if IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (a *arrayRule) JSONSchema() (*js.Schema, error) {
	es, err := projectRule(a.elem)
	if err != nil {
		return nil, err
	}
	one := 1
	return &js.Schema{OneOf: []*js.Schema{{Type: "array", Items: es, MinItems: &one}, es}}, nil
}

func isList(rv reflect.Value) bool {
	k := rv.Kind()
	if k != reflect.Slice && k != reflect.Array {
		return false
	}
	// byte slices are scalar payloads, not lists
	return rv.Type().Elem().Kind() != reflect.Uint8
}

func isArrayRule(r Rule) bool {
	_, ok := r.(*arrayRule)
	return ok
}
