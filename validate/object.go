package validate

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/reoring/spoke/i18n"
	js "github.com/reoring/spoke/jsonschema"
)

// Schema is a built, immutable object schema. It is safe for concurrent use.
type Schema struct {
	name   string
	fields map[string]*field
	order  []string // declaration order
	sorted []string
}

// Name returns the schema name given to Object.
func (s *Schema) Name() string { return s.name }

// Fields returns the field names in declaration order.
func (s *Schema) Fields() []string { return append([]string(nil), s.order...) }

// ElementTag returns the element tag declared for a list field, or "".
func (s *Schema) ElementTag(name string) string {
	if f, ok := s.fields[name]; ok {
		return f.elementTag
	}
	return ""
}

// IsRequired reports whether name is required when only the keys in present
// are supplied.
func (s *Schema) IsRequired(name string, present ...string) bool {
	f, ok := s.fields[name]
	if !ok {
		return false
	}
	has := func(k string) bool {
		for _, p := range present {
			if p == k {
				return true
			}
		}
		return false
	}
	return f.req.required(has)
}

// Apply validates in against the schema:
//
//  1. every input key is looked up (in sorted order); unknown keys are
//     rejected, known keys are replaced by the output of their rule;
//  2. requiredness is decided from the keys present in the input, so a
//     RequiredOnlyIfNot field is satisfied by its alternatives;
//  3. missing required keys are reported in lexicographic order.
func (s *Schema) Apply(ctx context.Context, in map[string]any) (Values, error) {
	out := make(Values, len(in))
	var iss Issues

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p := Root().Field(k)
		f, ok := s.fields[k]
		if !ok {
			iss = AppendIssues(iss, p.Issue(CodeUnknownKey, i18n.T(CodeUnknownKey, map[string]string{"key": k}), "key", k))
			if IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		v, err := f.rule.Check(ctx, in[k])
		if err != nil {
			iss = AppendIssues(iss, rebase(p.Pointer(), err)...)
			if IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		if f.elementTag == "" && isList(reflect.ValueOf(v)) {
			iss = AppendIssues(iss, p.Issue(CodeSchema, fmt.Sprintf("%s.%s: list value on a field without element tag", s.name, k), "key", k))
			if IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[k] = v
	}

	has := func(k string) bool {
		_, ok := in[k]
		return ok
	}
	for _, k := range s.sorted {
		if has(k) {
			continue
		}
		f := s.fields[k]
		if !f.req.required(has) {
			continue
		}
		it := Root().Field(k).Issue(CodeRequired, i18n.T(CodeRequired, map[string]string{"key": k}), "key", k)
		if len(f.req.unlessAll) > 0 {
			it.Hint = "or provide all of: " + strings.Join(f.req.unlessAll, ", ")
		}
		iss = AppendIssues(iss, it)
		if IsFailFast(ctx) {
			return nil, iss
		}
	}

	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// JSONSchema projects the schema into a JSON Schema object. Fields required
// only in the absence of alternatives become allOf/anyOf clauses.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{
		Title:                s.name,
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(s.order)),
		AdditionalProperties: false,
	}
	for _, k := range s.order {
		f := s.fields[k]
		ps, err := projectRule(f.rule)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.name, k, err)
		}
		out.Properties[k] = ps
		switch {
		case len(f.req.unlessAll) > 0:
			out.AllOf = append(out.AllOf, &js.Schema{AnyOf: []*js.Schema{
				{Required: []string{k}},
				{Required: append([]string(nil), f.req.unlessAll...)},
			}})
		case f.req.always:
			out.Required = append(out.Required, k)
		}
	}
	sort.Strings(out.Required)
	return out, nil
}
