package validate

import (
	"fmt"
	"sort"
)

// requirement decides whether a field must be present. It is evaluated against
// the set of keys present in the input and never mutated after Build.
type requirement struct {
	always    bool
	unlessAll []string
}

func (r requirement) required(has func(string) bool) bool {
	if len(r.unlessAll) > 0 {
		for _, k := range r.unlessAll {
			if !has(k) {
				return true
			}
		}
		return false
	}
	return r.always
}

type field struct {
	name       string
	rule       Rule
	req        requirement
	elementTag string
}

// ObjectBuilder declares the fields of an object schema.
type ObjectBuilder struct {
	name   string
	fields map[string]*field
	order  []string
}

// FieldStep configures the field most recently added to an ObjectBuilder.
type FieldStep struct {
	b *ObjectBuilder
	f *field
}

// Object creates a new object builder. Unknown keys are always rejected.
func Object(name string) *ObjectBuilder {
	return &ObjectBuilder{name: name, fields: map[string]*field{}}
}

// Field registers a field with its rule. Fields are optional until marked
// otherwise; a nil rule means Passthrough.
func (b *ObjectBuilder) Field(name string, r Rule) *FieldStep {
	if r == nil {
		r = Passthrough()
	}
	f, ok := b.fields[name]
	if !ok {
		f = &field{name: name}
		b.fields[name] = f
		b.order = append(b.order, name)
	}
	f.rule = r
	return &FieldStep{b: b, f: f}
}

// Required marks the field as required and returns the builder.
func (s *FieldStep) Required() *ObjectBuilder {
	s.f.req = requirement{always: true}
	return s.b
}

// Optional marks the field as optional (default) and returns the builder.
func (s *FieldStep) Optional() *ObjectBuilder {
	s.f.req = requirement{}
	return s.b
}

// RequiredOnlyIfNot marks the field as required unless every one of others
// is present in the same input.
func (s *FieldStep) RequiredOnlyIfNot(others ...string) *ObjectBuilder {
	s.f.req = requirement{always: true, unlessAll: append([]string(nil), others...)}
	return s.b
}

// ElementTag sets the wire tag used for each element of a list-valued field.
func (s *FieldStep) ElementTag(tag string) *FieldStep {
	s.f.elementTag = tag
	return s
}

// Field starts the next field declaration.
func (s *FieldStep) Field(name string, r Rule) *FieldStep { return s.b.Field(name, r) }

// Build finishes the schema; see ObjectBuilder.Build.
func (s *FieldStep) Build() (*Schema, error) { return s.b.Build() }

// MustBuild finishes the schema and panics on a declaration error.
func (s *FieldStep) MustBuild() *Schema { return s.b.MustBuild() }

// Build checks the declaration and returns a Schema.
func (b *ObjectBuilder) Build() (*Schema, error) {
	var iss Issues
	for _, name := range b.order {
		f := b.fields[name]
		p := Root().Field(name)
		switch {
		case isArrayRule(f.rule) && f.elementTag == "":
			iss = AppendIssues(iss, p.Issue(CodeSchema, fmt.Sprintf("%s.%s: list field has no element tag", b.name, name)))
		case !isArrayRule(f.rule) && f.elementTag != "":
			iss = AppendIssues(iss, p.Issue(CodeSchema, fmt.Sprintf("%s.%s: element tag on a non-list field", b.name, name)))
		}
		for _, other := range f.req.unlessAll {
			if _, ok := b.fields[other]; !ok {
				iss = AppendIssues(iss, p.Issue(CodeSchema, fmt.Sprintf("%s.%s: alternative %q is not a declared field", b.name, name, other)))
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	fields := make(map[string]*field, len(b.fields))
	for k, f := range b.fields {
		cp := *f
		fields[k] = &cp
	}
	// cache sorted keys for deterministic order without per-apply sorting
	sorted := append([]string(nil), b.order...)
	sort.Strings(sorted)
	return &Schema{
		name:   b.name,
		fields: fields,
		order:  append([]string(nil), b.order...),
		sorted: sorted,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
