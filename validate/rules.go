package validate

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/reoring/spoke/i18n"
	js "github.com/reoring/spoke/jsonschema"
)

// Rule validates a single field value and returns its validated form.
// Issues returned by a Rule use paths relative to the value ("/" for the value
// itself); the schema rebases them under the field name.
type Rule interface {
	Check(ctx context.Context, v any) (any, error)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(ctx context.Context, v any) (any, error)

func (f RuleFunc) Check(ctx context.Context, v any) (any, error) { return f(ctx, v) }

// SchemaProjector is implemented by rules that can describe their accepted
// input as JSON Schema.
type SchemaProjector interface {
	JSONSchema() (*js.Schema, error)
}

// projectRule returns the JSON Schema for r, or an empty schema when r does not
// describe itself.
func projectRule(r Rule) (*js.Schema, error) {
	if p, ok := r.(SchemaProjector); ok {
		return p.JSONSchema()
	}
	return &js.Schema{}, nil
}

type passthroughRule struct{}

// Passthrough accepts any value unchanged.
func Passthrough() Rule { return passthroughRule{} }

func (passthroughRule) Check(_ context.Context, v any) (any, error) { return v, nil }

func (passthroughRule) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

type textRule struct{}

// Text accepts scalars (strings, integers, floats, bools and their named kinds)
// and returns their wire text. Strings must be valid UTF-8 made of characters
// XML 1.0 allows.
func Text() Rule { return textRule{} }

func (textRule) Check(_ context.Context, v any) (any, error) {
	s, ok := scalarText(v)
	if !ok {
		return nil, invalidType(v, "expected text or number")
	}
	if iss := checkXMLText(s); iss != nil {
		return nil, iss
	}
	return s, nil
}

func (textRule) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// checkXMLText reports an invalid_format issue when s cannot be written as
// XML character data unchanged.
func checkXMLText(s string) Issues {
	if !utf8.ValidString(s) {
		return formatIssue("text is not valid UTF-8", nil)
	}
	for i, r := range s {
		if !isXMLChar(r) {
			return formatIssue(fmt.Sprintf("character %U at byte %d is not allowed in XML", r, i), map[string]any{"offset": i})
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	}
	return r >= 0x10000 && r <= utf8.MaxRune
}

func formatIssue(hint string, params map[string]any) Issues {
	iss := singleIssue(CodeInvalidFormat, i18n.T(CodeInvalidFormat, nil), params)
	iss[0].Hint = hint
	return iss
}

func scalarText(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	}
	return "", false
}

type intRule struct{}

// Int accepts integers, whole floats and numeric strings (including
// json.Number) and returns an int.
func Int() Rule { return intRule{} }

func (intRule) Check(_ context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() <= math.MaxInt {
			return int(rv.Uint()), nil
		}
	case reflect.Float32, reflect.Float64:
		// math.MaxInt rounds up to a power of two as a float, so the upper
		// bound is exclusive.
		if f := rv.Float(); f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt {
			return int(f), nil
		}
	case reflect.String:
		if n, err := strconv.Atoi(strings.TrimSpace(rv.String())); err == nil {
			return n, nil
		}
	}
	return nil, invalidType(v, "expected integer")
}

func (intRule) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

type boolRule struct{}

// Bool accepts a bool or a string understood by strconv.ParseBool.
func Bool() Rule { return boolRule{} }

func (boolRule) Check(_ context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		if b, err := strconv.ParseBool(rv.String()); err == nil {
			return b, nil
		}
	}
	return nil, invalidType(v, "expected boolean")
}

func (boolRule) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

type dateRule struct{ layout string }

// Date accepts a time.Time, rendered with layout, or a non-empty date string
// which is kept as given.
func Date(layout string) Rule { return dateRule{layout: layout} }

func (d dateRule) Check(_ context.Context, v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(d.layout), nil
	case *time.Time:
		if t != nil {
			return t.Format(d.layout), nil
		}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		s := strings.TrimSpace(rv.String())
		if s == "" {
			return nil, singleIssue(CodeInvalidFormat, i18n.T(CodeInvalidFormat, nil), map[string]any{"layout": d.layout})
		}
		if iss := checkXMLText(s); iss != nil {
			return nil, iss
		}
		return s, nil
	}
	return nil, invalidType(v, "expected time.Time or date string")
}

func (d dateRule) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Description: "date, layout " + d.layout}, nil
}

type enumRule struct {
	values []string
	set    map[string]struct{}
}

// Enum accepts only the given values (exact match on string kinds).
func Enum(values ...string) Rule {
	e := &enumRule{values: append([]string(nil), values...), set: make(map[string]struct{}, len(values))}
	for _, v := range values {
		e.set[v] = struct{}{}
	}
	return e
}

func (e *enumRule) Check(_ context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		s := rv.String()
		if _, ok := e.set[s]; ok {
			return s, nil
		}
	}
	shown := fmt.Sprint(v)
	iss := singleIssue(CodeInvalidEnum, i18n.T(CodeInvalidEnum, map[string]string{"value": shown}), map[string]any{"value": v, "allowed": e.values})
	return nil, iss
}

func (e *enumRule) JSONSchema() (*js.Schema, error) {
	vals := make([]any, len(e.values))
	for i, v := range e.values {
		vals[i] = v
	}
	return &js.Schema{Type: "string", Enum: vals}, nil
}

func invalidType(v any, hint string) Issues {
	iss := singleIssue(CodeInvalidType, i18n.T(CodeInvalidType, nil), map[string]any{"got": fmt.Sprintf("%T", v)})
	iss[0].Hint = hint
	return iss
}
