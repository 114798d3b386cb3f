package validate

import (
	"context"
	"reflect"

	js "github.com/reoring/spoke/jsonschema"
)

// Record binds an object schema to the constructor of a record type T. As a
// Rule it accepts either an already constructed T or a raw mapping, which is
// validated with the schema and turned into a new T.
type Record[T any] struct {
	schema *Schema
	build  func(Values) T
}

// NewRecord creates a Record from a built schema and a constructor that
// receives the validated values.
func NewRecord[T any](s *Schema, build func(Values) T) *Record[T] {
	return &Record[T]{schema: s, build: build}
}

// Schema returns the record schema.
func (r *Record[T]) Schema() *Schema { return r.schema }

// New validates params and constructs a T.
func (r *Record[T]) New(ctx context.Context, params map[string]any) (T, error) {
	var zero T
	vals, err := r.schema.Apply(ctx, params)
	if err != nil {
		return zero, err
	}
	return r.build(vals), nil
}

// Check implements Rule.
func (r *Record[T]) Check(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case T:
		if rv := reflect.ValueOf(t); rv.Kind() == reflect.Pointer && rv.IsNil() {
			break
		}
		return t, nil
	case Values:
		return r.New(ctx, map[string]any(t))
	case map[string]any:
		return r.New(ctx, t)
	}
	return nil, invalidType(v, "expected "+r.schema.Name()+" or a mapping")
}

// JSONSchema describes the record as an object schema.
func (r *Record[T]) JSONSchema() (*js.Schema, error) { return r.schema.JSONSchema() }
