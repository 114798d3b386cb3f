package validate

// Values holds the output of Schema.Apply: every present key mapped to the
// value returned by its rule.
type Values map[string]any

// Has reports whether key was present in the input.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Text returns a string value, or "" when absent.
func (v Values) Text(key string) string { return Get[string](v, key) }

// Int returns an int value, or 0 when absent.
func (v Values) Int(key string) int { return Get[int](v, key) }

// Bool returns a bool value, or false when absent.
func (v Values) Bool(key string) bool { return Get[bool](v, key) }

// Get returns the value for key asserted to T, or the zero T.
func Get[T any](v Values, key string) T {
	t, _ := v[key].(T)
	return t
}

// List returns the elements of a list value (as produced by Array) that are
// of type T.
func List[T any](v Values, key string) []T {
	items, _ := v[key].([]any)
	if len(items) == 0 {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if t, ok := it.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
