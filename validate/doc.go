// Package validate provides the declarative validation combinators used by the
// spoke records and operations.
//
// Overview
//   - Rules: Passthrough(), Text(), Int(), Bool(), Date(layout), Enum(values...),
//     Array(elem) and Record[T] (nested record coercion) validate one value each.
//   - Object schemas: Object(name).Field(name, rule).Required()/Optional()/
//     RequiredOnlyIfNot(keys...) declare which keys a mapping may carry.
//     List fields declare the wire tag of their elements with ElementTag.
//   - Apply: Schema.Apply runs the schema over a map[string]any and returns the
//     validated Values or an Issues error.
//   - Error model: Issues carries JSON Pointer paths and stable codes
//     (required, unknown_key, invalid_enum, empty_array, invalid_type, ...).
//
// Requiredness is computed from the keys present in each input; built schemas
// hold no per-call state and may be shared across goroutines.
//
// Example
//
//	image := validate.Object("Image").
//	    Field("ImageType", validate.Text()).Required().
//	    Field("Url", validate.Text()).Required().
//	    MustBuild()
//
//	vals, err := image.Apply(ctx, map[string]any{"ImageType": "jpg"})
//	// err: required at /Url: missing required parameter "Url"
package validate
