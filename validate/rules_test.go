package validate_test

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/spoke/validate"
)

type method string

func TestText_Coercion(t *testing.T) {
	ctx := context.Background()
	r := validate.Text()
	cases := []struct {
		in   any
		want string
	}{
		{"abc", "abc"},
		{1234, "1234"},
		{int64(-7), "-7"},
		{uint8(3), "3"},
		{1.5, "1.5"},
		{json.Number("12.50"), "12.50"},
		{method("FirstClass"), "FirstClass"},
		{true, "true"},
	}
	for _, tc := range cases {
		got, err := r.Check(ctx, tc.in)
		if err != nil {
			t.Fatalf("Text(%v): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Text(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	_, err := r.Check(ctx, map[string]any{})
	iss, ok := validate.AsIssues(err)
	if !ok || iss[0].Code != validate.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", err)
	}
}

func TestInt_Coercion(t *testing.T) {
	ctx := context.Background()
	r := validate.Int()
	for _, in := range []any{3, int32(3), float64(3), "3", json.Number("3")} {
		got, err := r.Check(ctx, in)
		if err != nil || got != 3 {
			t.Fatalf("Int(%#v) = %v, %v", in, got, err)
		}
	}
	for _, in := range []any{1.5, "three", nil, []int{1}, 1e20, -1e20, math.Inf(1), math.NaN()} {
		if _, err := r.Check(ctx, in); err == nil {
			t.Fatalf("Int(%#v): expected error", in)
		}
	}
}

func TestText_RejectsNonXMLCharacters(t *testing.T) {
	ctx := context.Background()
	r := validate.Text()
	for _, in := range []string{"Bad\x01Name", "nul\x00", "\uFFFE", "bad \xff utf8"} {
		_, err := r.Check(ctx, in)
		iss, ok := validate.AsIssues(err)
		if !ok || iss[0].Code != validate.CodeInvalidFormat {
			t.Fatalf("Text(%q): expected invalid_format, got %v", in, err)
		}
	}
	for _, in := range []string{"tab\there", "line\nbreak", "caf\u00e9 \U0001F4F1"} {
		if got, err := r.Check(ctx, in); err != nil || got != in {
			t.Fatalf("Text(%q) = %v, %v", in, got, err)
		}
	}
}

func TestBool_Coercion(t *testing.T) {
	ctx := context.Background()
	r := validate.Bool()
	if v, err := r.Check(ctx, true); err != nil || v != true {
		t.Fatalf("bool: %v %v", v, err)
	}
	if v, err := r.Check(ctx, "false"); err != nil || v != false {
		t.Fatalf("string bool: %v %v", v, err)
	}
	if _, err := r.Check(ctx, 1); err == nil {
		t.Fatalf("expected error for int")
	}
}

func TestDate(t *testing.T) {
	ctx := context.Background()
	r := validate.Date("01/02/2006")
	ts := time.Date(2024, time.March, 9, 15, 4, 5, 0, time.UTC)
	if v, err := r.Check(ctx, ts); err != nil || v != "03/09/2024" {
		t.Fatalf("time: %v %v", v, err)
	}
	if v, err := r.Check(ctx, &ts); err != nil || v != "03/09/2024" {
		t.Fatalf("*time: %v %v", v, err)
	}
	if v, err := r.Check(ctx, "2024-03-09"); err != nil || v != "2024-03-09" {
		t.Fatalf("string: %v %v", v, err)
	}
	_, err := r.Check(ctx, "  ")
	if iss, ok := validate.AsIssues(err); !ok || iss[0].Code != validate.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %v", err)
	}
}

func TestEnum_ExactMatch(t *testing.T) {
	ctx := context.Background()
	r := validate.Enum("Printer", "Packaging")

	if v, err := r.Check(ctx, "Printer"); err != nil || v != "Printer" {
		t.Fatalf("member rejected: %v %v", v, err)
	}
	if v, err := r.Check(ctx, method("Packaging")); err != nil || v != "Packaging" {
		t.Fatalf("named string member rejected: %v %v", v, err)
	}

	for _, in := range []any{"printer", "Printer ", 1, nil} {
		_, err := r.Check(ctx, in)
		iss, ok := validate.AsIssues(err)
		if !ok || len(iss) != 1 || iss[0].Code != validate.CodeInvalidEnum {
			t.Fatalf("Enum(%#v): expected invalid_enum, got %v", in, err)
		}
	}

	_, err := r.Check(ctx, "Boat")
	if !strings.Contains(err.Error(), `"Boat"`) {
		t.Fatalf("message should name the rejected value: %v", err)
	}
}

func TestArray(t *testing.T) {
	ctx := context.Background()
	r := validate.Array(validate.Text())

	// empty list fails
	_, err := r.Check(ctx, []any{})
	iss, ok := validate.AsIssues(err)
	if !ok || iss[0].Code != validate.CodeEmptyArray {
		t.Fatalf("expected empty_array, got %v", err)
	}

	// bare scalar becomes a single element
	got, err := r.Check(ctx, 7)
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if diff := cmp.Diff([]any{"7"}, got); diff != "" {
		t.Fatalf("scalar wrap mismatch (-want +got):\n%s", diff)
	}

	// typed slices are validated element by element, in order
	got, err = r.Check(ctx, []int{3, 1, 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]any{"3", "1", "2"}, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestArray_ElementIssuesAreIndexed(t *testing.T) {
	ctx := context.Background()
	r := validate.Array(validate.Enum("a", "b"))

	_, err := r.Check(ctx, []string{"a", "x", "b", "y"})
	iss, ok := validate.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
	if iss[0].Path != "/1" || iss[1].Path != "/3" {
		t.Fatalf("unexpected paths: %v", iss)
	}

	_, err = r.Check(validate.WithFailFast(ctx, true), []string{"x", "y"})
	iss, _ = validate.AsIssues(err)
	if len(iss) != 1 {
		t.Fatalf("fail-fast should stop at first issue: %v", iss)
	}
}
