package i18n_test

import (
	"testing"

	"github.com/reoring/spoke/i18n"
)

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestT_SubstitutesKeys(t *testing.T) {
	got := i18n.T("required", map[string]string{"key": "City"})
	if got != `missing required parameter "City"` {
		t.Fatalf("unexpected message: %q", got)
	}
	got = i18n.T("invalid_enum", map[string]string{"value": "Boat"})
	if got != `value "Boat" not in enum` {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestT_UnknownCodeFallsBackToCode(t *testing.T) {
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}

func TestSetLanguageAndTranslator(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })

	i18n.SetLanguage("ja")
	if got := i18n.T("unknown_key", map[string]string{"key": "Extra"}); got != `パラメータ "Extra" は許可されていません` {
		t.Fatalf("unexpected ja message: %q", got)
	}

	i18n.SetTranslator(upper{})
	if got := i18n.T("required", nil); got != "X:required" {
		t.Fatalf("custom translator not used: %q", got)
	}

	i18n.SetTranslator(nil)
	if got := i18n.T("empty_array", nil); got != "empty array found where array required" {
		t.Fatalf("nil translator should restore en: %q", got)
	}
}
