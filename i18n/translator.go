package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional values substituted into the message: a "{key}"
// placeholder is replaced by data["key"].
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var tmpl string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			tmpl = "型が不正です"
		case "required":
			tmpl = "必須パラメータ \"{key}\" が不足しています"
		case "unknown_key":
			tmpl = "パラメータ \"{key}\" は許可されていません"
		case "invalid_enum":
			tmpl = "値 \"{value}\" は列挙値に含まれていません"
		case "empty_array":
			tmpl = "配列が必要な箇所に空の配列があります"
		case "invalid_format":
			tmpl = "形式が不正です"
		case "schema_error":
			tmpl = "スキーマ定義エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			tmpl = "invalid type"
		case "required":
			tmpl = "missing required parameter \"{key}\""
		case "unknown_key":
			tmpl = "parameter \"{key}\" not allowed"
		case "invalid_enum":
			tmpl = "value \"{value}\" not in enum"
		case "empty_array":
			tmpl = "empty array found where array required"
		case "invalid_format":
			tmpl = "invalid format"
		case "schema_error":
			tmpl = "schema error"
		}
	}
	if tmpl == "" {
		return code
	}
	return expand(tmpl, data)
}

func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
