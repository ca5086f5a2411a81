package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "tag").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates refer
// to data entries as {name}; entries missing from data render empty.
type dictTranslator struct{ lang string }

var dicts = map[string]map[string]string{
	"en": {
		"type_mismatch": "expected {expected}, got {got}",
		"missing_field": "required field missing",
		"unknown_tag":   "unknown tag {tag}",
		"unknown_key":   "unknown key",
		"duplicate_key": "duplicate key",
		"parse_error":   "parse error",
		"truncated":     "truncated",
	},
	"ja": {
		"type_mismatch": "{expected} が必要ですが {got} でした",
		"missing_field": "必須フィールドが不足しています",
		"unknown_tag":   "未知のタグです: {tag}",
		"unknown_key":   "未知のキーです",
		"duplicate_key": "キーが重複しています",
		"parse_error":   "解析エラー",
		"truncated":     "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dicts[t.lang][code]
	if !ok {
		return code
	}
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			break
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			break
		}
		b.WriteString(tmpl[:i])
		b.WriteString(data[tmpl[i+1:i+j]])
		tmpl = tmpl[i+j+1:]
	}
	b.WriteString(tmpl)
	return strings.TrimSpace(b.String())
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dicts[lang]; !ok {
		lang = "en"
	}
	current.Store(&holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
