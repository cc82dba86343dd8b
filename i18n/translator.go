// Package i18n supplies localized messages for diagnostic codes.
package i18n

// Translator retrieves localized messages for diagnostic codes. data provides
// optional metadata to embed in the message (for example "key" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "wrong_shape":
			return "ノードの形が不正です"
		case "capacity":
			return "宣言した容量と一致しません"
		case "missing_key":
			return "必須キーが不足しています"
		case "duplicate_key":
			return "キーが重複しています"
		case "unknown_key":
			return "未知のキーです"
		case "invalid_value":
			return "値が不正です"
		case "pattern":
			return "形式が不正です"
		case "unknown_type_name":
			return "未知の型名です"
		case "incomplete_frame":
			return "フレームが完了していません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "wrong_shape":
			return "wrong node shape"
		case "capacity":
			return "declared capacity not honored"
		case "missing_key":
			return "required key missing"
		case "duplicate_key":
			return "duplicate key"
		case "unknown_key":
			return "unknown key"
		case "invalid_value":
			return "invalid value"
		case "pattern":
			return "value does not match expected pattern"
		case "unknown_type_name":
			return "unknown type name"
		case "incomplete_frame":
			return "frame left incomplete"
		case "parse_error":
			return "parse error"
		}
	}
	return code
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
