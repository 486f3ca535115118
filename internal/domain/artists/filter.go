package artists

import "strings"

// Filter returns the artists matching both the language and the gender
// selection. language == AllLanguages disables the language predicate and a
// nil gender disables the gender predicate. Order is preserved.
func Filter(list []Artist, language string, gender *string) []Artist {
	out := make([]Artist, 0, len(list))
	for _, a := range list {
		if Matches(a, language, gender) {
			out = append(out, a)
		}
	}
	return out
}

func Matches(a Artist, language string, gender *string) bool {
	if language != AllLanguages && !a.SpeaksLanguage(language) {
		return false
	}
	if gender != nil && !strings.EqualFold(*gender, string(a.VoiceGender)) {
		return false
	}
	return true
}

// GenderParam turns an optional query value into the filter's gender
// argument: empty means "any".
func GenderParam(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

// LanguageParam maps an empty selection to AllLanguages.
func LanguageParam(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllLanguages) {
		return AllLanguages
	}
	return raw
}
