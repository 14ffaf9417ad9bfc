package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is stored when a form omits the language field.
const DefaultLanguage = "en"

// languageCodes is the fixed set of language codes a book may carry.
var languageCodes = []string{
	"af", "ar", "ar-dz", "ast", "az", "bg", "be", "bn", "br", "bs",
	"ca", "ckb", "cs", "cy", "da", "de", "dsb", "el", "en", "en-au",
	"en-gb", "eo", "es", "es-ar", "es-co", "es-mx", "es-ni", "es-ve", "et", "eu",
	"fa", "fi", "fr", "fy", "ga", "gd", "gl", "he", "hi", "hr",
	"hsb", "hu", "hy", "ia", "id", "ig", "io", "is", "it", "ja",
	"ka", "kab", "kk", "km", "kn", "ko", "ky", "lb", "lt", "lv",
	"mk", "ml", "mn", "mr", "ms", "my", "nb", "ne", "nl", "nn",
	"os", "pa", "pl", "pt", "pt-br", "ro", "ru", "sk", "sl", "sq",
	"sr", "sr-latn", "sv", "sw", "ta", "te", "tg", "th", "tk", "tr",
	"tt", "udm", "uk", "ur", "uz", "vi", "zh-hans", "zh-hant",
}

// Language is one entry of the language enumeration.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var languageNamer = display.English.Tags()

// Languages returns the enumeration with English display names.
func Languages() []Language {
	out := make([]Language, 0, len(languageCodes))
	for _, code := range languageCodes {
		out = append(out, Language{Code: code, Name: LanguageName(code)})
	}
	return out
}

// LanguageName returns the English name of a code, or the code itself when
// no name is known.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := languageNamer.Name(tag); name != "" {
		return name
	}
	return code
}

// IsKnownLanguage reports whether code belongs to the enumeration.
func IsKnownLanguage(code string) bool {
	for _, c := range languageCodes {
		if c == code {
			return true
		}
	}
	return false
}

func languageChoices() []interface{} {
	out := make([]interface{}, len(languageCodes))
	for i, c := range languageCodes {
		out[i] = c
	}
	return out
}
