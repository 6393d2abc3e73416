package lingopress

import "strings"

// LanguageNames maps locale codes to human-readable names for backend prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"de_DE": "German (Germany)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",

	"ar_SA": "Arabic (Saudi Arabia)",
	"cs_CZ": "Czech (Czech Republic)",
	"da_DK": "Danish (Denmark)",
	"el_GR": "Greek (Greece)",
	"fi_FI": "Finnish (Finland)",
	"he_IL": "Hebrew (Israel)",
	"hi_IN": "Hindi (India)",
	"hu_HU": "Hungarian (Hungary)",
	"id_ID": "Indonesian (Indonesia)",
	"ko_KR": "Korean (South Korea)",
	"nl_NL": "Dutch (Netherlands)",
	"nb_NO": "Norwegian Bokmål (Norway)",
	"pl_PL": "Polish (Poland)",
	"ro_RO": "Romanian (Romania)",
	"ru_RU": "Russian (Russia)",
	"sv_SE": "Swedish (Sweden)",
	"th_TH": "Thai (Thailand)",
	"tr_TR": "Turkish (Turkey)",
	"uk_UA": "Ukrainian (Ukraine)",
	"vi_VN": "Vietnamese (Vietnam)",

	"am_ET": "Amharic (Ethiopia)",
	"fa_IR": "Persian (Iran)",
	"ka_GE": "Georgian (Georgia)",
	"km_KH": "Khmer (Cambodia)",
	"lo_LA": "Lao (Laos)",
	"my_MM": "Burmese (Myanmar)",
	"si_LK": "Sinhala (Sri Lanka)",
	"sw_KE": "Swahili (Kenya)",
	"ur_PK": "Urdu (Pakistan)",
	"yo_NG": "Yoruba (Nigeria)",
}

// ShortCodeToLocale maps bare language codes to a default full locale.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"de": "de_DE",
	"es": "es_ES",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"pt": "pt_BR",
	"zh": "zh_CN",
	"ko": "ko_KR",
	"ru": "ru_RU",
	"ar": "ar_SA",
	"he": "he_IL",
	"hi": "hi_IN",
	"nl": "nl_NL",
	"pl": "pl_PL",
	"tr": "tr_TR",
	"vi": "vi_VN",
	"th": "th_TH",
}

// RTLLanguages contains base codes of right-to-left languages. The bilingual
// merger uses this for dir attributes on target blocks.
var RTLLanguages = map[string]bool{
	"ar": true,
	"he": true,
	"fa": true,
	"ur": true,
	"ps": true,
	"sd": true,
	"ug": true,
}

// CompactScriptLanguages have scripts that encode far more meaning per
// character than Latin text, so their length-ratio quality band is wider.
var CompactScriptLanguages = map[string]bool{
	"zh": true,
	"ja": true,
	"ko": true,
}

// LowResourceLanguages are target languages the default MT backend handles
// poorly. The orchestrator routes them to the high-quality backend first,
// regardless of the caller's preferred order.
var LowResourceLanguages = map[string]bool{
	"am": true,
	"ka": true,
	"km": true,
	"lo": true,
	"my": true,
	"si": true,
	"yo": true,
}

// GetLanguageName returns the human-readable name for a language code,
// falling back to the code itself.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}
	if locale, ok := ShortCodeToLocale[BaseLang(langCode)]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// BaseLang extracts the lowercase base language code ("en" from "en_US" or
// "en-US").
func BaseLang(langCode string) string {
	code := strings.ReplaceAll(langCode, "-", "_")
	return strings.ToLower(strings.Split(code, "_")[0])
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[BaseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL reports whether the language is written right to left.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// IsCompactScript reports whether the language belongs to the wide
// quality-band class.
func IsCompactScript(langCode string) bool {
	return CompactScriptLanguages[BaseLang(langCode)]
}

// IsLowResource reports whether the target language is on the forced-routing
// list.
func IsLowResource(langCode string) bool {
	return LowResourceLanguages[BaseLang(langCode)]
}

// NormalizeLocale converts a language code to underscore form ("es-ES" →
// "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// ToHTMLLang converts a locale code to the HTML lang attribute form
// ("es_ES" → "es-ES").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}
