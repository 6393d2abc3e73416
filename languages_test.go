package lingopress

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"es_ES", "Spanish (Spain)"},
		{"es", "Spanish (Spain)"},
		{"es-ES", "Spanish (Spain)"},
		{"ja", "Japanese (Japan)"},
		{"xx_YY", "xx_YY"}, // unknown codes pass through
	}

	for _, tt := range tests {
		if got := GetLanguageName(tt.code); got != tt.want {
			t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestBaseLang(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en_US", "en"},
		{"en-GB", "en"},
		{"EN_us", "en"},
		{"zh", "zh"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := BaseLang(tt.code); got != tt.want {
			t.Errorf("BaseLang(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestGetDirection(t *testing.T) {
	if GetDirection("ar_SA") != "rtl" {
		t.Error("Arabic is RTL")
	}
	if GetDirection("he") != "rtl" {
		t.Error("Hebrew is RTL")
	}
	if GetDirection("es_ES") != "ltr" {
		t.Error("Spanish is LTR")
	}
	if !IsRTL("fa_IR") {
		t.Error("Persian is RTL")
	}
}

func TestIsCompactScript(t *testing.T) {
	for _, code := range []string{"zh_CN", "zh_TW", "ja_JP", "ko", "ja-JP"} {
		if !IsCompactScript(code) {
			t.Errorf("%q should be compact-script", code)
		}
	}
	for _, code := range []string{"es_ES", "de", "ru_RU"} {
		if IsCompactScript(code) {
			t.Errorf("%q should not be compact-script", code)
		}
	}
}

func TestIsLowResource(t *testing.T) {
	for _, code := range []string{"am_ET", "km", "yo_NG"} {
		if !IsLowResource(code) {
			t.Errorf("%q should be low-resource", code)
		}
	}
	if IsLowResource("fr_FR") {
		t.Error("French is not low-resource")
	}
}

func TestLocaleConversions(t *testing.T) {
	if NormalizeLocale("es-ES") != "es_ES" {
		t.Error("NormalizeLocale should use underscores")
	}
	if ToHTMLLang("es_ES") != "es-ES" {
		t.Error("ToHTMLLang should use hyphens")
	}
}
