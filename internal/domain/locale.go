package domain

import "strings"

// Locale is one of the supported UI/request languages.
type Locale string

const (
	LocaleArabic  Locale = "ar"
	LocaleHebrew  Locale = "he"
	LocaleEnglish Locale = "en"
)

// SupportedLocales lists locales in switcher order.
var SupportedLocales = []Locale{LocaleArabic, LocaleHebrew, LocaleEnglish}

func (l Locale) String() string {
	return string(l)
}

func (l Locale) IsValid() bool {
	switch l {
	case LocaleArabic, LocaleHebrew, LocaleEnglish:
		return true
	default:
		return false
	}
}

// ParseLocale accepts codes case-insensitively, including region forms like "he-IL".
func ParseLocale(code string) (Locale, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		code = code[:idx]
	}
	l := Locale(code)
	return l, l.IsValid()
}

// Direction is the text layout orientation derived from a locale.
type Direction string

const (
	DirectionRTL Direction = "rtl"
	DirectionLTR Direction = "ltr"
)

func (d Direction) String() string {
	return string(d)
}

// Direction is right-to-left for every locale except English.
func (l Locale) Direction() Direction {
	if l == LocaleEnglish {
		return DirectionLTR
	}
	return DirectionRTL
}

// LocalizedText maps locale codes to text. Keys need not cover every locale.
type LocalizedText map[string]string

// In returns the text for l, falling back to English and then to "".
func (t LocalizedText) In(l Locale) string {
	if v := t[string(l)]; v != "" {
		return v
	}
	return t[string(LocaleEnglish)]
}
