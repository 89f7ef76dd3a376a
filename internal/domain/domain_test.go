package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocaleDirection(t *testing.T) {
	for _, l := range SupportedLocales {
		want := DirectionRTL
		if l == LocaleEnglish {
			want = DirectionLTR
		}
		assert.Equal(t, want, l.Direction(), "locale %s", l)
	}
}

func TestParseLocale(t *testing.T) {
	l, ok := ParseLocale(" HE-il ")
	assert.True(t, ok)
	assert.Equal(t, LocaleHebrew, l)

	_, ok = ParseLocale("fr")
	assert.False(t, ok)
}

func TestProviderBioFallsBackToEnglish(t *testing.T) {
	p := &Provider{BioI18n: LocalizedText{"ar": "سريعة الاستجابة", "he": "", "en": "Fast response"}}

	assert.Equal(t, "سريعة الاستجابة", p.Bio(LocaleArabic))
	assert.Equal(t, "Fast response", p.Bio(LocaleHebrew))

	empty := &Provider{}
	assert.Equal(t, "", empty.Bio(LocaleEnglish))
}

func TestProviderContactLinks(t *testing.T) {
	p := &Provider{WhatsApp: StringPtr("+972501234567")}
	assert.Equal(t, "https://wa.me/+972501234567", p.WhatsAppURL())
	assert.Equal(t, "tel:", p.CallURL())
}

func TestProviderFilterQuery(t *testing.T) {
	assert.True(t, ProviderFilter{}.IsEmpty())

	f := ProviderFilter{
		CityID:   Int64Ptr(2),
		AreaIDs:  []int64{3, 4},
		Verified: BoolPtr(true),
		Language: "ar",
	}
	q := f.Query()
	assert.Equal(t, "2", q.Get("city_id"))
	assert.Equal(t, "3,4", q.Get("area_ids"))
	assert.Equal(t, "true", q.Get("verified"))
	assert.Equal(t, "ar", q.Get("language"))
	assert.Empty(t, q.Get("category_id"))
}

func TestProviderFilterMatches(t *testing.T) {
	p := &Provider{
		Verified:   true,
		Languages:  []string{"ar", "he"},
		Categories: []int64{3},
		CityID:     2,
		AreaIDs:    []int64{3},
	}

	assert.True(t, ProviderFilter{}.Matches(p))
	assert.True(t, ProviderFilter{Verified: BoolPtr(true), Language: "he"}.Matches(p))
	assert.False(t, ProviderFilter{Language: "en"}.Matches(p))
	assert.False(t, ProviderFilter{CategoryID: Int64Ptr(1)}.Matches(p))
	assert.True(t, ProviderFilter{AreaIDs: []int64{9, 3}}.Matches(p))
	assert.False(t, ProviderFilter{CityID: Int64Ptr(1)}.Matches(p))
}

func TestCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Cities, 8)
	assert.Len(t, c.Categories, 3)
	assert.Equal(t, "Haifa", c.CityName(1, LocaleEnglish))
	assert.Equal(t, "חשמלאי", c.CategoryName(1, LocaleHebrew))
	assert.Equal(t, "#99", c.CategoryName(99, LocaleEnglish))
	assert.Len(t, c.AreasOf(1), 3)
	assert.Nil(t, c.AreasOf(42))

	assert.NoError(t, c.ValidateLocation(1, []int64{1, 3}))
	assert.Error(t, c.ValidateLocation(1, []int64{4}))
	assert.Error(t, c.ValidateLocation(42, nil))
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"categories":[{"id":1},{"id":1}]}`))
	assert.Error(t, err)
}

func TestSortProvidersByRating(t *testing.T) {
	a := &Provider{Name: "a", Rating: 4.5, RatingCount: 10}
	b := &Provider{Name: "b", Rating: 4.9, RatingCount: 3}
	c := &Provider{Name: "c", Rating: 4.5, RatingCount: 40}

	list := []*Provider{a, b, c}
	SortProviders(list, "")
	assert.Equal(t, []*Provider{a, b, c}, list)

	SortProviders(list, "rating")
	assert.Equal(t, []*Provider{b, c, a}, list)
}
