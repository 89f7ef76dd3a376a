package adapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/locale"
)

func newTestFormatter(t *testing.T, l domain.Locale) (*ResponseFormatter, *locale.Context) {
	t.Helper()
	lc, err := locale.New(l)
	require.NoError(t, err)
	catalog, err := domain.LoadCatalog()
	require.NoError(t, err)
	return NewResponseFormatter(lc, catalog), lc
}

func sampleProvider() *domain.Provider {
	return &domain.Provider{
		ID:          domain.Int64Ptr(1),
		Name:        "Hassan",
		BioI18n:     domain.LocalizedText{"ar": "كهربائي", "en": "Fast-response electrician"},
		Verified:    true,
		Languages:   []string{"ar", "he", "en"},
		Categories:  []int64{1},
		CityID:      1,
		AreaIDs:     []int64{1},
		PricingHint: domain.StringPtr("180 ₪"),
		WhatsApp:    domain.StringPtr("+972501234567"),
		Phone:       domain.StringPtr("+972501234567"),
		Rating:      4.9,
		RatingCount: 120,
	}
}

func assertNoTemplateError(t *testing.T, out string) {
	t.Helper()
	assert.NotContains(t, out, "template:")
	assert.NotContains(t, out, "<no value>")
}

func TestFormatProviderListEnglish(t *testing.T) {
	f, _ := newTestFormatter(t, domain.LocaleEnglish)

	out := f.FormatProviderList([]*domain.Provider{sampleProvider()})
	assertNoTemplateError(t, out)
	assert.Contains(t, out, "Professionals (1)")
	assert.Contains(t, out, "1. Hassan ✅")
	assert.Contains(t, out, "★ 4.9 (120) · Haifa · Electrician")
	assert.Contains(t, out, "Fast-response electrician")
	assert.NotContains(t, out, rtlEmbedding)
}

func TestFormatProviderListRTL(t *testing.T) {
	f, lc := newTestFormatter(t, domain.LocaleArabic)

	out := f.FormatProviderList([]*domain.Provider{sampleProvider()})
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		assert.True(t, strings.HasPrefix(line, rtlEmbedding), "line %q", line)
		assert.True(t, strings.HasSuffix(line, popDirectionalFmt), "line %q", line)
	}

	require.NoError(t, lc.Set(domain.LocaleEnglish))
	assert.NotContains(t, f.FormatProviderList([]*domain.Provider{sampleProvider()}), rtlEmbedding)
}

func TestFormatProviderListEmpty(t *testing.T) {
	f, _ := newTestFormatter(t, domain.LocaleEnglish)
	assert.Equal(t, "📭 No matching providers.", f.FormatProviderList(nil))
}

func TestFormatProvider(t *testing.T) {
	f, _ := newTestFormatter(t, domain.LocaleEnglish)

	out := f.FormatProvider(sampleProvider())
	assertNoTemplateError(t, out)
	assert.Contains(t, out, "👤 Hassan ✅ Verified")
	assert.Contains(t, out, "★ 4.9 (120) Rating")
	assert.Contains(t, out, "- City: Haifa")
	assert.Contains(t, out, "- Pricing: 180 ₪")
	assert.Contains(t, out, "WhatsApp: https://wa.me/+972501234567")
	assert.Contains(t, out, "Call: tel:+972501234567")

	bare := sampleProvider()
	bare.WhatsApp = nil
	bare.Phone = nil
	bare.PricingHint = nil
	out = f.FormatProvider(bare)
	assert.NotContains(t, out, "wa.me")
	assert.NotContains(t, out, "Pricing")

	assert.Equal(t, "❌ Provider not found", f.FormatProvider(nil))
}

func TestFormatProviderUnknownCatalogIDs(t *testing.T) {
	f, _ := newTestFormatter(t, domain.LocaleEnglish)
	p := sampleProvider()
	p.CityID = 99
	p.Categories = []int64{42}

	out := f.FormatProvider(p)
	assert.Contains(t, out, "- City: #99")
	assert.Contains(t, out, "- Category: #42")
}

func TestFormatLeadMessages(t *testing.T) {
	f, lc := newTestFormatter(t, domain.LocaleArabic)

	out := f.FormatLeadSubmitted(&domain.LeadCreated{ID: 7})
	assert.Contains(t, out, "تم إرسال طلبك إلى أفضل ٣ مزودين.")
	assert.Contains(t, out, "(#7)")
	assert.Contains(t, f.FormatLeadFailed(), "تعذر إرسال الطلب")

	require.NoError(t, lc.Set(domain.LocaleEnglish))
	assert.Equal(t, "❌ Could not send the request", f.FormatLeadFailed())
}

func TestFormatLoginResult(t *testing.T) {
	f, lc := newTestFormatter(t, domain.LocaleArabic)
	assert.Contains(t, f.FormatLoginResult(true), "تم تسجيل الدخول!")
	assert.Contains(t, f.FormatLoginResult(false), "خطأ في البيانات")

	require.NoError(t, lc.Set(domain.LocaleHebrew))
	assert.Contains(t, f.FormatLoginResult(false), "פרטים שגויים")
}

func TestFormatDashboard(t *testing.T) {
	f, _ := newTestFormatter(t, domain.LocaleEnglish)

	out := f.FormatDashboard([]*domain.LeadRequest{{
		CategoryID:    1,
		CityID:        1,
		AreaIDs:       []int64{1},
		Description:   "Short circuit repair",
		PreferredTime: domain.StringPtr("today"),
	}})
	assertNoTemplateError(t, out)
	assert.Contains(t, out, "Provider Dashboard (1)")
	assert.Contains(t, out, "1. Short circuit repair")
	assert.Contains(t, out, "City: Haifa | Category: Electrician")
	assert.Contains(t, out, "Preferred time: today")
	assert.Contains(t, out, "[Accept & deliver]")

	assert.Contains(t, f.FormatDashboard(nil), "No new requests.")
}

func TestFormatCatalogAndHelp(t *testing.T) {
	f, _ := newTestFormatter(t, domain.LocaleEnglish)

	catalog := f.FormatCatalog()
	assertNoTemplateError(t, catalog)
	assert.Contains(t, catalog, "1. Electrician")
	assert.Contains(t, catalog, "1. Haifa:")

	help := f.FormatHelp()
	assertNoTemplateError(t, help)
	for _, cmd := range []string{"providers", "provider ID", "request", "review", "login", "dashboard", "lang"} {
		assert.Contains(t, help, cmd)
	}
}

func TestFormatHome(t *testing.T) {
	f, _ := newTestFormatter(t, domain.LocaleEnglish)

	out := f.FormatHome([]*domain.Provider{sampleProvider()})
	assertNoTemplateError(t, out)
	assert.True(t, strings.HasPrefix(out, "🏠 One of us, local trust"))
	assert.Contains(t, out, "Request service now")
	assert.Contains(t, out, "1. Hassan")
	assert.True(t, strings.HasSuffix(out, "Menna | Trusted local community in Israel"))
}

func TestFormatLocaleChanged(t *testing.T) {
	f, lc := newTestFormatter(t, domain.LocaleArabic)
	require.NoError(t, lc.Set(domain.LocaleEnglish))
	assert.Equal(t, "🌐 Language changed: en (ltr)", f.FormatLocaleChanged())
}
