package locale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/pkg/errors"
)

func TestDirectionFollowsLocale(t *testing.T) {
	lc, err := New(domain.LocaleArabic)
	require.NoError(t, err)

	for _, l := range domain.SupportedLocales {
		require.NoError(t, lc.Set(l))
		want := domain.DirectionRTL
		if l == domain.LocaleEnglish {
			want = domain.DirectionLTR
		}
		assert.Equal(t, want, lc.Direction(), "locale %s", l)
		assert.Equal(t, l != domain.LocaleEnglish, lc.IsRTL())
	}
}

func TestSetSwapsStringsSynchronously(t *testing.T) {
	lc, err := New(domain.LocaleArabic)
	require.NoError(t, err)
	assert.Equal(t, "الدخول", lc.Strings().Nav.Login)

	require.NoError(t, lc.Set(domain.LocaleEnglish))
	assert.Equal(t, domain.LocaleEnglish, lc.Locale())
	assert.Equal(t, "Login", lc.Strings().Nav.Login)

	require.NoError(t, lc.Set(domain.LocaleHebrew))
	assert.Equal(t, "התחברות", lc.Strings().Nav.Login)
}

func TestSetRejectsUnsupported(t *testing.T) {
	lc, err := New(domain.LocaleHebrew)
	require.NoError(t, err)

	err = lc.Set(domain.Locale("fr"))
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, domain.LocaleHebrew, lc.Locale())

	_, err = lc.SetCode("de-DE")
	assert.True(t, errors.IsValidation(err))

	l, err := lc.SetCode("EN-us")
	require.NoError(t, err)
	assert.Equal(t, domain.LocaleEnglish, l)
}

func TestOnChangeNotifiesOnlyOnSwitch(t *testing.T) {
	lc, err := New(domain.LocaleArabic)
	require.NoError(t, err)

	var seen []State
	lc.OnChange(func(s State) { seen = append(seen, s) })

	require.NoError(t, lc.Set(domain.LocaleArabic))
	assert.Empty(t, seen)

	require.NoError(t, lc.Set(domain.LocaleEnglish))
	require.Len(t, seen, 1)
	assert.Equal(t, domain.LocaleEnglish, seen[0].Locale)
	assert.Equal(t, domain.DirectionLTR, seen[0].Direction)
	assert.Equal(t, "Rating", seen[0].Strings.Rating)
}

func TestNewRejectsInvalidInitial(t *testing.T) {
	_, err := New(domain.Locale("xx"))
	assert.True(t, errors.IsValidation(err))
}

func TestFromContextFailsFast(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoLocaleContext)

	lc, err := New(domain.LocaleArabic)
	require.NoError(t, err)

	got, err := FromContext(WithContext(context.Background(), lc))
	require.NoError(t, err)
	assert.Same(t, lc, got)
}

func TestEmbeddedTablesAreComplete(t *testing.T) {
	tables, err := LoadTables()
	require.NoError(t, err)
	require.Len(t, tables, len(domain.SupportedLocales))
	require.NoError(t, tables.Validate())
}

func TestMissingKeyFailsLoad(t *testing.T) {
	tables, err := LoadTables()
	require.NoError(t, err)

	broken := *tables[domain.LocaleHebrew]
	broken.Messages.LeadSent = ""
	tables[domain.LocaleHebrew] = &broken

	_, err = NewWithTables(domain.LocaleArabic, tables)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
	assert.True(t, errors.IsValidation(err))

	delete(tables, domain.LocaleEnglish)
	assert.True(t, errors.IsConfig(tables.Validate()))
}

func TestParseStringsRejectsUnknownKeys(t *testing.T) {
	_, err := ParseStrings([]byte(`{"tagline": "x", "taglin": "y"}`))
	assert.True(t, errors.IsValidation(err))

	_, err = ParseStrings([]byte(`{"tagline": "x"}`))
	assert.True(t, errors.IsValidation(err))
}
