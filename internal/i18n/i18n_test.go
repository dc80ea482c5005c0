package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-feed/internal/config"
	"github.com/tartampluch/birthday-feed/internal/i18n"
)

func newCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	cat, err := i18n.NewCatalog()
	require.NoError(t, err)
	return cat
}

func TestCatalogLanguages(t *testing.T) {
	cat := newCatalog(t)
	assert.ElementsMatch(t, []string{"en", "fr"}, cat.Languages())
}

func TestLocalizer_Get(t *testing.T) {
	cat := newCatalog(t)

	assert.Equal(t, "Unknown", cat.Localizer("en").Get(config.TKeyUnknownContact))
	assert.Equal(t, "Inconnu", cat.Localizer("fr").Get(config.TKeyUnknownContact))
}

func TestLocalizer_DefaultLanguage(t *testing.T) {
	cat := newCatalog(t)

	want := cat.Localizer(config.DefaultLanguage).Get(config.TKeyUnknownContact)
	assert.Equal(t, want, cat.Localizer("").Get(config.TKeyUnknownContact))
}

func TestLocalizer_UnknownLanguageFallsBack(t *testing.T) {
	cat := newCatalog(t)

	assert.Equal(t, "Unknown", cat.Localizer("zz").Get(config.TKeyUnknownContact))
}

func TestLocalizer_UnknownKeyPassthrough(t *testing.T) {
	cat := newCatalog(t)

	assert.Equal(t, "no_such_key", cat.Localizer("en").Get("no_such_key"))
}

func TestLocalizer_TemplateData(t *testing.T) {
	cat := newCatalog(t)

	got := cat.Localizer("en").GetWith(config.TKeyEvtSummary, map[string]any{"Name": "John Doe"})
	assert.Equal(t, "Birthday: John Doe", got)
}

func TestLocalizer_Plurals(t *testing.T) {
	cat := newCatalog(t)
	en := cat.Localizer("en")

	one := en.GetPlural(config.TKeyEvtSummaryAge, 1, map[string]any{"Name": "John", "Age": 1})
	many := en.GetPlural(config.TKeyEvtSummaryAge, 42, map[string]any{"Name": "John", "Age": 42})

	assert.Contains(t, one, "1 year")
	assert.NotContains(t, one, "years")
	assert.Contains(t, many, "42 years")
}

func TestLocalizer_FrenchDiffers(t *testing.T) {
	cat := newCatalog(t)

	en := cat.Localizer("en").Get(config.TKeySyncFailed)
	fr := cat.Localizer("fr").Get(config.TKeySyncFailed)

	assert.NotEmpty(t, en)
	assert.NotEmpty(t, fr)
	assert.NotEqual(t, en, fr)
}
