// Package i18n loads the embedded locale catalog and hands out localizers.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/birthday-feed/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds the parsed message bundle for every embedded locale.
type Catalog struct {
	bundle *i18n.Bundle
	langs  []string
}

// NewCatalog reads every locales/active.<lang>.json file into a bundle.
// English is the fallback language for missing messages.
func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}

		langs = append(langs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	return &Catalog{bundle: bundle, langs: langs}, nil
}

// Languages lists the locale codes found in the embedded catalog.
func (c *Catalog) Languages() []string {
	return c.langs
}

// Localizer returns a translator for lang, falling back to English for
// messages the locale does not carry.
func (c *Catalog) Localizer(lang string) *Localizer {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	return &Localizer{loc: i18n.NewLocalizer(c.bundle, lang)}
}

// Localizer resolves message keys for a single language. An unknown key is
// returned verbatim, never an error: a missing translation must not break the
// feed.
type Localizer struct {
	loc *i18n.Localizer
}

// Get translates a plain message.
func (l *Localizer) Get(key string) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key})
}

// GetWith translates a message with template data.
func (l *Localizer) GetWith(key string, data map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// GetPlural translates a message whose form depends on count.
func (l *Localizer) GetPlural(key string, count int, data map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data, PluralCount: count})
}

func (l *Localizer) localize(cfg *i18n.LocalizeConfig) string {
	msg, err := l.loc.Localize(cfg)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, cfg.MessageID,
			config.LogKeyError, err,
		)
		return cfg.MessageID
	}
	return msg
}
