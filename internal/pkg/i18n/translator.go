package i18n

import (
	"context"
	"fmt"
	"strings"
)

// Catalog maps a message key to locale -> string.
type Catalog map[string]map[string]string

// Catalog resolves the given locales and indexes the results by key. Other
// languages are not touched, so a broken file only fails its own locale.
func (s *Store) Catalog(ctx context.Context, locales ...string) (Catalog, error) {
	catalog := make(Catalog)
	seen := make(map[string]bool, len(locales))
	for _, code := range locales {
		if seen[code] {
			continue
		}
		seen[code] = true

		table, err := s.Resolve(ctx, code)
		if err != nil {
			return nil, err
		}
		for key, value := range table {
			if catalog[key] == nil {
				catalog[key] = make(map[string]string)
			}
			catalog[key][code] = value
		}
	}
	return catalog, nil
}

type Translator struct {
	catalog         Catalog
	language        string
	defaultLanguage string
	highlight       bool
}

func NewTranslator(catalog Catalog, language, defaultLanguage string, highlight bool) *Translator {
	return &Translator{
		catalog:         catalog,
		language:        language,
		defaultLanguage: defaultLanguage,
		highlight:       highlight,
	}
}

// Translator builds a lookup bound to locale, falling back to the default
// language for unknown codes.
func (s *Store) Translator(ctx context.Context, locale string) (*Translator, error) {
	code := s.Normalize(ctx, locale)
	catalog, err := s.Catalog(ctx, s.opts.DefaultLanguage, code)
	if err != nil {
		return nil, err
	}
	return NewTranslator(catalog, code, s.opts.DefaultLanguage, s.opts.Highlight), nil
}

func (t *Translator) Language() string { return t.language }

// Lookup returns the string for key in the bound locale, then the default
// locale, then defaultValue, then the key itself.
func (t *Translator) Lookup(key, defaultValue string) string {
	if byLocale, ok := t.catalog[key]; ok {
		if v, ok := byLocale[t.language]; ok {
			return v
		}
		if v, ok := byLocale[t.defaultLanguage]; ok {
			return v
		}
	}
	if defaultValue != "" {
		return defaultValue
	}
	if t.highlight {
		return fmt.Sprintf(`<span style="color: red; font-weight:bold;">%s</span>`, key)
	}
	return key
}

func (t *Translator) T(key string) string { return t.Lookup(key, "") }

// Sprintf formats the translated key with Go fmt verbs. Strings without
// verbs, including echoed keys, are returned as is.
func (t *Translator) Sprintf(key string, args ...any) string {
	format := t.Lookup(key, "")
	if !strings.Contains(format, "%") {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Translate is a one-shot lookup for callers holding only a store.
func Translate(ctx context.Context, s *Store, locale, key string) string {
	tr, err := s.Translator(ctx, locale)
	if err != nil {
		return key
	}
	return tr.T(key)
}
