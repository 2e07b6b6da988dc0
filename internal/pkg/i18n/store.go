// Package i18n loads layered .ini translation tables and resolves keys with
// default-locale fallback.
//
// Layers for locale L with default locale D, lowest precedence first:
//
//	default/D, plugin/D, custom/D, default/L, custom/L, plugin/L
//
// default/D and plugin/D are mandatory; every other layer is skipped when
// absent.
package i18n

import (
	"context"
	"fmt"
	"sync"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/metrics"
)

const (
	DefaultLanguage  = "en-US"
	languageListFile = "languagelist.ini"
)

// Table maps a message key to its string for one locale. Tables returned by
// a Store are shared snapshots and must not be mutated.
type Table map[string]string

// FilterFunc is applied to every freshly merged table before it is cached.
type FilterFunc func(ctx context.Context, slug, language string, table map[string]string) map[string]string

type Options struct {
	Slug            string
	DefaultLanguage string

	Default Source
	Custom  Source
	// Plugin is nil for a store that only serves host strings.
	Plugin Source

	// Debug bypasses every cache so translators see live files.
	Debug     bool
	Highlight bool

	Filter FilterFunc
}

type cacheKey struct {
	slug   string
	locale string
}

type Store struct {
	opts Options

	mu     sync.RWMutex
	tables map[cacheKey]Table
	langs  map[string]string
}

func NewStore(opts Options) *Store {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = DefaultLanguage
	}
	if opts.Default == nil {
		opts.Default = Dir("")
	}
	if opts.Custom == nil {
		opts.Custom = Dir("")
	}
	return &Store{
		opts:   opts,
		tables: make(map[cacheKey]Table),
	}
}

func (s *Store) Slug() string            { return s.opts.Slug }
func (s *Store) DefaultLanguage() string { return s.opts.DefaultLanguage }

// Resolve returns the merged table for locale. Callers normalise unknown
// locales to the default one first (see Normalize).
func (s *Store) Resolve(ctx context.Context, locale string) (Table, error) {
	key := cacheKey{slug: s.opts.Slug, locale: locale}

	if !s.opts.Debug {
		s.mu.RLock()
		cached, ok := s.tables[key]
		s.mu.RUnlock()
		if ok {
			metrics.LocaleCacheHits.Inc()
			return cached, nil
		}
		metrics.LocaleCacheMisses.Inc()
	}

	table, err := s.build(ctx, locale)
	if err != nil {
		return nil, err
	}

	if s.opts.Filter != nil {
		table = s.opts.Filter(ctx, s.opts.Slug, locale, table)
	}

	if !s.opts.Debug {
		s.mu.Lock()
		s.tables[key] = table
		s.mu.Unlock()
	}
	return table, nil
}

type layer struct {
	src       Source
	locale    string
	mandatory bool
}

func (s *Store) layers(locale string) []layer {
	def := s.opts.DefaultLanguage

	out := []layer{{src: s.opts.Default, locale: def, mandatory: true}}
	if s.opts.Plugin != nil {
		out = append(out, layer{src: s.opts.Plugin, locale: def, mandatory: true})
	}
	out = append(out, layer{src: s.opts.Custom, locale: def})

	if locale == def {
		return out
	}
	out = append(out,
		layer{src: s.opts.Default, locale: locale},
		layer{src: s.opts.Custom, locale: locale},
	)
	if s.opts.Plugin != nil {
		out = append(out, layer{src: s.opts.Plugin, locale: locale})
	}
	return out
}

func (s *Store) build(ctx context.Context, locale string) (Table, error) {
	merged := make(Table)
	for _, l := range s.layers(locale) {
		name := l.locale + ".ini"
		data, found, err := l.src.Read(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from %s: %w", name, l.src.Name(), err)
		}
		if !found {
			if l.mandatory {
				return nil, &domain.ConfigurationError{
					Msg: fmt.Sprintf("cannot find default language file %s in %s", name, l.src.Name()),
				}
			}
			continue
		}

		values, err := parseIni(l.src.Name()+"/"+name, data)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	return merged, nil
}

// Languages returns code -> display name, the union of the default and plugin
// language lists. Plugin names win on conflict.
func (s *Store) Languages(ctx context.Context) (map[string]string, error) {
	if !s.opts.Debug {
		s.mu.RLock()
		cached := s.langs
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
	}

	langs := make(map[string]string)
	for _, src := range []Source{s.opts.Default, s.opts.Plugin} {
		if src == nil {
			continue
		}
		data, found, err := src.Read(ctx, languageListFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read language list from %s: %w", src.Name(), err)
		}
		if !found {
			continue
		}
		values, err := parseIni(src.Name()+"/"+languageListFile, data)
		if err != nil {
			return nil, err
		}
		for code, name := range values {
			langs[code] = name
		}
	}
	if _, ok := langs[s.opts.DefaultLanguage]; !ok {
		langs[s.opts.DefaultLanguage] = s.opts.DefaultLanguage
	}

	if !s.opts.Debug {
		s.mu.Lock()
		s.langs = langs
		s.mu.Unlock()
	}
	return langs, nil
}

func (s *Store) IsValidLanguage(ctx context.Context, code string) bool {
	langs, err := s.Languages(ctx)
	if err != nil {
		return false
	}
	_, ok := langs[code]
	return ok
}

// Normalize maps unknown or empty locale codes to the default language.
func (s *Store) Normalize(ctx context.Context, code string) string {
	if code != "" && s.IsValidLanguage(ctx, code) {
		return code
	}
	return s.opts.DefaultLanguage
}

// Invalidate drops every cached table and the language list.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.tables = make(map[cacheKey]Table)
	s.langs = nil
	s.mu.Unlock()
}
