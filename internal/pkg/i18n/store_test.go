package i18n

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leantime-watchers/internal/domain"
)

type layout struct {
	def, custom, plugin string
}

func newLayout(t *testing.T) layout {
	t.Helper()
	root := t.TempDir()
	l := layout{
		def:    filepath.Join(root, "app"),
		custom: filepath.Join(root, "custom"),
		plugin: filepath.Join(root, "plugin"),
	}
	for _, d := range []string{l.def, l.custom, l.plugin} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	return l
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func (l layout) store(debug bool) *Store {
	return NewStore(Options{
		Slug:    "watchers",
		Default: Dir(l.def),
		Custom:  Dir(l.custom),
		Plugin:  Dir(l.plugin),
		Debug:   debug,
	})
}

func TestResolve_DefaultLocalePrecedence(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "en-US.ini", "greeting = \"Hello\"\nshared = \"core\"\nonly.core = \"core only\"\n")
	write(t, l.plugin, "en-US.ini", "shared = \"plugin\"\ncustomised = \"plugin\"\n")
	write(t, l.custom, "en-US.ini", "customised = \"custom\"\n")

	table, err := l.store(false).Resolve(context.Background(), "en-US")
	require.NoError(t, err)

	assert.Equal(t, "Hello", table["greeting"])
	assert.Equal(t, "plugin", table["shared"])
	assert.Equal(t, "custom", table["customised"])
	assert.Equal(t, "core only", table["only.core"])
}

func TestResolve_TargetLocalePrecedence(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "en-US.ini", "a = \"en core\"\nb = \"en core\"\nc = \"en core\"\nd = \"en core\"\n")
	write(t, l.plugin, "en-US.ini", "x = \"en plugin\"\n")
	write(t, l.def, "ja-JP.ini", "b = \"ja core\"\nc = \"ja core\"\nd = \"ja core\"\n")
	write(t, l.custom, "ja-JP.ini", "c = \"ja custom\"\nd = \"ja custom\"\n")
	write(t, l.plugin, "ja-JP.ini", "d = \"ja plugin\"\n")

	table, err := l.store(false).Resolve(context.Background(), "ja-JP")
	require.NoError(t, err)

	assert.Equal(t, "en core", table["a"])
	assert.Equal(t, "ja core", table["b"])
	assert.Equal(t, "ja custom", table["c"])
	assert.Equal(t, "ja plugin", table["d"])
	assert.Equal(t, "en plugin", table["x"])
}

func TestResolve_MandatoryDefaultFiles(t *testing.T) {
	t.Run("missing core default", func(t *testing.T) {
		l := newLayout(t)
		write(t, l.plugin, "en-US.ini", "x = y\n")

		_, err := l.store(false).Resolve(context.Background(), "en-US")
		var cfgErr *domain.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("missing plugin default", func(t *testing.T) {
		l := newLayout(t)
		write(t, l.def, "en-US.ini", "x = y\n")

		_, err := l.store(false).Resolve(context.Background(), "ja-JP")
		var cfgErr *domain.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("host store needs no plugin file", func(t *testing.T) {
		l := newLayout(t)
		write(t, l.def, "en-US.ini", "x = y\n")

		s := NewStore(Options{Slug: "core", Default: Dir(l.def), Custom: Dir(l.custom)})
		table, err := s.Resolve(context.Background(), "fr-FR")
		require.NoError(t, err)
		assert.Equal(t, "y", table["x"])
	})
}

func TestResolve_ParseError(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "en-US.ini", "x = y\n")
	write(t, l.plugin, "en-US.ini", "[unterminated\n")

	_, err := l.store(false).Resolve(context.Background(), "en-US")
	var pe *domain.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestResolve_CacheAndDebug(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "en-US.ini", "k = \"v1\"\n")
	write(t, l.plugin, "en-US.ini", "p = \"p\"\n")

	cached := l.store(false)
	live := l.store(true)
	ctx := context.Background()

	first, err := cached.Resolve(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "v1", first["k"])

	write(t, l.def, "en-US.ini", "k = \"v2\"\n")

	again, err := cached.Resolve(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "v1", again["k"], "cached table is served until invalidated")

	fresh, err := live.Resolve(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "v2", fresh["k"], "debug mode reads files every time")

	cached.Invalidate()
	after, err := cached.Resolve(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "v2", after["k"])
	assert.Equal(t, "v1", first["k"], "published snapshots are never mutated")
}

func TestResolve_Filter(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "en-US.ini", "k = v\n")
	write(t, l.plugin, "en-US.ini", "p = p\n")

	calls := 0
	filter := func(_ context.Context, slug, language string, table map[string]string) map[string]string {
		calls++
		assert.Equal(t, "watchers", slug)
		assert.Equal(t, "en-US", language)
		out := make(map[string]string, len(table)+1)
		for k, v := range table {
			out[k] = v
		}
		out["filtered"] = "yes"
		return out
	}
	s := NewStore(Options{Slug: "watchers", Default: Dir(l.def), Plugin: Dir(l.plugin), Filter: filter})

	for i := 0; i < 2; i++ {
		table, err := s.Resolve(context.Background(), "en-US")
		require.NoError(t, err)
		assert.Equal(t, "yes", table["filtered"])
	}
	assert.Equal(t, 1, calls)
}

func TestLanguages(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "languagelist.ini", "en-US = \"English\"\nde-DE = \"Deutsch\"\n")
	write(t, l.plugin, "languagelist.ini", "ja-JP = \"日本語\"\nen-US = \"English (US)\"\n")
	s := l.store(false)
	ctx := context.Background()

	langs, err := s.Languages(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"en-US": "English (US)",
		"de-DE": "Deutsch",
		"ja-JP": "日本語",
	}, langs)

	assert.True(t, s.IsValidLanguage(ctx, "ja-JP"))
	assert.Equal(t, "en-US", s.Normalize(ctx, "xx-XX"))
	assert.Equal(t, "en-US", s.Normalize(ctx, ""))
	assert.Equal(t, "de-DE", s.Normalize(ctx, "de-DE"))
}

func TestHandleInvalidation(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "en-US.ini", "k = v1\n")
	write(t, l.plugin, "en-US.ini", "p = p\n")
	s := l.store(false)
	ctx := context.Background()

	_, err := s.Resolve(ctx, "en-US")
	require.NoError(t, err)
	write(t, l.def, "en-US.ini", "k = v2\n")

	s.handleInvalidation("other-plugin")
	table, _ := s.Resolve(ctx, "en-US")
	assert.Equal(t, "v1", table["k"])

	s.handleInvalidation("watchers")
	table, _ = s.Resolve(ctx, "en-US")
	assert.Equal(t, "v2", table["k"])
}
