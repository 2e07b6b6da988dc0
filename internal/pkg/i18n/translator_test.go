package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leantime-watchers/internal/domain"
)

func TestTranslator_Lookup(t *testing.T) {
	catalog := Catalog{
		"both":    {"en-US": "Both EN", "ja-JP": "両方"},
		"en.only": {"en-US": "English only"},
	}
	tr := NewTranslator(catalog, "ja-JP", "en-US", false)

	assert.Equal(t, "両方", tr.Lookup("both", ""))
	assert.Equal(t, "English only", tr.Lookup("en.only", ""))
	assert.Equal(t, "fallback", tr.Lookup("missing", "fallback"))
	assert.Equal(t, "missing", tr.Lookup("missing", ""))

	highlighted := NewTranslator(catalog, "ja-JP", "en-US", true)
	assert.Equal(t, `<span style="color: red; font-weight:bold;">missing</span>`, highlighted.T("missing"))
	assert.Equal(t, "両方", highlighted.T("both"))
}

func TestStore_Translator(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "languagelist.ini", "en-US = English\nja-JP = Japanese\n")
	write(t, l.def, "en-US.ini", "subject = \"[#%[1]d] %[2]s\"\nonly.en = \"EN\"\n")
	write(t, l.plugin, "en-US.ini", "plugin = \"plugin en\"\n")
	write(t, l.plugin, "ja-JP.ini", "subject = \"[#%[1]d] %[2]s が更新されました\"\n")
	s := l.store(false)
	ctx := context.Background()

	tr, err := s.Translator(ctx, "ja-JP")
	require.NoError(t, err)
	assert.Equal(t, "ja-JP", tr.Language())
	assert.Equal(t, "[#7] Fix login が更新されました", tr.Sprintf("subject", 7, "Fix login"))
	assert.Equal(t, "EN", tr.T("only.en"))

	unknown, err := s.Translator(ctx, "xx-XX")
	require.NoError(t, err)
	assert.Equal(t, "en-US", unknown.Language())
	assert.Equal(t, "[#7] Fix login", unknown.Sprintf("subject", 7, "Fix login"))

	assert.Equal(t, "plugin en", Translate(ctx, s, "ja-JP", "plugin"))
}

func TestStore_TranslatorIgnoresBrokenOtherLocale(t *testing.T) {
	l := newLayout(t)
	write(t, l.def, "languagelist.ini", "en-US = English\nja-JP = Japanese\nde-DE = Deutsch\n")
	write(t, l.def, "en-US.ini", "greeting = \"Hello\"\n")
	write(t, l.plugin, "en-US.ini", "plugin = \"plugin en\"\n")
	write(t, l.plugin, "ja-JP.ini", "greeting = \"こんにちは\"\n")
	write(t, l.custom, "de-DE.ini", "[broken\n")
	s := l.store(false)
	ctx := context.Background()

	en, err := s.Translator(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "Hello", en.T("greeting"))

	ja, err := s.Translator(ctx, "ja-JP")
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", ja.T("greeting"))
	assert.Equal(t, "plugin en", ja.T("plugin"))

	_, err = s.Translator(ctx, "de-DE")
	var pe *domain.ParseError
	assert.ErrorAs(t, err, &pe)
}
