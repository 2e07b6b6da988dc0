package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/pkg/i18n"
)

const TranslatorContextKey = "translator"

// LanguageAssets binds a translator for the session language, or the
// configured default, to the request.
func LanguageAssets(store *i18n.Store, defaultLanguage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		language := defaultLanguage
		if session := GetSession(c); session != nil && session.Language != "" {
			language = session.Language
		}

		tr, err := store.Translator(c.UserContext(), language)
		if err != nil {
			log.Warn().Err(err).Str("language", language).Msg("failed to load language assets")
			tr = i18n.NewTranslator(nil, store.Normalize(c.UserContext(), language), store.DefaultLanguage(), false)
		}
		c.Locals(TranslatorContextKey, tr)

		return c.Next()
	}
}

// GetTranslator never returns nil; without LanguageAssets it echoes keys.
func GetTranslator(c *fiber.Ctx) *i18n.Translator {
	if tr, ok := c.Locals(TranslatorContextKey).(*i18n.Translator); ok {
		return tr
	}
	return i18n.NewTranslator(nil, i18n.DefaultLanguage, i18n.DefaultLanguage, false)
}
