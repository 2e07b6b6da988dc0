package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/middleware"
	"leantime-watchers/internal/service/watcher"
)

type SettingsHandler struct {
	watcherService watcher.Service
	views          *Views
}

func NewSettingsHandler(watcherService watcher.Service, views *Views) *SettingsHandler {
	return &SettingsHandler{watcherService: watcherService, views: views}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	watches, err := h.watcherService.ListWatchedByUser(c.UserContext(), middleware.GetCurrentUserID(c), domain.Unbounded)
	if err != nil {
		return err
	}

	return h.views.Page(c, middleware.GetTranslator(c), "settings.html", fiber.Map{
		"Watches": watches,
	})
}

// Post accepts the settings form. There is nothing to store yet.
func (h *SettingsHandler) Post(c *fiber.Ctx) error {
	log.Debug().Int64("user_id", middleware.GetCurrentUserID(c)).Msg("watchers settings submitted")
	return c.Redirect("/watchers/settings", fiber.StatusSeeOther)
}
