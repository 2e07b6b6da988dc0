package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/middleware"
	"leantime-watchers/internal/pkg/events"
	"leantime-watchers/internal/service/watcher"
)

const watchPartial = "partials/watch_ticket.html"

type WatcherHandler struct {
	watcherService watcher.Service
	bus            *events.Bus
	views          *Views
}

func NewWatcherHandler(watcherService watcher.Service, bus *events.Bus, views *Views) *WatcherHandler {
	return &WatcherHandler{watcherService: watcherService, bus: bus, views: views}
}

// parseWatchQuery returns false when id is missing or not a positive integer.
func parseWatchQuery(c *fiber.Ctx) (domain.WatchQuery, bool) {
	var q domain.WatchQuery
	if err := c.QueryParser(&q); err != nil {
		return q, false
	}
	if err := validateStruct(q); err != nil {
		return q, false
	}
	return q, true
}

// statusJSON writes the legacy {status, watchStatus} body. The HTTP status is
// always 200; callers read the body status.
func statusJSON(c *fiber.Ctx, status int, watching *bool) error {
	return c.Status(fiber.StatusOK).JSON(domain.WatchStatusResponse{Status: status, WatchStatus: watching})
}

func (h *WatcherHandler) failure(c *fiber.Ctx, err error, id int64) error {
	if !errors.Is(err, domain.ErrNotFound) {
		log.Error().Err(err).Int64("id", id).Str("path", c.Path()).Msg("watch request failed")
	}
	return statusJSON(c, fiber.StatusInternalServerError, nil)
}

func (h *WatcherHandler) TicketStatus(c *fiber.Ctx) error {
	q, ok := parseWatchQuery(c)
	if !ok {
		return statusJSON(c, fiber.StatusBadRequest, nil)
	}

	watching, err := h.watcherService.TicketStatus(c.UserContext(), q.ID, middleware.GetCurrentUserID(c))
	if err != nil {
		return h.failure(c, err, q.ID)
	}
	return statusJSON(c, fiber.StatusOK, &watching)
}

func (h *WatcherHandler) ToggleTicket(c *fiber.Ctx) error {
	q, ok := parseWatchQuery(c)
	if !ok {
		return statusJSON(c, fiber.StatusBadRequest, nil)
	}

	watching, err := h.watcherService.ToggleTicket(c.UserContext(), q.ID, middleware.GetCurrentUserID(c))
	if err != nil {
		return h.failure(c, err, q.ID)
	}
	return statusJSON(c, fiber.StatusOK, &watching)
}

func (h *WatcherHandler) ProjectStatus(c *fiber.Ctx) error {
	q, ok := parseWatchQuery(c)
	if !ok {
		return statusJSON(c, fiber.StatusBadRequest, nil)
	}

	watching, err := h.watcherService.ProjectStatus(c.UserContext(), q.ID, middleware.GetCurrentUserID(c))
	if err != nil {
		return h.failure(c, err, q.ID)
	}
	return statusJSON(c, fiber.StatusOK, &watching)
}

func (h *WatcherHandler) ToggleProject(c *fiber.Ctx) error {
	q, ok := parseWatchQuery(c)
	if !ok {
		return statusJSON(c, fiber.StatusBadRequest, nil)
	}

	watching, err := h.watcherService.ToggleProject(c.UserContext(), q.ID, middleware.GetCurrentUserID(c))
	if err != nil {
		return h.failure(c, err, q.ID)
	}
	return statusJSON(c, fiber.StatusOK, &watching)
}

func (h *WatcherHandler) Watching(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", domain.Unbounded)

	watches, err := h.watcherService.ListWatchedByUser(c.UserContext(), middleware.GetCurrentUserID(c), limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": watches,
	})
}

// WatchPartial renders the watch toggle shown in the ticket modal tabs.
func (h *WatcherHandler) WatchPartial(c *fiber.Ctx) error {
	q, ok := parseWatchQuery(c)
	if !ok {
		return middleware.BadRequest("Invalid ticket ID")
	}

	watching, err := h.watcherService.TicketStatus(c.UserContext(), q.ID, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	h.bus.EmitTemplatePath(c.UserContext(), events.TemplatePath{
		Module: "watchers",
		Name:   "partials.watchTicket",
		Path:   h.views.Path(watchPartial),
	})

	return h.views.Partial(c, middleware.GetTranslator(c), watchPartial, fiber.Map{
		"TicketID": q.ID,
		"Watching": watching,
	})
}
