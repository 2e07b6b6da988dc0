package handler

import (
	"github.com/gofiber/fiber/v2"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/middleware"
	"leantime-watchers/internal/pkg/events"
)

type EventHandler struct {
	bus *events.Bus
}

func NewEventHandler(bus *events.Bus) *EventHandler {
	return &EventHandler{bus: bus}
}

// Notify emits an entity notify event. Dispatch problems never fail the
// request.
func (h *EventHandler) Notify(c *fiber.Ctx) error {
	var ev domain.EntityEvent
	if err := c.BodyParser(&ev); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateStruct(ev); err != nil {
		return err
	}

	h.bus.EmitEntityNotify(c.UserContext(), ev)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Notification dispatched",
	})
}
