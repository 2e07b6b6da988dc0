package handler

import (
	"github.com/gofiber/fiber/v2"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/events"
)

type MenuHandler struct {
	bus *events.Bus
}

func NewMenuHandler(bus *events.Bus) *MenuHandler {
	return &MenuHandler{bus: bus}
}

func (h *MenuHandler) Get(c *fiber.Ctx) error {
	menu := h.bus.FilterMenu(c.UserContext(), domain.DefaultMenu())
	return c.Status(fiber.StatusOK).JSON(menu)
}
