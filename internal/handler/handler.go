package handler

import (
	"leantime-watchers/internal/pkg/events"
	"leantime-watchers/internal/service"
)

type Handlers struct {
	Watcher  *WatcherHandler
	Settings *SettingsHandler
	Menu     *MenuHandler
	Event    *EventHandler
}

func NewHandlers(services *service.Services, bus *events.Bus, views *Views) *Handlers {
	return &Handlers{
		Watcher:  NewWatcherHandler(services.Watcher, bus, views),
		Settings: NewSettingsHandler(services.Watcher, views),
		Menu:     NewMenuHandler(bus),
		Event:    NewEventHandler(bus),
	}
}
