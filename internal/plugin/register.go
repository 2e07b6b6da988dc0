// Package plugin wires the watchers plugin into the host event bus.
package plugin

import (
	"context"
	"maps"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/events"
	"leantime-watchers/internal/pkg/i18n"
	"leantime-watchers/internal/service/notification"
)

const (
	Slug = "watchers"

	menuType     = "default"
	menuPosition = 10
)

// MenuItem is the settings entry appended to the administration submenu.
var MenuItem = domain.MenuItem{
	Type:    "item",
	Module:  "SendToWatchers",
	Title:   "Send Notifications to Watchers",
	Icon:    "fa fa-fw fa-cogs",
	Tooltip: "Send Notifications to Watchers",
	Href:    "/watchers/settings",
	Active:  []string{"settings"},
}

type Deps struct {
	Dispatcher notification.Service
	Locales    *i18n.Store
	// Middleware is appended to the host middleware list in order.
	Middleware []fiber.Handler
}

type Plugin struct {
	deps Deps
}

// Register hooks every plugin handler onto bus and returns the plugin.
func Register(bus *events.Bus, deps Deps) *Plugin {
	p := &Plugin{deps: deps}

	bus.OnEntityNotify(p.onEntityNotify)
	bus.OnSessionBuilt(p.onSessionBuilt)
	bus.OnMenuBuilt(p.onMenuBuilt)
	bus.OnTemplatePathResolved(p.onTemplatePath)
	bus.OnLocaleTableBuilt(p.onLocaleTable)
	bus.OnPluginMiddleware(p.onMiddleware)

	log.Info().Str("plugin", Slug).Msg("plugin registered")
	return p
}

func (p *Plugin) onEntityNotify(ctx context.Context, ev domain.EntityEvent) {
	log.Debug().
		Str("type", ev.Type).
		Str("module", ev.Module).
		Int64("module_id", ev.ModuleID).
		Msg("entity notify received")
	p.deps.Dispatcher.HandleEntityNotify(ctx, ev)
}

func (p *Plugin) onSessionBuilt(_ context.Context, s domain.Session) domain.Session {
	log.Debug().Int64("user_id", s.UserID).Str("language", s.Language).Msg("user session built")
	return s
}

func (p *Plugin) onMenuBuilt(_ context.Context, m domain.Menu) domain.Menu {
	if m == nil {
		m = domain.Menu{}
	}
	if m[menuType] == nil {
		m[menuType] = map[int]domain.MenuItem{}
	}

	entry := m[menuType][menuPosition]
	entry.Submenu = append(entry.Submenu, MenuItem)
	m[menuType][menuPosition] = entry
	return m
}

func (p *Plugin) onTemplatePath(_ context.Context, tp events.TemplatePath) {
	log.Debug().Str("module", tp.Module).Str("name", tp.Name).Str("path", tp.Path).Msg("template path resolved")
}

// onLocaleTable folds the plugin strings for the same language into tables
// built by other stores.
func (p *Plugin) onLocaleTable(ctx context.Context, lt events.LocaleTable) map[string]string {
	if p.deps.Locales == nil || lt.Slug == p.deps.Locales.Slug() {
		return lt.Table
	}

	own, err := p.deps.Locales.Resolve(ctx, p.deps.Locales.Normalize(ctx, lt.Language))
	if err != nil {
		log.Warn().Err(err).Str("language", lt.Language).Msg("failed to load plugin translations")
		return lt.Table
	}

	merged := make(map[string]string, len(lt.Table)+len(own))
	maps.Copy(merged, lt.Table)
	maps.Copy(merged, own)
	return merged
}

func (p *Plugin) onMiddleware(handlers []fiber.Handler) []fiber.Handler {
	return append(handlers, p.deps.Middleware...)
}
