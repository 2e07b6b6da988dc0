// Package events is the in-process event and filter bus plugins hook into.
//
// Events are fire-and-forget; filters thread a value through every handler
// and return the result. Handlers run synchronously in registration order.
package events

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"

	"leantime-watchers/internal/domain"
)

type Name string

const (
	EntityNotify         Name = "domain.services.projects.notifyProjectUsers"
	SessionBuilt         Name = "domain.auth.services.auth.setUserSession.user_session_vars"
	MenuBuilt            Name = "domain.menu.repositories.menu.getMenuStructure.menuStructures"
	TemplatePathResolved Name = "core.template.getTemplatePath.template_path"
	LocaleTableBuilt     Name = "core.language.readIni.language_resources"
	PluginMiddleware     Name = "core.httpkernel.handle.plugins_middleware"
)

type (
	EntityNotifyHandler func(ctx context.Context, ev domain.EntityEvent)
	SessionFilter       func(ctx context.Context, s domain.Session) domain.Session
	MenuFilter          func(ctx context.Context, m domain.Menu) domain.Menu
	TemplatePathHandler func(ctx context.Context, p TemplatePath)
	LocaleTableFilter   func(ctx context.Context, p LocaleTable) map[string]string
	MiddlewareFilter    func(handlers []fiber.Handler) []fiber.Handler
)

// TemplatePath names a template that is about to be rendered.
type TemplatePath struct {
	Module string
	Name   string
	Path   string
}

// LocaleTable is a freshly merged translation table.
type LocaleTable struct {
	Slug     string
	Language string
	Table    map[string]string
}

type Bus struct {
	mu sync.RWMutex

	entityNotify []EntityNotifyHandler
	session      []SessionFilter
	menu         []MenuFilter
	templatePath []TemplatePathHandler
	localeTable  []LocaleTableFilter
	middleware   []MiddlewareFilter
}

func New() *Bus {
	return &Bus{}
}

func (b *Bus) OnEntityNotify(h EntityNotifyHandler) {
	b.mu.Lock()
	b.entityNotify = append(b.entityNotify, h)
	b.mu.Unlock()
}

func (b *Bus) OnSessionBuilt(f SessionFilter) {
	b.mu.Lock()
	b.session = append(b.session, f)
	b.mu.Unlock()
}

func (b *Bus) OnMenuBuilt(f MenuFilter) {
	b.mu.Lock()
	b.menu = append(b.menu, f)
	b.mu.Unlock()
}

func (b *Bus) OnTemplatePathResolved(h TemplatePathHandler) {
	b.mu.Lock()
	b.templatePath = append(b.templatePath, h)
	b.mu.Unlock()
}

func (b *Bus) OnLocaleTableBuilt(f LocaleTableFilter) {
	b.mu.Lock()
	b.localeTable = append(b.localeTable, f)
	b.mu.Unlock()
}

func (b *Bus) OnPluginMiddleware(f MiddlewareFilter) {
	b.mu.Lock()
	b.middleware = append(b.middleware, f)
	b.mu.Unlock()
}

func (b *Bus) EmitEntityNotify(ctx context.Context, ev domain.EntityEvent) {
	b.mu.RLock()
	hs := append([]EntityNotifyHandler(nil), b.entityNotify...)
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}

func (b *Bus) FilterSession(ctx context.Context, s domain.Session) domain.Session {
	b.mu.RLock()
	fs := append([]SessionFilter(nil), b.session...)
	b.mu.RUnlock()

	for _, f := range fs {
		s = f(ctx, s)
	}
	return s
}

func (b *Bus) FilterMenu(ctx context.Context, m domain.Menu) domain.Menu {
	b.mu.RLock()
	fs := append([]MenuFilter(nil), b.menu...)
	b.mu.RUnlock()

	for _, f := range fs {
		m = f(ctx, m)
	}
	return m
}

func (b *Bus) EmitTemplatePath(ctx context.Context, p TemplatePath) {
	b.mu.RLock()
	hs := append([]TemplatePathHandler(nil), b.templatePath...)
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, p)
	}
}

func (b *Bus) FilterLocaleTable(ctx context.Context, p LocaleTable) map[string]string {
	b.mu.RLock()
	fs := append([]LocaleTableFilter(nil), b.localeTable...)
	b.mu.RUnlock()

	for _, f := range fs {
		p.Table = f(ctx, p)
	}
	return p.Table
}

func (b *Bus) FilterMiddleware(handlers []fiber.Handler) []fiber.Handler {
	b.mu.RLock()
	fs := append([]MiddlewareFilter(nil), b.middleware...)
	b.mu.RUnlock()

	for _, f := range fs {
		handlers = f(handlers)
	}
	return handlers
}

// LocaleFilter adapts the bus to the signature i18n.Store expects.
func (b *Bus) LocaleFilter() func(ctx context.Context, slug, language string, table map[string]string) map[string]string {
	return func(ctx context.Context, slug, language string, table map[string]string) map[string]string {
		return b.FilterLocaleTable(ctx, LocaleTable{Slug: slug, Language: language, Table: table})
	}
}
