package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/config"
	"leantime-watchers/internal/handler"
	"leantime-watchers/internal/middleware"
	"leantime-watchers/internal/pkg/events"
	"leantime-watchers/internal/pkg/i18n"
	"leantime-watchers/internal/pkg/logging"
	"leantime-watchers/internal/plugin"
	"leantime-watchers/internal/repository"
	"leantime-watchers/internal/service"
)

const usage = `usage: api [command]

commands:
  serve                 run the HTTP server (default)
  install               create the watchers schema
  uninstall             drop the watchers schema
  migrate               apply pending schema updates
  clear-cache           broadcast a language cache reset
  token <user-id> [ttl] print an access token for a user`

const hostSlug = "core"

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, running without shared cache")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	bus := events.New()
	pluginStore, hostStore := newLocaleStores(cfg, bus)

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, pluginStore, cfg)

	plugin.Register(bus, plugin.Deps{
		Dispatcher: services.Notification,
		Locales:    pluginStore,
		Middleware: []fiber.Handler{
			middleware.AuthRequired(services.Auth, bus),
			middleware.LanguageAssets(hostStore, cfg.DefaultLanguage),
		},
	})

	switch cmd {
	case "install":
		exitOn(services.Lifecycle.Install(ctx), "install")
	case "uninstall":
		exitOn(services.Lifecycle.Uninstall(ctx), "uninstall")
	case "migrate":
		exitOn(services.Lifecycle.EnsureSchemaVersion(ctx), "migrate")
	case "clear-cache":
		pluginStore.Invalidate()
		hostStore.Invalidate()
		exitOn(i18n.PublishInvalidation(ctx, rdb, "*"), "clear-cache")
	case "token":
		issueToken(services, os.Args[2:])
	case "serve":
		serve(ctx, cfg, rdb, bus, services, pluginStore, hostStore)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func newLocaleStores(cfg *config.Config, bus *events.Bus) (*i18n.Store, *i18n.Store) {
	var custom i18n.Source = i18n.Dir(cfg.LanguageCustomDir)
	if cfg.LanguageCustomBucket != "" {
		client, err := config.NewMinIOClient(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to MinIO, using the custom language dir")
		} else {
			custom = i18n.NewBucket(client, cfg.LanguageCustomBucket, "custom")
		}
	}

	pluginStore := i18n.NewStore(i18n.Options{
		Slug:            plugin.Slug,
		DefaultLanguage: cfg.DefaultLanguage,
		Default:         i18n.Dir(cfg.LanguageDefaultDir),
		Custom:          custom,
		Plugin:          i18n.Dir(cfg.LanguagePluginDir),
		Debug:           cfg.Debug,
		Highlight:       cfg.LanguageDebugHighlight,
		Filter:          bus.LocaleFilter(),
	})

	hostStore := i18n.NewStore(i18n.Options{
		Slug:            hostSlug,
		DefaultLanguage: cfg.DefaultLanguage,
		Default:         i18n.Dir(cfg.LanguageDefaultDir),
		Custom:          custom,
		Debug:           cfg.Debug,
		Highlight:       cfg.LanguageDebugHighlight,
		Filter:          bus.LocaleFilter(),
	})

	return pluginStore, hostStore
}

func serve(
	ctx context.Context,
	cfg *config.Config,
	rdb *redis.Client,
	bus *events.Bus,
	services *service.Services,
	stores ...*i18n.Store,
) {
	if err := services.Lifecycle.EnsureSchemaVersion(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to update watchers schema")
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.QueueFlushSpec, func() {
		sent, err := services.Queue.Flush(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Queue flush failed")
			return
		}
		if sent > 0 {
			log.Info().Int("sent", sent).Msg("Queue flushed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.QueueFlushSpec).Msg("Invalid queue flush schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	for _, store := range stores {
		store := store
		if cfg.LanguageWatch {
			go func() {
				if err := store.Watch(ctx, cfg.LanguageDefaultDir, cfg.LanguageCustomDir, cfg.LanguagePluginDir); err != nil {
					log.Error().Err(err).Str("slug", store.Slug()).Msg("Language watcher stopped")
				}
			}()
		}
		if rdb != nil {
			go func() {
				if err := store.Subscribe(ctx, rdb); err != nil {
					log.Error().Err(err).Str("slug", store.Slug()).Msg("Language invalidation subscriber stopped")
				}
			}()
		}
	}

	handlers := handler.NewHandlers(services, bus, handler.NewViews(cfg.TemplatePath))

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	setupRoutes(app, handlers, bus.FilterMiddleware(nil))

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, pluginMiddleware []fiber.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	watchers := app.Group("/watchers", pluginMiddleware...)
	watchers.Get("/settings", h.Settings.Get)
	watchers.Post("/settings", h.Settings.Post)
	watchers.Get("/ticket-watchers", h.Watcher.TicketStatus)
	watchers.Post("/ticket-watchers", h.Watcher.ToggleTicket)
	watchers.Get("/project-watchers", h.Watcher.ProjectStatus)
	watchers.Post("/project-watchers", h.Watcher.ToggleProject)
	watchers.Get("/watching", h.Watcher.Watching)
	watchers.Get("/partials/watch-ticket", h.Watcher.WatchPartial)

	v1 := app.Group("/api/v1", pluginMiddleware...)
	v1.Get("/menu", h.Menu.Get)
	v1.Post("/events/notify", h.Event.Notify)
}

func issueToken(services *service.Services, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || userID <= 0 {
		log.Fatal().Str("user_id", args[0]).Msg("Invalid user id")
	}
	ttl := 24 * time.Hour
	if len(args) > 1 {
		if ttl, err = time.ParseDuration(args[1]); err != nil {
			log.Fatal().Err(err).Msg("Invalid token ttl")
		}
	}

	token, err := services.Auth.IssueToken(userID, ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}
	fmt.Println(token)
}

func exitOn(err error, command string) {
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Command failed")
	}
	log.Info().Str("command", command).Msg("Command completed")
}
