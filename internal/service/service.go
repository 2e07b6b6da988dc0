package service

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"leantime-watchers/internal/config"
	"leantime-watchers/internal/repository"
	"leantime-watchers/internal/service/auth"
	"leantime-watchers/internal/service/email"
	"leantime-watchers/internal/service/lifecycle"
	"leantime-watchers/internal/service/notification"
	"leantime-watchers/internal/service/queue"
	"leantime-watchers/internal/service/setting"
	"leantime-watchers/internal/service/watcher"
)

type Services struct {
	Auth         auth.Service
	Setting      setting.Service
	Watcher      watcher.Service
	Email        email.Service
	Queue        queue.Service
	Notification notification.Service
	Lifecycle    lifecycle.Service
}

func NewServices(
	db *sqlx.DB,
	repos *repository.Repositories,
	redis *redis.Client,
	translators notification.Translators,
	cfg *config.Config,
) *Services {
	settingService := setting.NewService(repos.Setting, redis, cfg.SettingsCacheTTL)
	emailService := email.NewService(cfg)
	queueService := queue.NewService(repos.Queue, repos.User, emailService)

	return &Services{
		Auth:         auth.NewService(repos.User, settingService, cfg),
		Setting:      settingService,
		Watcher:      watcher.NewService(repos.Watcher, repos.Ticket, repos.Project),
		Email:        emailService,
		Queue:        queueService,
		Notification: notification.NewService(repos, settingService, queueService, translators, cfg.BaseURL),
		Lifecycle:    lifecycle.NewService(db, repos.Setting),
	}
}
