package notification

import (
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/i18n"
	"leantime-watchers/internal/pkg/metrics"
	"leantime-watchers/internal/repository"
	"leantime-watchers/internal/service/queue"
	"leantime-watchers/internal/service/setting"
)

// Translators hands out a lookup bound to one locale. *i18n.Store satisfies it.
type Translators interface {
	Translator(ctx context.Context, locale string) (*i18n.Translator, error)
}

type Service interface {
	GetTargetUsers(ctx context.Context, typ, module string, moduleID int64) (*domain.NotificationValues, error)
	Render(ctx context.Context, values domain.NotificationValues) []domain.NotificationTarget
	SendNotifications(ctx context.Context, values domain.NotificationValues) bool
	HandleEntityNotify(ctx context.Context, ev domain.EntityEvent)
}

type service struct {
	ticketRepo  repository.TicketRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	watcherRepo repository.WatcherRepository
	settings    setting.Service
	queue       queue.Service
	translators Translators
	baseURL     string
}

func NewService(
	repos *repository.Repositories,
	settings setting.Service,
	queueService queue.Service,
	translators Translators,
	baseURL string,
) Service {
	return &service{
		ticketRepo:  repos.Ticket,
		projectRepo: repos.Project,
		userRepo:    repos.User,
		watcherRepo: repos.Watcher,
		settings:    settings,
		queue:       queueService,
		translators: translators,
		baseURL:     baseURL,
	}
}

// GetTargetUsers collects the stakeholders of an entity with their delivery
// preferences resolved. Tickets yield author, assignee and watchers; projects
// yield their project-level watchers.
func (s *service) GetTargetUsers(ctx context.Context, typ, module string, moduleID int64) (*domain.NotificationValues, error) {
	values := &domain.NotificationValues{Type: typ, Module: module, ID: moduleID}

	var userIDs []int64
	switch domain.NormalizeModule(module) {
	case domain.ModuleTickets:
		ticket, err := s.ticketRepo.GetByID(ctx, moduleID)
		if err != nil {
			return nil, fmt.Errorf("failed to get ticket: %w", err)
		}
		if ticket == nil {
			return nil, &domain.NotFoundError{Entity: "ticket", ID: moduleID}
		}
		values.ID = ticket.ID
		values.ProjectID = ticket.ProjectID
		values.Headline = ticket.Headline
		values.AuthorID = ticket.UserID

		userIDs = append(userIDs, ticket.UserID)
		if ticket.EditorID != 0 && ticket.EditorID != ticket.UserID {
			userIDs = append(userIDs, ticket.EditorID)
		}

		watchers, err := s.watcherRepo.ListByTicket(ctx, ticket.ID, domain.Unbounded)
		if err != nil {
			return nil, err
		}
		projectWatchers, err := s.watcherRepo.ListByProject(ctx, ticket.ProjectID, domain.Unbounded)
		if err != nil {
			return nil, err
		}
		userIDs = appendWatchers(userIDs, watchers)
		userIDs = appendWatchers(userIDs, projectWatchers)

	case domain.ModuleProjects:
		project, err := s.projectRepo.GetByID(ctx, moduleID)
		if err != nil {
			return nil, fmt.Errorf("failed to get project: %w", err)
		}
		if project == nil {
			return nil, &domain.NotFoundError{Entity: "project", ID: moduleID}
		}
		values.ProjectID = project.ID
		values.Headline = project.Name

		watchers, err := s.watcherRepo.ListByProject(ctx, project.ID, domain.Unbounded)
		if err != nil {
			return nil, err
		}
		userIDs = appendWatchers(userIDs, watchers)
	}

	for _, id := range dedupe(userIDs) {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			log.Warn().Int64("user_id", id).Msg("notification target user not found")
			continue
		}
		values.Users = append(values.Users, s.recipient(ctx, *user))
	}

	return values, nil
}

func (s *service) recipient(ctx context.Context, user domain.User) domain.Recipient {
	r := domain.Recipient{User: user}
	if user.Notifications {
		r.MessageFrequency = s.settings.GetOr(ctx, "",
			setting.UserKey(user.ID, "messageFrequency"),
			setting.CompanyKey("messageFrequency"),
		)
	}
	r.Language = s.settings.GetOr(ctx, i18n.DefaultLanguage,
		setting.UserKey(user.ID, "language"),
		setting.CompanyKey("language"),
	)
	return r
}

// Render builds one localized target per user. The author is still included.
// Message holds HTML, so user supplied values are escaped; Subject is plain text.
func (s *service) Render(ctx context.Context, values domain.NotificationValues) []domain.NotificationTarget {
	prefix := values.Type + "_" + values.Module
	link := values.URL
	if link == "" {
		link = s.entityURL(values.Module, values.ID)
	}
	headline := template.HTMLEscapeString(values.Headline)

	targets := make([]domain.NotificationTarget, 0, len(values.Users))
	for _, user := range values.Users {
		tr, err := s.translators.Translator(ctx, user.Language)
		if err != nil {
			metrics.NotificationFailures.WithLabelValues("render").Inc()
			log.Error().Err(err).Int64("user_id", user.ID).Str("language", user.Language).Msg("failed to load translations")
			continue
		}

		target := domain.NotificationTarget{
			Recipient: user,
			Subject:   tr.Sprintf(prefix+"_subject", values.ID, values.Headline),
			Message:   tr.Sprintf(prefix+"_message", template.HTMLEscapeString(user.FirstName), headline),
			Module:    values.Module,
			Type:      values.Type,
			EntityID:  values.ID,
			ProjectID: values.ProjectID,
			AuthorID:  values.AuthorID,
		}
		if link != "" {
			target.CTA = &domain.CallToAction{URL: link, Label: tr.T(prefix + "_cta")}
		}
		targets = append(targets, target)
	}
	return targets
}

// SendNotifications renders and queues one message per target, skipping the
// author. It reports false only for values without a module or type.
func (s *service) SendNotifications(ctx context.Context, values domain.NotificationValues) bool {
	if values.Module == "" || values.Type == "" {
		return false
	}

	for _, target := range s.Render(ctx, values) {
		if target.Recipient.ID == target.AuthorID {
			continue
		}

		if err := s.queue.Enqueue(ctx, []int64{target.Recipient.ID}, target.Body(), target.Subject, target.ProjectID); err != nil {
			metrics.NotificationFailures.WithLabelValues("enqueue").Inc()
			log.Error().Err(err).
				Int64("user_id", target.Recipient.ID).
				Str("module", values.Module).
				Int64("entity_id", values.ID).
				Msg("failed to queue notification")
			continue
		}
		metrics.NotificationsEnqueued.WithLabelValues(values.Module, values.Type).Inc()
	}

	return true
}

// HandleEntityNotify is the entity notify listener. Errors end here.
func (s *service) HandleEntityNotify(ctx context.Context, ev domain.EntityEvent) {
	values, err := s.GetTargetUsers(ctx, ev.Type, ev.Module, ev.ModuleID)
	if err != nil {
		metrics.NotificationFailures.WithLabelValues("targets").Inc()
		log.Warn().Err(err).
			Str("module", ev.Module).
			Int64("module_id", ev.ModuleID).
			Msg("failed to collect notification targets")
		return
	}
	if ev.AuthorID != 0 {
		values.AuthorID = ev.AuthorID
	}
	if ev.URL != "" {
		values.URL = ev.URL
	}

	if !s.SendNotifications(ctx, *values) {
		log.Warn().Str("module", ev.Module).Str("type", ev.Type).Msg("notification values incomplete")
	}
}

func (s *service) entityURL(module string, id int64) string {
	switch domain.NormalizeModule(module) {
	case domain.ModuleTickets:
		return s.baseURL + "/dashboard/home#/tickets/showTicket/" + strconv.FormatInt(id, 10)
	case domain.ModuleProjects:
		return s.baseURL + "/projects/changeCurrentProject/" + strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

func appendWatchers(ids []int64, watchers []domain.Watcher) []int64 {
	for _, w := range watchers {
		ids = append(ids, w.UserID)
	}
	return ids
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
