package watcher

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/metrics"
	"leantime-watchers/internal/repository"
)

type Service interface {
	IsWatching(ctx context.Context, projectID, ticketID, userID int64) (bool, error)
	Toggle(ctx context.Context, projectID, ticketID, userID int64) (bool, error)

	ListWatchersOfTicket(ctx context.Context, ticketID int64, limit int) ([]domain.Watcher, error)
	ListWatchersOfProject(ctx context.Context, projectID int64, limit int) ([]domain.Watcher, error)
	ListWatchedByUser(ctx context.Context, userID int64, limit int) ([]domain.Watcher, error)

	TicketStatus(ctx context.Context, ticketID, userID int64) (bool, error)
	ToggleTicket(ctx context.Context, ticketID, userID int64) (bool, error)
	ProjectStatus(ctx context.Context, projectID, userID int64) (bool, error)
	ToggleProject(ctx context.Context, projectID, userID int64) (bool, error)
}

type service struct {
	watcherRepo repository.WatcherRepository
	ticketRepo  repository.TicketRepository
	projectRepo repository.ProjectRepository
}

func NewService(
	watcherRepo repository.WatcherRepository,
	ticketRepo repository.TicketRepository,
	projectRepo repository.ProjectRepository,
) Service {
	return &service{
		watcherRepo: watcherRepo,
		ticketRepo:  ticketRepo,
		projectRepo: projectRepo,
	}
}

func (s *service) IsWatching(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	return s.watcherRepo.IsWatching(ctx, projectID, ticketID, userID)
}

// Toggle removes an existing relation or creates a missing one and reports
// success. Both statements are idempotent, so two racing toggles cannot
// leave a duplicate row behind.
func (s *service) Toggle(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	watching, err := s.watcherRepo.IsWatching(ctx, projectID, ticketID, userID)
	if err != nil {
		return false, err
	}

	if watching {
		ok, err := s.watcherRepo.Remove(ctx, projectID, ticketID, userID)
		if err != nil {
			return false, err
		}
		metrics.WatchToggles.WithLabelValues("unwatch").Inc()
		log.Debug().Int64("project_id", projectID).Int64("ticket_id", ticketID).Int64("user_id", userID).Msg("stopped watching")
		return ok, nil
	}

	ok, err := s.watcherRepo.Add(ctx, projectID, ticketID, userID)
	if err != nil {
		return false, err
	}
	metrics.WatchToggles.WithLabelValues("watch").Inc()
	log.Debug().Int64("project_id", projectID).Int64("ticket_id", ticketID).Int64("user_id", userID).Msg("started watching")
	return ok, nil
}

func (s *service) ListWatchersOfTicket(ctx context.Context, ticketID int64, limit int) ([]domain.Watcher, error) {
	return s.watcherRepo.ListByTicket(ctx, ticketID, limit)
}

func (s *service) ListWatchersOfProject(ctx context.Context, projectID int64, limit int) ([]domain.Watcher, error) {
	return s.watcherRepo.ListByProject(ctx, projectID, limit)
}

func (s *service) ListWatchedByUser(ctx context.Context, userID int64, limit int) ([]domain.Watcher, error) {
	return s.watcherRepo.ListByUser(ctx, userID, limit)
}

func (s *service) ticket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, &domain.NotFoundError{Entity: "ticket", ID: ticketID}
	}
	return ticket, nil
}

func (s *service) project(ctx context.Context, projectID int64) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, &domain.NotFoundError{Entity: "project", ID: projectID}
	}
	return project, nil
}

func (s *service) TicketStatus(ctx context.Context, ticketID, userID int64) (bool, error) {
	ticket, err := s.ticket(ctx, ticketID)
	if err != nil {
		return false, err
	}
	return s.watcherRepo.IsWatching(ctx, ticket.ProjectID, ticket.ID, userID)
}

// ToggleTicket toggles and returns the state read back afterwards.
func (s *service) ToggleTicket(ctx context.Context, ticketID, userID int64) (bool, error) {
	ticket, err := s.ticket(ctx, ticketID)
	if err != nil {
		return false, err
	}
	if _, err := s.Toggle(ctx, ticket.ProjectID, ticket.ID, userID); err != nil {
		return false, err
	}
	return s.watcherRepo.IsWatching(ctx, ticket.ProjectID, ticket.ID, userID)
}

func (s *service) ProjectStatus(ctx context.Context, projectID, userID int64) (bool, error) {
	project, err := s.project(ctx, projectID)
	if err != nil {
		return false, err
	}
	return s.watcherRepo.IsWatching(ctx, project.ID, domain.ProjectLevel, userID)
}

func (s *service) ToggleProject(ctx context.Context, projectID, userID int64) (bool, error) {
	project, err := s.project(ctx, projectID)
	if err != nil {
		return false, err
	}
	if _, err := s.Toggle(ctx, project.ID, domain.ProjectLevel, userID); err != nil {
		return false, err
	}
	return s.watcherRepo.IsWatching(ctx, project.ID, domain.ProjectLevel, userID)
}
