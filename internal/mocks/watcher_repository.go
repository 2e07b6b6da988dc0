package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leantime-watchers/internal/domain"
)

type WatcherRepository struct {
	mock.Mock
}

func (m *WatcherRepository) IsWatching(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, ticketID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherRepository) Add(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, ticketID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherRepository) Remove(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, ticketID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherRepository) ListByTicket(ctx context.Context, ticketID int64, limit int) ([]domain.Watcher, error) {
	args := m.Called(ctx, ticketID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Watcher), args.Error(1)
}

func (m *WatcherRepository) ListByProject(ctx context.Context, projectID int64, limit int) ([]domain.Watcher, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Watcher), args.Error(1)
}

func (m *WatcherRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Watcher, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Watcher), args.Error(1)
}
