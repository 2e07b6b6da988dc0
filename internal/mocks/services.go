package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/service/email"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendNotificationDigest(ctx context.Context, toEmail, recipientName string, items []email.DigestItem) error {
	args := m.Called(ctx, toEmail, recipientName, items)
	return args.Error(0)
}

type QueueService struct {
	mock.Mock
}

func (m *QueueService) Enqueue(ctx context.Context, recipientIDs []int64, body, subject string, projectID int64) error {
	args := m.Called(ctx, recipientIDs, body, subject, projectID)
	return args.Error(0)
}

func (m *QueueService) Flush(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type SettingService struct {
	mock.Mock
}

func (m *SettingService) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *SettingService) GetOr(ctx context.Context, fallback string, keys ...string) string {
	args := m.Called(ctx, fallback, keys)
	return args.String(0)
}

func (m *SettingService) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type WatcherService struct {
	mock.Mock
}

func (m *WatcherService) IsWatching(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, ticketID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherService) Toggle(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, ticketID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherService) ListWatchersOfTicket(ctx context.Context, ticketID int64, limit int) ([]domain.Watcher, error) {
	args := m.Called(ctx, ticketID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Watcher), args.Error(1)
}

func (m *WatcherService) ListWatchersOfProject(ctx context.Context, projectID int64, limit int) ([]domain.Watcher, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Watcher), args.Error(1)
}

func (m *WatcherService) ListWatchedByUser(ctx context.Context, userID int64, limit int) ([]domain.Watcher, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Watcher), args.Error(1)
}

func (m *WatcherService) TicketStatus(ctx context.Context, ticketID, userID int64) (bool, error) {
	args := m.Called(ctx, ticketID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherService) ToggleTicket(ctx context.Context, ticketID, userID int64) (bool, error) {
	args := m.Called(ctx, ticketID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherService) ProjectStatus(ctx context.Context, projectID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *WatcherService) ToggleProject(ctx context.Context, projectID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) GetTargetUsers(ctx context.Context, typ, module string, moduleID int64) (*domain.NotificationValues, error) {
	args := m.Called(ctx, typ, module, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationValues), args.Error(1)
}

func (m *NotificationService) Render(ctx context.Context, values domain.NotificationValues) []domain.NotificationTarget {
	args := m.Called(ctx, values)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.NotificationTarget)
}

func (m *NotificationService) SendNotifications(ctx context.Context, values domain.NotificationValues) bool {
	args := m.Called(ctx, values)
	return args.Bool(0)
}

func (m *NotificationService) HandleEntityNotify(ctx context.Context, ev domain.EntityEvent) {
	m.Called(ctx, ev)
}
