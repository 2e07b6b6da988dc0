package watcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/mocks"
)

type triple struct{ project, ticket, user int64 }

// memWatchers keeps relations in a set keyed by the primary key triple.
type memWatchers struct {
	rows map[triple]bool
}

func (m *memWatchers) IsWatching(_ context.Context, p, t, u int64) (bool, error) {
	return m.rows[triple{p, t, u}], nil
}

func (m *memWatchers) Add(_ context.Context, p, t, u int64) (bool, error) {
	m.rows[triple{p, t, u}] = true
	return true, nil
}

func (m *memWatchers) Remove(_ context.Context, p, t, u int64) (bool, error) {
	delete(m.rows, triple{p, t, u})
	return true, nil
}

func (m *memWatchers) ListByTicket(context.Context, int64, int) ([]domain.Watcher, error) {
	return nil, nil
}

func (m *memWatchers) ListByProject(context.Context, int64, int) ([]domain.Watcher, error) {
	return nil, nil
}

func (m *memWatchers) ListByUser(context.Context, int64, int) ([]domain.Watcher, error) {
	return nil, nil
}

type fixture struct {
	watchers *mocks.WatcherRepository
	tickets  *mocks.TicketRepository
	projects *mocks.ProjectRepository
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		watchers: new(mocks.WatcherRepository),
		tickets:  new(mocks.TicketRepository),
		projects: new(mocks.ProjectRepository),
	}
	f.svc = NewService(f.watchers, f.tickets, f.projects)
	return f
}

func TestToggle_AddsWhenNotWatching(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.watchers.On("IsWatching", ctx, int64(3), int64(42), int64(1)).Return(false, nil).Once()
	f.watchers.On("Add", ctx, int64(3), int64(42), int64(1)).Return(true, nil).Once()

	ok, err := f.svc.Toggle(ctx, 3, 42, 1)

	require.NoError(t, err)
	assert.True(t, ok)
	f.watchers.AssertExpectations(t)
	f.watchers.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_RemovesWhenWatching(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.watchers.On("IsWatching", ctx, int64(3), int64(0), int64(1)).Return(true, nil).Once()
	f.watchers.On("Remove", ctx, int64(3), int64(0), int64(1)).Return(true, nil).Once()

	ok, err := f.svc.Toggle(ctx, 3, domain.ProjectLevel, 1)

	require.NoError(t, err)
	assert.True(t, ok)
	f.watchers.AssertExpectations(t)
}

func TestToggle_StorageError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	storageErr := &domain.StorageError{Op: "is watching", Err: errors.New("conn reset")}

	f.watchers.On("IsWatching", ctx, int64(3), int64(42), int64(1)).Return(false, storageErr)

	_, err := f.svc.Toggle(ctx, 3, 42, 1)

	var target *domain.StorageError
	assert.ErrorAs(t, err, &target)
	f.watchers.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleTicket_ReadsStateBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(&domain.Ticket{ID: 42, ProjectID: 3}, nil)
	f.watchers.On("IsWatching", ctx, int64(3), int64(42), int64(1)).Return(false, nil).Once()
	f.watchers.On("Add", ctx, int64(3), int64(42), int64(1)).Return(true, nil).Once()
	f.watchers.On("IsWatching", ctx, int64(3), int64(42), int64(1)).Return(true, nil).Once()

	watching, err := f.svc.ToggleTicket(ctx, 42, 1)

	require.NoError(t, err)
	assert.True(t, watching)
	f.watchers.AssertExpectations(t)
}

func TestTicketStatus_UnknownTicket(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(99)).Return(nil, nil)

	_, err := f.svc.TicketStatus(ctx, 99, 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.watchers.AssertNotCalled(t, "IsWatching", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectStatus_UsesProjectLevelRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.projects.On("GetByID", ctx, int64(3)).Return(&domain.Project{ID: 3, Name: "Apollo"}, nil)
	f.watchers.On("IsWatching", ctx, int64(3), domain.ProjectLevel, int64(1)).Return(true, nil)

	watching, err := f.svc.ProjectStatus(ctx, 3, 1)

	require.NoError(t, err)
	assert.True(t, watching)
}

func TestToggleProject_UnknownProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.projects.On("GetByID", ctx, int64(5)).Return(nil, nil)

	_, err := f.svc.ToggleProject(ctx, 5, 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListWatchedByUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	want := []domain.Watcher{{ProjectID: 3, TicketID: 0, UserID: 1}}

	f.watchers.On("ListByUser", ctx, int64(1), 10).Return(want, nil)

	got, err := f.svc.ListWatchedByUser(ctx, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestToggle_TwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		ticket  int64
		initial bool
	}{
		{"ticket not watched", 42, false},
		{"ticket watched", 42, true},
		{"project not watched", domain.ProjectLevel, false},
		{"project watched", domain.ProjectLevel, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memWatchers{rows: map[triple]bool{}}
			if tc.initial {
				repo.rows[triple{3, tc.ticket, 1}] = true
			}
			svc := NewService(repo, new(mocks.TicketRepository), new(mocks.ProjectRepository))

			for i := 0; i < 2; i++ {
				ok, err := svc.Toggle(ctx, 3, tc.ticket, 1)
				require.NoError(t, err)
				require.True(t, ok)
			}

			watching, err := svc.IsWatching(ctx, 3, tc.ticket, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.initial, watching)
			assert.LessOrEqual(t, len(repo.rows), 1)
		})
	}
}
