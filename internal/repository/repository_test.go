package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leantime-watchers/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestWatcherRepository_IsWatching(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWatcherRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(q("SELECT EXISTS")).
		WithArgs(int64(3), int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	watching, err := repo.IsWatching(ctx, 3, 42, 1)
	require.NoError(t, err)
	assert.True(t, watching)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatcherRepository_AddIsConflictSafe(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWatcherRepository(db)

	mock.ExpectExec(q("ON CONFLICT (project_id, ticket_id, user_id) DO NOTHING")).
		WithArgs(int64(3), int64(42), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Add(context.Background(), 3, 42, 1)
	require.NoError(t, err)
	assert.True(t, ok, "a row inserted concurrently still counts as watching")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatcherRepository_RemoveStorageError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWatcherRepository(db)

	mock.ExpectExec(q("DELETE FROM zp_plugin_watchers")).
		WithArgs(int64(3), int64(42), int64(1)).
		WillReturnError(errors.New("connection reset"))

	ok, err := repo.Remove(context.Background(), 3, 42, 1)
	assert.False(t, ok)
	var storageErr *domain.StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "delete watcher", storageErr.Op)
}

func TestWatcherRepository_Lists(t *testing.T) {
	cols := []string{"project_id", "ticket_id", "user_id"}

	t.Run("ticket watchers join the ticket's project", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewWatcherRepository(db)

		mock.ExpectQuery(q("JOIN zp_tickets AS t ON t.id = w.ticket_id AND t.project_id = w.project_id")).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 42, 1).AddRow(3, 42, 5))

		watchers, err := repo.ListByTicket(context.Background(), 42, domain.Unbounded)
		require.NoError(t, err)
		assert.Equal(t, []domain.Watcher{
			{ProjectID: 3, TicketID: 42, UserID: 1},
			{ProjectID: 3, TicketID: 42, UserID: 5},
		}, watchers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("project watchers are project level only and limited", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewWatcherRepository(db)

		mock.ExpectQuery(q("WHERE w.project_id = $1 AND w.ticket_id = 0 ORDER BY w.user_id ASC LIMIT $2")).
			WithArgs(int64(3), 10).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 0, 2))

		watchers, err := repo.ListByProject(context.Background(), 3, 10)
		require.NoError(t, err)
		assert.Equal(t, []domain.Watcher{{ProjectID: 3, TicketID: 0, UserID: 2}}, watchers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("watched by user", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewWatcherRepository(db)

		mock.ExpectQuery(q("WHERE w.user_id = $1 ORDER BY w.project_id ASC, w.ticket_id ASC")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(cols))

		watchers, err := repo.ListByUser(context.Background(), 1, domain.Unbounded)
		require.NoError(t, err)
		assert.Empty(t, watchers)
		assert.NotNil(t, watchers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTicketRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTicketRepository(db)
	cols := []string{"id", "project_id", "headline", "user_id", "editor_id"}

	mock.ExpectQuery(q("FROM zp_tickets WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(7, 3, "Fix login", 10, 11))
	mock.ExpectQuery(q("FROM zp_tickets WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(cols))

	ticket, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &domain.Ticket{ID: 7, ProjectID: 3, Headline: "Fix login", UserID: 10, EditorID: 11}, ticket)

	missing, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSettingRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(q("SELECT value FROM zp_settings WHERE key = $1")).
		WithArgs("usersettings.11.language").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("ja-JP"))
	mock.ExpectQuery(q("SELECT value FROM zp_settings WHERE key = $1")).
		WithArgs("companysettings.language").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(q("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value")).
		WithArgs("plugin_watchers.db-version", "0.1.0").
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, found, err := repo.Get(ctx, "usersettings.11.language")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ja-JP", v)

	_, found, err = repo.Get(ctx, "companysettings.language")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "plugin_watchers.db-version", "0.1.0"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepository_InsertIsAtomic(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO zp_queue")).
		WithArgs("h1", ChannelEmail, int64(11), "subject", "body", int64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q("INSERT INTO zp_queue")).
		WithArgs("h2", ChannelEmail, int64(12), "subject", "body", int64(3)).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), []domain.QueuedMessage{
		{MsgHash: "h1", Channel: ChannelEmail, UserID: 11, Subject: "subject", Message: "body", ProjectID: 3},
		{MsgHash: "h2", Channel: ChannelEmail, UserID: 12, Subject: "subject", Message: "body", ProjectID: 3},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepository_ListByChannelPagesByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db)

	mock.ExpectQuery(q("WHERE channel = $1 AND user_id > $2")+"(?s:.*)"+q("LIMIT $3")).
		WithArgs(ChannelEmail, int64(11), 500).
		WillReturnRows(sqlmock.NewRows([]string{"msghash", "channel", "user_id", "subject", "message", "project_id"}).
			AddRow("h3", ChannelEmail, int64(12), "s", "m", int64(3)))

	msgs, err := repo.ListByChannel(context.Background(), ChannelEmail, 11, 500)

	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(12), msgs[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
