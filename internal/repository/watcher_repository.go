package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"leantime-watchers/internal/domain"
)

type WatcherRepository interface {
	IsWatching(ctx context.Context, projectID, ticketID, userID int64) (bool, error)
	Add(ctx context.Context, projectID, ticketID, userID int64) (bool, error)
	Remove(ctx context.Context, projectID, ticketID, userID int64) (bool, error)
	ListByTicket(ctx context.Context, ticketID int64, limit int) ([]domain.Watcher, error)
	ListByProject(ctx context.Context, projectID int64, limit int) ([]domain.Watcher, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Watcher, error)
}

type watcherRepository struct {
	db *sqlx.DB
}

func NewWatcherRepository(db *sqlx.DB) WatcherRepository {
	return &watcherRepository{db: db}
}

func (r *watcherRepository) IsWatching(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ` + WatchersTable + `
			WHERE project_id = $1 AND ticket_id = $2 AND user_id = $3
		)`

	if err := r.db.GetContext(ctx, &exists, query, projectID, ticketID, userID); err != nil {
		return false, domain.NewStorageError("check watcher", err)
	}
	return exists, nil
}

// Add relies on the primary key: a concurrent duplicate insert is a no-op,
// never a second row.
func (r *watcherRepository) Add(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	query := `
		INSERT INTO ` + WatchersTable + ` (project_id, ticket_id, user_id, created_at, modified_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (project_id, ticket_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, projectID, ticketID, userID); err != nil {
		return false, domain.NewStorageError("insert watcher", err)
	}
	return true, nil
}

func (r *watcherRepository) Remove(ctx context.Context, projectID, ticketID, userID int64) (bool, error) {
	query := `
		DELETE FROM ` + WatchersTable + `
		WHERE project_id = $1 AND ticket_id = $2 AND user_id = $3`

	if _, err := r.db.ExecContext(ctx, query, projectID, ticketID, userID); err != nil {
		return false, domain.NewStorageError("delete watcher", err)
	}
	return true, nil
}

func (r *watcherRepository) ListByTicket(ctx context.Context, ticketID int64, limit int) ([]domain.Watcher, error) {
	query := `
		SELECT w.project_id, w.ticket_id, w.user_id
		FROM ` + WatchersTable + ` AS w
		JOIN zp_tickets AS t ON t.id = w.ticket_id AND t.project_id = w.project_id
		WHERE w.ticket_id = $1
		ORDER BY w.user_id ASC`

	return r.list(ctx, "list ticket watchers", query, limit, ticketID)
}

func (r *watcherRepository) ListByProject(ctx context.Context, projectID int64, limit int) ([]domain.Watcher, error) {
	query := `
		SELECT w.project_id, w.ticket_id, w.user_id
		FROM ` + WatchersTable + ` AS w
		JOIN zp_projects AS p ON p.id = w.project_id
		WHERE w.project_id = $1 AND w.ticket_id = 0
		ORDER BY w.user_id ASC`

	return r.list(ctx, "list project watchers", query, limit, projectID)
}

func (r *watcherRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Watcher, error) {
	query := `
		SELECT w.project_id, w.ticket_id, w.user_id
		FROM ` + WatchersTable + ` AS w
		WHERE w.user_id = $1
		ORDER BY w.project_id ASC, w.ticket_id ASC`

	return r.list(ctx, "list watched by user", query, limit, userID)
}

func (r *watcherRepository) list(ctx context.Context, op, query string, limit int, id int64) ([]domain.Watcher, error) {
	args := []interface{}{id}
	if clause, ok := limitClause(limit, 2); ok {
		query += clause
		args = append(args, limit)
	}

	watchers := []domain.Watcher{}
	if err := r.db.SelectContext(ctx, &watchers, query, args...); err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return watchers, nil
}
