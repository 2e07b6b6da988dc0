package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"leantime-watchers/internal/domain"
)

const ChannelEmail = "email"

type QueueRepository interface {
	Insert(ctx context.Context, msgs []domain.QueuedMessage) error
	ListByChannel(ctx context.Context, channel string, afterUserID int64, limit int) ([]domain.QueuedMessage, error)
	DeleteByHashes(ctx context.Context, hashes []string) error
}

type queueRepository struct {
	db *sqlx.DB
}

func NewQueueRepository(db *sqlx.DB) QueueRepository {
	return &queueRepository{db: db}
}

// Insert writes all rows in one transaction so a recipient list is queued
// whole or not at all.
func (r *queueRepository) Insert(ctx context.Context, msgs []domain.QueuedMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("begin queue insert", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO zp_queue (msghash, channel, user_id, subject, message, thedate, project_id)
		VALUES (:msghash, :channel, :user_id, :subject, :message, NOW(), :project_id)`

	for _, m := range msgs {
		if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
			return domain.NewStorageError(fmt.Sprintf("queue message for user %d", m.UserID), err)
		}
	}

	return domain.NewStorageError("commit queue insert", tx.Commit())
}

// ListByChannel pages through the queue by recipient: only rows of users
// after afterUserID are returned.
func (r *queueRepository) ListByChannel(ctx context.Context, channel string, afterUserID int64, limit int) ([]domain.QueuedMessage, error) {
	query := `
		SELECT msghash, channel, user_id, subject, message, project_id
		FROM zp_queue
		WHERE channel = $1 AND user_id > $2
		ORDER BY user_id ASC, thedate ASC`
	args := []interface{}{channel, afterUserID}
	if clause, ok := limitClause(limit, 3); ok {
		query += clause
		args = append(args, limit)
	}

	msgs := []domain.QueuedMessage{}
	if err := r.db.SelectContext(ctx, &msgs, query, args...); err != nil {
		return nil, domain.NewStorageError("list queue", err)
	}
	return msgs, nil
}

func (r *queueRepository) DeleteByHashes(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM zp_queue WHERE msghash = ANY($1)`, pq.Array(hashes))
	return domain.NewStorageError("delete queue", err)
}
