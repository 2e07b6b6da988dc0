// Package queue is the host message queue: notifications are written to
// zp_queue and delivered later by Flush.
package queue

import (
	"context"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/metrics"
	"leantime-watchers/internal/repository"
	"leantime-watchers/internal/service/email"
)

const flushBatch = 500

type Service interface {
	Enqueue(ctx context.Context, recipientIDs []int64, body, subject string, projectID int64) error
	Flush(ctx context.Context) (int, error)
}

type service struct {
	queueRepo repository.QueueRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
}

func NewService(queueRepo repository.QueueRepository, userRepo repository.UserRepository, emailSvc email.Service) Service {
	return &service{
		queueRepo: queueRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

func (s *service) Enqueue(ctx context.Context, recipientIDs []int64, body, subject string, projectID int64) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	msgs := make([]domain.QueuedMessage, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		msgs = append(msgs, domain.QueuedMessage{
			MsgHash:   uuid.NewString(),
			Channel:   repository.ChannelEmail,
			UserID:    id,
			Subject:   subject,
			Message:   body,
			ProjectID: projectID,
		})
	}

	if err := s.queueRepo.Insert(ctx, msgs); err != nil {
		return fmt.Errorf("failed to queue message: %w", err)
	}
	return nil
}

// Flush sends one digest email per recipient and deletes the delivered rows.
// The queue is read in pages by recipient, so rows that stay queued never
// hold back later users. Rows of unknown users or users without an email
// address are dropped; rows whose send failed are kept for the next run.
func (s *service) Flush(ctx context.Context) (int, error) {
	sent := 0
	var after int64
	for {
		msgs, err := s.queueRepo.ListByChannel(ctx, repository.ChannelEmail, after, flushBatch)
		if err != nil {
			return sent, err
		}
		if len(msgs) == 0 {
			return sent, nil
		}

		n, err := s.flushPage(ctx, msgs)
		sent += n
		if err != nil {
			return sent, err
		}
		if len(msgs) < flushBatch {
			return sent, nil
		}
		after = msgs[len(msgs)-1].UserID
	}
}

func (s *service) flushPage(ctx context.Context, msgs []domain.QueuedMessage) (int, error) {
	byUser := make(map[int64][]domain.QueuedMessage)
	var order []int64
	for _, m := range msgs {
		if _, ok := byUser[m.UserID]; !ok {
			order = append(order, m.UserID)
		}
		byUser[m.UserID] = append(byUser[m.UserID], m)
	}

	users, err := s.userRepo.GetByIDs(ctx, order)
	if err != nil {
		return 0, err
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	sent := 0
	var dropped []string
	for _, userID := range order {
		pending := byUser[userID]
		hashes := make([]string, 0, len(pending))
		for _, m := range pending {
			hashes = append(hashes, m.MsgHash)
		}

		user, ok := byID[userID]
		if !ok || user.Email == "" {
			log.Warn().Int64("user_id", userID).Int("messages", len(hashes)).Msg("dropping queued messages for user without email address")
			dropped = append(dropped, hashes...)
			continue
		}

		items := make([]email.DigestItem, 0, len(pending))
		for _, m := range pending {
			items = append(items, email.DigestItem{Subject: m.Subject, Message: template.HTML(m.Message)})
		}

		if err := s.emailSvc.SendNotificationDigest(ctx, user.Email, user.FirstName, items); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to send notification digest")
			continue
		}
		if err := s.queueRepo.DeleteByHashes(ctx, hashes); err != nil {
			return sent, err
		}
		sent += len(hashes)
		metrics.QueueSent.Add(float64(len(hashes)))
	}

	if len(dropped) > 0 {
		if err := s.queueRepo.DeleteByHashes(ctx, dropped); err != nil {
			return sent, err
		}
	}
	return sent, nil
}
