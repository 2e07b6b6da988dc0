package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")

	err := NewStorageError("insert watcher", cause)
	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, NewStorageError("noop", nil))

	nf := &NotFoundError{Entity: "ticket", ID: 42}
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.Equal(t, "ticket 42 not found", nf.Error())
}

func TestNotificationTarget_Body(t *testing.T) {
	target := NotificationTarget{Message: "Hello"}
	assert.Equal(t, "Hello", target.Body())

	target.CTA = &CallToAction{URL: "https://pm.example.com/x", Label: "View"}
	assert.Equal(t, "Hello <a href='https://pm.example.com/x'>View</a>", target.Body())
}

func TestSessionContext(t *testing.T) {
	ctx := WithSession(t.Context(), &Session{UserID: 3})
	s, ok := SessionFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(3), s.UserID)

	_, ok = SessionFrom(t.Context())
	assert.False(t, ok)
}
