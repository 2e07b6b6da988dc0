package domain

import "context"

type User struct {
	ID            int64  `json:"id" db:"id"`
	FirstName     string `json:"firstname" db:"firstname"`
	LastName      string `json:"lastname" db:"lastname"`
	Email         string `json:"username" db:"username"`
	Notifications bool   `json:"notifications" db:"notifications"`
}

// Session is the request-scoped view of the signed-in user.
type Session struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Language  string `json:"language"`
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
