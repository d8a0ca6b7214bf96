package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"doggy-rescue/internal/domain"
)

type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"size:36;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (Session) TableName() string { return "user_sessions" }

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// SessionStore persists server-side sessions. Get fails with domain.ErrNotFound.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

type Sessions struct {
	Store SessionStore
	TTL   time.Duration
	now   func() time.Time
}

func NewSessions(store SessionStore, ttl time.Duration) *Sessions {
	return &Sessions{Store: store, TTL: ttl, now: time.Now}
}

func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (m *Sessions) Create(ctx context.Context, userID string) (Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return Session{}, err
	}
	now := m.now()
	s := Session{ID: id, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(m.TTL)}
	if err := m.Store.Save(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Lookup drops expired sessions it runs into.
func (m *Sessions) Lookup(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, domain.ErrNotFound
	}
	s, err := m.Store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(m.now()) {
		_ = m.Store.Delete(ctx, id)
		return Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *Sessions) Revoke(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	err := m.Store.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (m *Sessions) Prune(ctx context.Context) (int64, error) {
	return m.Store.PruneExpired(ctx, m.now())
}
