package memory

import (
	"context"
	"time"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
)

type SessionStore struct{ s *Store }

func (r *SessionStore) Save(_ context.Context, sess auth.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[sess.ID] = sess
	return nil
}

func (r *SessionStore) Get(_ context.Context, id string) (auth.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return auth.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

func (r *SessionStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r *SessionStore) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.Expired(now) {
			delete(r.s.sessions, id)
			n++
		}
	}
	return n, nil
}
