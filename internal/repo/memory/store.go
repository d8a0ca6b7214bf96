// Package memory keeps every table in process memory behind one lock. It
// backs the "memory" database driver and the service and router tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	dogs     map[string]domain.Dog
	requests map[domain.RequestKey]domain.AdoptionRequest
	sessions map[string]auth.Session
	now      func() time.Time
}

func New() *Store {
	return &Store{
		users:    map[string]domain.User{},
		dogs:     map[string]domain.Dog{},
		requests: map[domain.RequestKey]domain.AdoptionRequest{},
		sessions: map[string]auth.Session{},
		now:      time.Now,
	}
}

func (s *Store) Users() *UserRepo         { return &UserRepo{s: s} }
func (s *Store) Dogs() *DogRepo           { return &DogRepo{s: s} }
func (s *Store) Adoptions() *AdoptionRepo { return &AdoptionRepo{s: s} }
func (s *Store) Sessions() *SessionStore  { return &SessionStore{s: s} }

func newestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) < id(items[j])
	})
}
