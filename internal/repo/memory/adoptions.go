package memory

import (
	"context"
	"time"

	"doggy-rescue/internal/domain"
)

type AdoptionRepo struct{ s *Store }

func (r *AdoptionRepo) Create(_ context.Context, req *domain.AdoptionRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[req.UserID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.dogs[req.DogID]; !ok {
		return domain.ErrNotFound
	}
	k := req.Key()
	if _, ok := r.s.requests[k]; ok {
		return domain.ErrDuplicateRequest
	}
	now := r.s.now()
	req.RequestApproved = nil
	req.CreatedAt, req.UpdatedAt = now, now
	stored := *req
	stored.User, stored.Dog = nil, nil
	r.s.requests[k] = stored
	return nil
}

// withRelations must be called with the lock held.
func (r *AdoptionRepo) withRelations(req domain.AdoptionRequest) domain.AdoptionRequest {
	if u, ok := r.s.users[req.UserID]; ok {
		req.User = &u
	}
	if d, ok := r.s.dogs[req.DogID]; ok {
		req.Dog = &d
	}
	return req
}

func (r *AdoptionRepo) Get(_ context.Context, key domain.RequestKey) (*domain.AdoptionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.requests[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := r.withRelations(req)
	return &out, nil
}

func (r *AdoptionRepo) List(_ context.Context, f domain.AdoptionFilter) ([]domain.AdoptionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.AdoptionRequest{}
	for _, req := range r.s.requests {
		if f.Status != domain.StatusAll && f.Status != "" && req.Status() != f.Status {
			continue
		}
		if f.UserID != "" && req.UserID != f.UserID {
			continue
		}
		out = append(out, r.withRelations(req))
	}
	newestFirst(out,
		func(a domain.AdoptionRequest) time.Time { return a.CreatedAt },
		func(a domain.AdoptionRequest) string { return a.Key().String() })
	return out, nil
}

// decide must be called with the write lock held.
func (r *AdoptionRepo) decide(key domain.RequestKey, approved bool) error {
	req, ok := r.s.requests[key]
	if !ok {
		return domain.ErrNotFound
	}
	if req.RequestApproved != nil {
		return domain.ErrAlreadyDecided
	}
	v := approved
	req.RequestApproved = &v
	req.UpdatedAt = r.s.now()
	r.s.requests[key] = req
	return nil
}

func (r *AdoptionRepo) Approve(_ context.Context, key domain.RequestKey, denySiblings bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dog, ok := r.s.dogs[key.DogID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.decide(key, true); err != nil {
		return err
	}
	dog.Adopted = true
	dog.UpdatedAt = r.s.now()
	r.s.dogs[key.DogID] = dog
	if denySiblings {
		for k, req := range r.s.requests {
			if k.DogID == key.DogID && k.UserID != key.UserID && req.RequestApproved == nil {
				_ = r.decide(k, false)
			}
		}
	}
	return nil
}

func (r *AdoptionRepo) Deny(_ context.Context, key domain.RequestKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.decide(key, false)
}
