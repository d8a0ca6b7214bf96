package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"doggy-rescue/internal/domain"
)

type DogRepo struct{ s *Store }

func (r *DogRepo) Create(_ context.Context, d *domain.Dog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := r.s.now()
	d.CreatedAt, d.UpdatedAt = now, now
	r.s.dogs[d.ID] = *d
	return nil
}

func (r *DogRepo) FindByID(_ context.Context, id string) (*domain.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.dogs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r *DogRepo) List(_ context.Context, adopted *bool) ([]domain.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Dog, 0, len(r.s.dogs))
	for _, d := range r.s.dogs {
		if adopted != nil && d.Adopted != *adopted {
			continue
		}
		out = append(out, d)
	}
	newestFirst(out, func(d domain.Dog) time.Time { return d.CreatedAt }, func(d domain.Dog) string { return d.ID })
	return out, nil
}

func (r *DogRepo) Breeds(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, d := range r.s.dogs {
		if d.Breed == "" {
			continue
		}
		if _, ok := seen[d.Breed]; ok {
			continue
		}
		seen[d.Breed] = struct{}{}
		out = append(out, d.Breed)
	}
	sort.Strings(out)
	return out, nil
}

func (r *DogRepo) Update(_ context.Context, d *domain.Dog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.dogs[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *d
	next.Adopted = cur.Adopted
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = r.s.now()
	r.s.dogs[d.ID] = next
	d.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *DogRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.dogs[id]; !ok {
		return domain.ErrNotFound
	}
	for k := range r.s.requests {
		if k.DogID == id {
			return domain.ErrReferentialConflict
		}
	}
	delete(r.s.dogs, id)
	return nil
}
