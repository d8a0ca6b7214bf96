package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/core/cache"
	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/media"
)

const (
	keyDogsAvailable = "dogs:available"
	keyDogsAdopted   = "dogs:adopted"
	keyDogsBreeds    = "dogs:breeds"
)

// DogInput carries raw form values. Text and numeric fields that are nil or
// blank are left unchanged on update; Flags always apply (checkbox semantics).
type DogInput struct {
	Name        *string
	Age         *string
	Weight      *string
	Sex         *string
	Breed       *string
	Description *string
	Latitude    *string
	Longitude   *string
	Flags       domain.DogFlags
	Photo       *media.Image
}

type CatalogService struct {
	dogs     domain.DogRepository
	cache    *cache.Cache
	ttl      time.Duration
	uploader media.Uploader
	log      *zap.Logger
}

func NewCatalogService(dogs domain.DogRepository, c *cache.Cache, ttl time.Duration, up media.Uploader, l *zap.Logger) *CatalogService {
	if c == nil {
		c = &cache.Cache{}
	}
	return &CatalogService{dogs: dogs, cache: c, ttl: ttl, uploader: up, log: l}
}

// apply copies the non-blank fields of in onto d.
func (in DogInput) apply(d *domain.Dog) error {
	if v, ok := trimmed(in.Name); ok {
		d.Name = v
	}
	if v, ok := trimmed(in.Age); ok {
		f, err := domain.ParseNonNegative("dogAge", v)
		if err != nil {
			return err
		}
		d.Age = f
	}
	if v, ok := trimmed(in.Weight); ok {
		f, err := domain.ParseNonNegative("dogWeight", v)
		if err != nil {
			return err
		}
		d.Weight = f
	}
	if v, ok := trimmed(in.Sex); ok {
		d.Sex = v
	}
	if v, ok := trimmed(in.Breed); ok {
		d.Breed = v
	}
	if v, ok := trimmed(in.Description); ok {
		d.Description = v
	}
	if v, ok := trimmed(in.Latitude); ok {
		f, err := domain.ParseCoordinate("latitude", v, 90)
		if err != nil {
			return err
		}
		d.Latitude = f
	}
	if v, ok := trimmed(in.Longitude); ok {
		f, err := domain.ParseCoordinate("longitude", v, 180)
		if err != nil {
			return err
		}
		d.Longitude = f
	}
	d.ApplyFlags(in.Flags)
	return nil
}

func (s *CatalogService) Create(ctx context.Context, actor auth.Identity, in DogInput) (*domain.Dog, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	required := []struct {
		field string
		v     *string
	}{{"dogName", in.Name}, {"dogAge", in.Age}, {"dogWeight", in.Weight}}
	for _, r := range required {
		if _, ok := trimmed(r.v); !ok {
			return nil, domain.Invalid(r.field, "is required")
		}
	}
	d := &domain.Dog{}
	if err := in.apply(d); err != nil {
		return nil, err
	}
	d.Adopted = false
	if in.Photo != nil {
		url, err := s.uploader.Upload(ctx, *in.Photo)
		if err != nil {
			return nil, err
		}
		d.PhotoURL = url
	}
	if err := s.dogs.Create(ctx, d); err != nil {
		return nil, err
	}
	s.InvalidateLists(ctx)
	s.log.Info("dog created", zap.String("dogId", d.ID), zap.String("by", actor.UserID))
	return d, nil
}

func (s *CatalogService) Update(ctx context.Context, actor auth.Identity, id string, in DogInput) (*domain.Dog, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	d, err := s.dogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(d); err != nil {
		return nil, err
	}
	if in.Photo != nil {
		url, err := s.uploader.Upload(ctx, *in.Photo)
		if err != nil {
			return nil, err
		}
		d.PhotoURL = url
	}
	if err := s.dogs.Update(ctx, d); err != nil {
		return nil, err
	}
	s.InvalidateLists(ctx)
	return d, nil
}

func (s *CatalogService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.dogs.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateLists(ctx)
	s.log.Info("dog deleted", zap.String("dogId", id), zap.String("by", actor.UserID))
	return nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Dog, error) {
	return s.dogs.FindByID(ctx, id)
}

// GetForEdit is the admin view of a dog before an update.
func (s *CatalogService) GetForEdit(ctx context.Context, actor auth.Identity, id string) (*domain.Dog, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.dogs.FindByID(ctx, id)
}

func (s *CatalogService) list(ctx context.Context, key string, adopted bool) ([]domain.Dog, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) ([]domain.Dog, error) {
		return s.dogs.List(ctx, &adopted)
	})
}

func (s *CatalogService) ListAvailable(ctx context.Context) ([]domain.Dog, error) {
	return s.list(ctx, keyDogsAvailable, false)
}

func (s *CatalogService) ListAdopted(ctx context.Context) ([]domain.Dog, error) {
	return s.list(ctx, keyDogsAdopted, true)
}

func (s *CatalogService) Breeds(ctx context.Context) ([]string, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyDogsBreeds, s.ttl, s.dogs.Breeds)
}

// InvalidateLists drops cached listings after any catalog or adoption write.
func (s *CatalogService) InvalidateLists(ctx context.Context) {
	s.cache.Invalidate(ctx, keyDogsAvailable, keyDogsAdopted, keyDogsBreeds)
}
