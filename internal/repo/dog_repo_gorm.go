package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"doggy-rescue/internal/domain"
)

// adopted is written by the adoption workflow only.
var dogEditableColumns = []string{
	"name", "age", "weight", "sex", "breed", "description", "photo_url",
	"suitable_for_kids", "suitable_for_other_pets", "potentially_dangerous_dog",
	"is_vaccinated", "is_sterilized", "latitude", "longitude", "updated_at",
}

type DogRepo struct{ db *gorm.DB }

func NewDogRepo(db *gorm.DB) *DogRepo { return &DogRepo{db: db} }

func (r *DogRepo) Create(ctx context.Context, d *domain.Dog) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(d).Error, nil, nil)
}

func (r *DogRepo) FindByID(ctx context.Context, id string) (*domain.Dog, error) {
	var d domain.Dog
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err, nil, nil)
	}
	return &d, nil
}

func (r *DogRepo) List(ctx context.Context, adopted *bool) ([]domain.Dog, error) {
	var dogs []domain.Dog
	tx := r.db.WithContext(ctx).Model(&domain.Dog{})
	if adopted != nil {
		tx = tx.Where("adopted = ?", *adopted)
	}
	if err := tx.Order("created_at desc").Find(&dogs).Error; err != nil {
		return nil, translate(err, nil, nil)
	}
	return dogs, nil
}

func (r *DogRepo) Breeds(ctx context.Context) ([]string, error) {
	var breeds []string
	err := r.db.WithContext(ctx).Model(&domain.Dog{}).
		Distinct("breed").Where("breed <> ''").Order("breed").Pluck("breed", &breeds).Error
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return breeds, nil
}

func (r *DogRepo) Update(ctx context.Context, d *domain.Dog) error {
	return translate(r.db.WithContext(ctx).Model(d).Select(dogEditableColumns).Updates(d).Error, nil, nil)
}

func (r *DogRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&domain.AdoptionRequest{}).Where("dog_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrReferentialConflict
		}
		res := tx.Where("id = ?", id).Delete(&domain.Dog{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	// a request inserted between the count and the delete still trips the foreign key
	return translate(err, nil, domain.ErrReferentialConflict)
}
