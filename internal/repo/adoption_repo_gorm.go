package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"doggy-rescue/internal/domain"
)

type AdoptionRepo struct{ db *gorm.DB }

func NewAdoptionRepo(db *gorm.DB) *AdoptionRepo { return &AdoptionRepo{db: db} }

func byKey(tx *gorm.DB, key domain.RequestKey) *gorm.DB {
	return tx.Where("user_id = ? AND dog_id = ?", key.UserID, key.DogID)
}

func (r *AdoptionRepo) Create(ctx context.Context, req *domain.AdoptionRequest) error {
	req.RequestApproved = nil
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
	return translate(err, domain.ErrDuplicateRequest, domain.ErrNotFound)
}

func (r *AdoptionRepo) Get(ctx context.Context, key domain.RequestKey) (*domain.AdoptionRequest, error) {
	var req domain.AdoptionRequest
	err := byKey(r.db.WithContext(ctx).Preload("User").Preload("Dog"), key).Take(&req).Error
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return &req, nil
}

func (r *AdoptionRepo) List(ctx context.Context, f domain.AdoptionFilter) ([]domain.AdoptionRequest, error) {
	var out []domain.AdoptionRequest
	tx := r.db.WithContext(ctx).Preload("User").Preload("Dog").Model(&domain.AdoptionRequest{})
	switch f.Status {
	case domain.StatusPending:
		tx = tx.Where("request_approved IS NULL")
	case domain.StatusApproved:
		tx = tx.Where("request_approved = ?", true)
	case domain.StatusDenied:
		tx = tx.Where("request_approved = ?", false)
	}
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if err := tx.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, translate(err, nil, nil)
	}
	return out, nil
}

// decide locks the request row, checks it is still pending and writes the decision.
func decide(tx *gorm.DB, key domain.RequestKey, approved bool) error {
	var req domain.AdoptionRequest
	if err := byKey(tx.Clauses(clause.Locking{Strength: "UPDATE"}), key).Take(&req).Error; err != nil {
		return err
	}
	if req.RequestApproved != nil {
		return domain.ErrAlreadyDecided
	}
	res := byKey(tx.Model(&domain.AdoptionRequest{}), key).
		Where("request_approved IS NULL").
		Update("request_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyDecided
	}
	return nil
}

func (r *AdoptionRepo) Approve(ctx context.Context, key domain.RequestKey, denySiblings bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decide(tx, key, true); err != nil {
			return err
		}
		if err := tx.Model(&domain.Dog{}).Where("id = ?", key.DogID).Update("adopted", true).Error; err != nil {
			return err
		}
		if !denySiblings {
			return nil
		}
		return tx.Model(&domain.AdoptionRequest{}).
			Where("dog_id = ? AND user_id <> ? AND request_approved IS NULL", key.DogID, key.UserID).
			Update("request_approved", false).Error
	})
	return translate(err, nil, nil)
}

func (r *AdoptionRepo) Deny(ctx context.Context, key domain.RequestKey) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return decide(tx, key, false)
	})
	return translate(err, nil, nil)
}
