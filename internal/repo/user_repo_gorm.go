package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"doggy-rescue/internal/domain"
)

// is_admin is changed through SetAdmin only.
var userProfileColumns = []string{
	"email", "password_hash", "first_name", "last_name", "phone_number", "user_photo_url", "updated_at",
}

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(u).Error, domain.ErrDuplicateEmail, nil)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, nil, nil)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err, nil, nil)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if q := strings.TrimSpace(f.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, translate(err, nil, nil)
	}
	if err := tx.Offset(f.Offset).Limit(f.Limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, translate(err, nil, nil)
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Model(u).Select(userProfileColumns).Updates(u).Error
	return translate(err, domain.ErrDuplicateEmail, nil)
}

func (r *UserRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_admin", isAdmin).Error
	return translate(err, nil, nil)
}
