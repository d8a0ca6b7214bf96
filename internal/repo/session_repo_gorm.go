package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"doggy-rescue/internal/core/auth"
)

// SessionRepo stores sessions in the user_sessions table.
type SessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Save(ctx context.Context, s auth.Session) error {
	return translate(r.db.WithContext(ctx).Create(&s).Error, nil, nil)
}

func (r *SessionRepo) Get(ctx context.Context, id string) (auth.Session, error) {
	var s auth.Session
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return auth.Session{}, translate(err, nil, nil)
	}
	return s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Where("id = ?", id).Delete(&auth.Session{}).Error, nil, nil)
}

func (r *SessionRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&auth.Session{})
	return res.RowsAffected, translate(res.Error, nil, nil)
}
