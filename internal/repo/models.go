package repo

import (
	"gorm.io/gorm"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{&domain.User{}, &domain.Dog{}, &domain.AdoptionRequest{}, &auth.Session{}}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
