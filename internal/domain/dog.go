package domain

import (
	"context"
	"time"
)

type Dog struct {
	ID                      string    `gorm:"primaryKey;size:36" json:"id"`
	Name                    string    `gorm:"size:128;not null" json:"dogName"`
	Age                     float64   `json:"dogAge"`
	Weight                  float64   `json:"dogWeight"`
	Sex                     string    `gorm:"size:16" json:"dogSex"`
	Breed                   string    `gorm:"size:128;index" json:"dogBreed"`
	Description             string    `gorm:"type:text" json:"dogDescription"`
	PhotoURL                string    `gorm:"size:512" json:"dogPhotoURL"`
	SuitableForKids         bool      `json:"suitableForKids"`
	SuitableForOtherPets    bool      `json:"suitableForOtherPets"`
	PotentiallyDangerousDog bool      `json:"potentiallyDangerousDog"`
	IsVaccinated            bool      `json:"isVaccinated"`
	IsSterilized            bool      `json:"isSterilized"`
	Latitude                *float64  `json:"latitude"`
	Longitude               *float64  `json:"longitude"`
	Adopted                 bool      `gorm:"not null;index" json:"dogAdopted"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

func (Dog) TableName() string { return "dogs" }

// DogFlags are the checkbox attributes of a dog.
type DogFlags struct {
	SuitableForKids         bool
	SuitableForOtherPets    bool
	PotentiallyDangerousDog bool
	IsVaccinated            bool
	IsSterilized            bool
}

func (d *Dog) ApplyFlags(f DogFlags) {
	d.SuitableForKids = f.SuitableForKids
	d.SuitableForOtherPets = f.SuitableForOtherPets
	d.PotentiallyDangerousDog = f.PotentiallyDangerousDog
	d.IsVaccinated = f.IsVaccinated
	d.IsSterilized = f.IsSterilized
}

type DogRepository interface {
	Create(ctx context.Context, d *Dog) error
	FindByID(ctx context.Context, id string) (*Dog, error)
	// List filters by availability; nil returns every dog.
	List(ctx context.Context, adopted *bool) ([]Dog, error)
	Breeds(ctx context.Context) ([]string, error)
	Update(ctx context.Context, d *Dog) error
	// Delete fails with ErrReferentialConflict while any adoption request references the dog.
	Delete(ctx context.Context, id string) error
}
