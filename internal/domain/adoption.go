package domain

import (
	"context"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusAll      Status = "all"
)

// ParseStatus accepts "rejected" as an alias of denied.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "denied", "rejected":
		return StatusDenied, nil
	}
	return "", Invalid("status", "unknown status "+s)
}

// StatusOf maps the tri-state approval flag onto a Status.
func StatusOf(approved *bool) Status {
	switch {
	case approved == nil:
		return StatusPending
	case *approved:
		return StatusApproved
	default:
		return StatusDenied
	}
}

// AdoptionRequest is keyed by (UserID, DogID); the composite primary key
// allows at most one request per user and dog.
type AdoptionRequest struct {
	UserID             string    `gorm:"primaryKey;size:36" json:"userId"`
	DogID              string    `gorm:"primaryKey;size:36;index" json:"dogId"`
	RequestApproved    *bool     `json:"requestApproved"`
	AdopterAge         float64   `json:"adopterAge"`
	HasExperience      bool      `json:"hasExperience"`
	DailyHoursAway     float64   `json:"dailyHoursAway"`
	HasOtherPets       bool      `json:"hasOtherPets"`
	OtherPets          string    `gorm:"size:255" json:"otherPets"`
	HasKids            bool      `json:"hasKids"`
	HasGarden          bool      `json:"hasGarden"`
	NumberOfTrips      float64   `json:"numberOfTrips"`
	MonthlyMoney       float64   `json:"monthlyMoney"`
	NumberOfPeople     float64   `json:"numberOfPeople"`
	AdopterDescription string    `gorm:"type:text" json:"adopterDescription"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user,omitempty"`
	Dog  *Dog  `gorm:"foreignKey:DogID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"dog,omitempty"`
}

func (AdoptionRequest) TableName() string { return "adoption_requests" }

func (r AdoptionRequest) Status() Status { return StatusOf(r.RequestApproved) }

func (r AdoptionRequest) Key() RequestKey { return RequestKey{UserID: r.UserID, DogID: r.DogID} }

type AdoptionFilter struct {
	Status Status
	UserID string // empty means every user
}

type AdoptionRepository interface {
	// Create fails with ErrDuplicateRequest when the pair already exists.
	Create(ctx context.Context, r *AdoptionRequest) error
	// Get loads the request with its user and dog.
	Get(ctx context.Context, key RequestKey) (*AdoptionRequest, error)
	List(ctx context.Context, f AdoptionFilter) ([]AdoptionRequest, error)
	// Approve marks the request approved and the dog adopted in one transaction.
	// With denySiblings, other pending requests for the dog are denied in the same transaction.
	Approve(ctx context.Context, key RequestKey, denySiblings bool) error
	Deny(ctx context.Context, key RequestKey) error
}
