package service

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
)

var adoptionEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "adoption_requests_total", Help: "Adoption request transitions"},
	[]string{"event"},
)

func init() { prometheus.MustRegister(adoptionEvents) }

// Questionnaire holds the applicant's raw answers. Checkbox answers are
// true when the field was submitted at all.
type Questionnaire struct {
	AdopterAge         string
	DailyHoursAway     string
	NumberOfTrips      string
	MonthlyMoney       string
	NumberOfPeople     string
	HasExperience      bool
	HasOtherPets       bool
	HasKids            bool
	HasGarden          bool
	OtherPets          string
	AdopterDescription string
}

func (q Questionnaire) parse(r *domain.AdoptionRequest) error {
	var err error
	if r.AdopterAge, err = domain.ParseNonNegative("adopterAge", q.AdopterAge); err != nil {
		return err
	}
	if r.DailyHoursAway, err = domain.ParseNonNegative("dailyHoursAway", q.DailyHoursAway); err != nil {
		return err
	}
	if r.DailyHoursAway > 24 {
		return domain.Invalid("dailyHoursAway", "must be at most 24")
	}
	if r.MonthlyMoney, err = domain.ParseNonNegative("monthlyMoney", q.MonthlyMoney); err != nil {
		return err
	}
	if r.NumberOfPeople, err = domain.ParseNonNegative("numberOfPeople", q.NumberOfPeople); err != nil {
		return err
	}
	if strings.TrimSpace(q.NumberOfTrips) != "" {
		if r.NumberOfTrips, err = domain.ParseNonNegative("numberOfTrips", q.NumberOfTrips); err != nil {
			return err
		}
	}
	r.HasExperience = q.HasExperience
	r.HasOtherPets = q.HasOtherPets
	r.HasKids = q.HasKids
	r.HasGarden = q.HasGarden
	r.OtherPets = strings.TrimSpace(q.OtherPets)
	r.AdopterDescription = strings.TrimSpace(q.AdopterDescription)
	return nil
}

type AdoptionService struct {
	requests         domain.AdoptionRepository
	users            domain.UserRepository
	catalog          *CatalogService
	notify           Notifier
	autoDenySiblings bool
	log              *zap.Logger
}

func NewAdoptionService(requests domain.AdoptionRepository, users domain.UserRepository, catalog *CatalogService,
	n Notifier, autoDenySiblings bool, l *zap.Logger) *AdoptionService {
	if n == nil {
		n = NopNotifier{}
	}
	return &AdoptionService{
		requests:         requests,
		users:            users,
		catalog:          catalog,
		notify:           n,
		autoDenySiblings: autoDenySiblings,
		log:              l,
	}
}

func (s *AdoptionService) Submit(ctx context.Context, actor auth.Identity, dogID string, q Questionnaire) (*domain.AdoptionRequest, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	dog, err := s.catalog.GetByID(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if dog.Adopted {
		// a repeat application still reports as a duplicate
		if _, err := s.requests.Get(ctx, domain.RequestKey{UserID: actor.UserID, DogID: dog.ID}); err == nil {
			return nil, domain.ErrDuplicateRequest
		}
		return nil, domain.ErrDogAdopted
	}
	if !domain.ValidID(actor.UserID) || !domain.ValidID(dog.ID) {
		return nil, domain.Invalid("id", "identifier contains the key separator")
	}
	req := &domain.AdoptionRequest{UserID: actor.UserID, DogID: dog.ID}
	if err := q.parse(req); err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	adoptionEvents.WithLabelValues("submitted").Inc()
	s.log.Info("adoption requested", zap.String("key", req.Key().String()))

	u, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		s.log.Warn("adoption email skipped", zap.String("key", req.Key().String()), zap.Error(err))
		return req, nil
	}
	s.notify.AdoptionRequested(*req, *u, *dog)
	return req, nil
}

func (s *AdoptionService) Approve(ctx context.Context, actor auth.Identity, key domain.RequestKey) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.requests.Approve(ctx, key, s.autoDenySiblings); err != nil {
		return err
	}
	s.catalog.InvalidateLists(ctx)
	adoptionEvents.WithLabelValues("approved").Inc()
	s.log.Info("adoption approved", zap.String("key", key.String()), zap.String("by", actor.UserID))
	return nil
}

func (s *AdoptionService) Deny(ctx context.Context, actor auth.Identity, key domain.RequestKey) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.requests.Deny(ctx, key); err != nil {
		return err
	}
	adoptionEvents.WithLabelValues("denied").Inc()
	s.log.Info("adoption denied", zap.String("key", key.String()), zap.String("by", actor.UserID))
	return nil
}

func (s *AdoptionService) ListByStatus(ctx context.Context, actor auth.Identity, status domain.Status) ([]domain.AdoptionRequest, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, domain.AdoptionFilter{Status: status})
}

func (s *AdoptionService) ListMine(ctx context.Context, actor auth.Identity) ([]domain.AdoptionRequest, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, domain.AdoptionFilter{Status: domain.StatusAll, UserID: actor.UserID})
}

func (s *AdoptionService) GetOne(ctx context.Context, actor auth.Identity, key domain.RequestKey) (*domain.AdoptionRequest, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.requests.Get(ctx, key)
}

// GetMine hides other users' requests behind NotFound.
func (s *AdoptionService) GetMine(ctx context.Context, actor auth.Identity, key domain.RequestKey) (*domain.AdoptionRequest, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if key.UserID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return s.requests.Get(ctx, key)
}

// FormFor returns the dog an applicant is about to request.
func (s *AdoptionService) FormFor(ctx context.Context, actor auth.Identity, dogID string) (*domain.Dog, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.catalog.GetByID(ctx, dogID)
}
