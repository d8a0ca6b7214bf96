package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/service"
	"doggy-rescue/internal/transport/http/ez"
	"doggy-rescue/internal/transport/http/form"
)

type AdoptionHandler struct {
	Adoptions *service.AdoptionService
	MaxMemory int64
}

func questionnaire(v form.Values) service.Questionnaire {
	other := v.String("otherPets")
	if other == "" {
		other = v.String("OtherPets")
	}
	return service.Questionnaire{
		AdopterAge:         v.String("adopterAge"),
		DailyHoursAway:     v.String("dailyHoursAway"),
		NumberOfTrips:      v.String("numberOfTrips"),
		MonthlyMoney:       v.String("monthlyMoney"),
		NumberOfPeople:     v.String("numberOfPeople"),
		HasExperience:      v.Checked("hasExperience"),
		HasOtherPets:       v.Checked("hasOtherPets"),
		HasKids:            v.Checked("hasKids"),
		HasGarden:          v.Checked("hasGarden"),
		OtherPets:          other,
		AdopterDescription: v.String("adopterDescription"),
	}
}

func requestKey(c *gin.Context) (domain.RequestKey, error) {
	return domain.ParseRequestKey(c.Param("id"))
}

func (h *AdoptionHandler) MountAPI(_, authed *gin.RouterGroup) {
	user := ez.New(authed)

	ez.RegisterAction(user, ez.Action[struct{}, *domain.Dog]{
		Method: http.MethodGet,
		Path:   "/request-dog/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.Dog, error) {
			return h.Adoptions.FormFor(c.Request.Context(), id, c.Param("id"))
		},
	})

	ez.RegisterAction(user, ez.Action[struct{}, *domain.AdoptionRequest]{
		Method:   http.MethodPost,
		Path:     "/request-dog/:id",
		Binder:   ez.BindNone,
		Auth:     true,
		Status:   http.StatusCreated,
		Redirect: "/my-adoption-requests",
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.AdoptionRequest, error) {
			v, err := form.Parse(c, h.MaxMemory)
			if err != nil {
				return nil, err
			}
			return h.Adoptions.Submit(c.Request.Context(), id, c.Param("id"), questionnaire(v))
		},
	})

	ez.RegisterAction(user, ez.Action[struct{}, []domain.AdoptionRequest]{
		Method: http.MethodGet,
		Path:   "/my-adoption-requests",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) ([]domain.AdoptionRequest, error) {
			return h.Adoptions.ListMine(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(user, ez.Action[struct{}, *domain.AdoptionRequest]{
		Method: http.MethodGet,
		Path:   "/my-adoption-requests/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.AdoptionRequest, error) {
			key, err := requestKey(c)
			if err != nil {
				return nil, err
			}
			return h.Adoptions.GetMine(c.Request.Context(), id, key)
		},
	})
}

func (h *AdoptionHandler) MountAdmin(admin *gin.RouterGroup) {
	adm := ez.New(admin)

	byStatus := func(path string, status domain.Status) {
		ez.RegisterAction(adm, ez.Action[struct{}, []domain.AdoptionRequest]{
			Method: http.MethodGet,
			Path:   path,
			Binder: ez.BindNone,
			Admin:  true,
			Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) ([]domain.AdoptionRequest, error) {
				return h.Adoptions.ListByStatus(c.Request.Context(), id, status)
			},
		})
	}
	byStatus("/adoption-requests", domain.StatusAll)
	byStatus("/adoption-requests/pending", domain.StatusPending)
	byStatus("/adoption-requests/approved", domain.StatusApproved)
	byStatus("/adoption-requests/rejected", domain.StatusDenied)

	ez.RegisterAction(adm, ez.Action[struct{}, *domain.AdoptionRequest]{
		Method: http.MethodGet,
		Path:   "/adoption-requests/:id",
		Binder: ez.BindNone,
		Admin:  true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.AdoptionRequest, error) {
			key, err := requestKey(c)
			if err != nil {
				return nil, err
			}
			return h.Adoptions.GetOne(c.Request.Context(), id, key)
		},
	})

	decide := func(path string, apply func(*gin.Context, auth.Identity, domain.RequestKey) error) {
		ez.RegisterAction(adm, ez.Action[struct{}, gin.H]{
			Method:   http.MethodPut,
			Path:     path,
			Binder:   ez.BindNone,
			Admin:    true,
			Redirect: "/adoption-requests/pending",
			Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (gin.H, error) {
				key, err := requestKey(c)
				if err != nil {
					return nil, err
				}
				if err := apply(c, id, key); err != nil {
					return nil, err
				}
				return gin.H{"id": key.String()}, nil
			},
		})
	}
	decide("/adoption-requests/approve/:id", func(c *gin.Context, id auth.Identity, key domain.RequestKey) error {
		return h.Adoptions.Approve(c.Request.Context(), id, key)
	})
	decide("/adoption-requests/deny/:id", func(c *gin.Context, id auth.Identity, key domain.RequestKey) error {
		return h.Adoptions.Deny(c.Request.Context(), id, key)
	})
}
