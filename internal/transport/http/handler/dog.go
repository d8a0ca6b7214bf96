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

type DogHandler struct {
	Catalog   *service.CatalogService
	MaxMemory int64
}

func (h *DogHandler) Priority() int { return 10 }

// dogInput maps the dog form. The five flags follow checkbox semantics and
// dogAdopted is ignored: only an approval adopts a dog.
func dogInput(v form.Values) service.DogInput {
	return service.DogInput{
		Name:        v.Optional("dogName"),
		Age:         v.Optional("dogAge"),
		Weight:      v.Optional("dogWeight"),
		Sex:         v.Optional("dogSex"),
		Breed:       v.Optional("dogBreed"),
		Description: v.Optional("dogDescription"),
		Latitude:    v.Optional("latitude"),
		Longitude:   v.Optional("longitude"),
		Flags: domain.DogFlags{
			SuitableForKids:         v.Checked("suitableForKids"),
			SuitableForOtherPets:    v.Checked("suitableForOtherPets"),
			PotentiallyDangerousDog: v.Checked("potentiallyDangerousDog"),
			IsVaccinated:            v.Checked("isVaccinated"),
			IsSterilized:            v.Checked("isSterilized"),
		},
	}
}

func (h *DogHandler) MountAPI(public, _ *gin.RouterGroup) {
	pub := ez.New(public)

	listing := func(path string, load func(*gin.Context) ([]domain.Dog, error)) {
		ez.RegisterAction(pub, ez.Action[struct{}, []domain.Dog]{
			Method: http.MethodGet,
			Path:   path,
			Binder: ez.BindNone,
			Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) ([]domain.Dog, error) {
				return load(c)
			},
		})
	}
	available := func(c *gin.Context) ([]domain.Dog, error) { return h.Catalog.ListAvailable(c.Request.Context()) }
	adopted := func(c *gin.Context) ([]domain.Dog, error) { return h.Catalog.ListAdopted(c.Request.Context()) }
	listing("/dog/pending", available)
	listing("/dogs/pending", available)
	listing("/dog/adopted", adopted)
	listing("/dogs/adopted", adopted)

	ez.RegisterAction(pub, ez.Action[struct{}, []string]{
		Method: http.MethodGet,
		Path:   "/dogs/breeds",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) ([]string, error) {
			return h.Catalog.Breeds(c.Request.Context())
		},
	})

	ez.RegisterAction(pub, ez.Action[struct{}, *domain.Dog]{
		Method: http.MethodGet,
		Path:   "/dog/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (*domain.Dog, error) {
			return h.Catalog.GetByID(c.Request.Context(), c.Param("id"))
		},
	})
}

func (h *DogHandler) MountAdmin(admin *gin.RouterGroup) {
	adm := ez.New(admin)

	write := func(c *gin.Context, save func(service.DogInput) (*domain.Dog, error)) (*domain.Dog, error) {
		v, err := form.Parse(c, h.MaxMemory)
		if err != nil {
			return nil, err
		}
		in := dogInput(v)
		photo, closePhoto, err := v.File("dogPhotoURL")
		if err != nil {
			return nil, err
		}
		defer closePhoto()
		in.Photo = photo
		return save(in)
	}

	ez.RegisterAction(adm, ez.Action[struct{}, *domain.Dog]{
		Method:   http.MethodPost,
		Path:     "/create-new-dog",
		Binder:   ez.BindNone,
		Admin:    true,
		Status:   http.StatusCreated,
		Redirect: "/dogs/pending",
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.Dog, error) {
			return write(c, func(in service.DogInput) (*domain.Dog, error) {
				return h.Catalog.Create(c.Request.Context(), id, in)
			})
		},
	})

	ez.RegisterAction(adm, ez.Action[struct{}, *domain.Dog]{
		Method: http.MethodGet,
		Path:   "/update-dog/:id",
		Binder: ez.BindNone,
		Admin:  true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.Dog, error) {
			return h.Catalog.GetForEdit(c.Request.Context(), id, c.Param("id"))
		},
	})

	ez.RegisterAction(adm, ez.Action[struct{}, *domain.Dog]{
		Method:   http.MethodPut,
		Path:     "/update-dog/:id",
		Binder:   ez.BindNone,
		Admin:    true,
		Redirect: "/dogs/pending",
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.Dog, error) {
			return write(c, func(in service.DogInput) (*domain.Dog, error) {
				return h.Catalog.Update(c.Request.Context(), id, c.Param("id"), in)
			})
		},
	})

	ez.RegisterAction(adm, ez.Action[struct{}, gin.H]{
		Method:   http.MethodDelete,
		Path:     "/dog/delete/:id",
		Binder:   ez.BindNone,
		Admin:    true,
		Redirect: "/dogs/pending",
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (gin.H, error) {
			if err := h.Catalog.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}
