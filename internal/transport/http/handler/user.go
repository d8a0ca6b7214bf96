package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/service"
	"doggy-rescue/internal/transport/http/ez"
)

type UserHandler struct {
	Identity  *service.IdentityService
	MaxMemory int64
}

type userPage struct {
	Items []domain.User `json:"items"`
	Total int64         `json:"total"`
}

func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	adm := ez.New(admin)

	type listIn struct {
		Offset int    `form:"offset" binding:"min=0"`
		Limit  int    `form:"limit" binding:"min=0,max=100"`
		Q      string `form:"q"`
	}
	ez.RegisterAction(adm, ez.Action[listIn, userPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Admin:  true,
		Handler: func(c *gin.Context, id auth.Identity, in *listIn) (userPage, error) {
			items, total, err := h.Identity.List(c.Request.Context(), id, domain.UserFilter{
				Offset: in.Offset,
				Limit:  in.Limit,
				Q:      in.Q,
			})
			if err != nil {
				return userPage{}, err
			}
			return userPage{Items: items, Total: total}, nil
		},
	})

	ez.RegisterAction(adm, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/user/:id",
		Binder: ez.BindNone,
		Admin:  true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.User, error) {
			return h.Identity.Get(c.Request.Context(), id, c.Param("id"))
		},
	})

	role := func(path string, isAdmin bool) {
		ez.RegisterAction(adm, ez.Action[struct{}, *domain.User]{
			Method: http.MethodPut,
			Path:   path,
			Binder: ez.BindNone,
			Admin:  true,
			Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.User, error) {
				return h.Identity.SetRole(c.Request.Context(), id, c.Param("id"), isAdmin)
			},
		})
	}
	role("/user/give-admin/:id", true)
	role("/user/remove-admin/:id", false)

	ez.RegisterAction(adm, ez.Action[struct{}, *domain.User]{
		Method: http.MethodPut,
		Path:   "/user/update/:id",
		Binder: ez.BindNone,
		Admin:  true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.User, error) {
			return updateProfile(c, h.Identity, id, c.Param("id"), h.MaxMemory)
		},
	})
}
