// Package app builds the running system from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/core/cache"
	"doggy-rescue/internal/core/config"
	"doggy-rescue/internal/core/database"
	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/media"
	"doggy-rescue/internal/notify"
	"doggy-rescue/internal/repo"
	"doggy-rescue/internal/repo/memory"
	"doggy-rescue/internal/service"
	"doggy-rescue/internal/transport/http/handler"
	"doggy-rescue/internal/transport/http/router"
)

type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	DB     *gorm.DB // nil on the memory driver
	Cache  *cache.Cache
	Mailer *notify.Dispatcher

	Users     domain.UserRepository
	Dogs      domain.DogRepository
	Adoptions domain.AdoptionRepository
	Sessions  *auth.Sessions
	JWT       *auth.JWTer
	Resolver  *auth.Resolver

	Identity *service.IdentityService
	Catalog  *service.CatalogService
	Adoption *service.AdoptionService

	Engine *gin.Engine
}

func New(cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}
	a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	var store auth.SessionStore
	switch cfg.DB.Driver {
	case "memory":
		m := memory.New()
		a.Users, a.Dogs, a.Adoptions = m.Users(), m.Dogs(), m.Adoptions()
		store = m.Sessions()
		l.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Logger:             l,
		})
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := repo.AutoMigrate(db); err != nil {
				return nil, fmt.Errorf("automigrate: %w", err)
			}
			l.Info("automigrate done")
		}
		a.DB = db
		a.Users, a.Dogs, a.Adoptions = repo.NewUserRepo(db), repo.NewDogRepo(db), repo.NewAdoptionRepo(db)
		store = repo.NewSessionRepo(db)
	}
	if cfg.Session.Store == "redis" {
		if !a.Cache.Enabled() {
			return nil, errors.New("session.store=redis needs redis.addr")
		}
		store = auth.NewRedisSessionStore(a.Cache.RDB)
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	a.Sessions = auth.NewSessions(store, time.Duration(cfg.Session.TTLHours)*time.Hour)

	up, err := newUploader(cfg.Media)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	a.Mailer = notify.NewDispatcher(newSender(cfg.SMTP, l), l, notify.Options{
		AdminTo:     cfg.SMTP.AdminTo,
		BaseURL:     cfg.App.BaseURL,
		Timeout:     time.Duration(cfg.SMTP.TimeoutSec) * time.Second,
		MaxInFlight: cfg.SMTP.MaxInFlight,
	})

	a.Identity = service.NewIdentityService(a.Users, service.Credentials{
		JWT:           a.JWT,
		Sessions:      a.Sessions,
		PreferSession: cfg.Session.IssueOnLogin,
	}, a.Mailer, up, l)
	a.Catalog = service.NewCatalogService(a.Dogs, a.Cache, time.Duration(cfg.Cache.TTLSec)*time.Second, up, l)
	a.Adoption = service.NewAdoptionService(a.Adoptions, a.Users, a.Catalog, a.Mailer, cfg.Adoption.AutoDenySiblings, l)
	a.Resolver = auth.NewResolver(a.Users, a.JWT, a.Sessions, a.Identity)

	g := cfg.OAuth.Google
	var google *auth.GoogleOAuth
	if g.ClientID != "" && g.ClientSecret != "" {
		google = auth.NewGoogleOAuth(g.ClientID, g.ClientSecret, g.RedirectURL)
	}

	maxMemory := cfg.Media.MaxSizeMB << 20
	cookies := handler.Cookies{Token: cfg.JWT.Cookie, Session: cfg.Session.Cookie, Secure: cfg.JWT.CookieSecure}
	mods := router.NewRegistry(
		&handler.AuthHandler{
			Identity:  a.Identity,
			Resolver:  a.Resolver,
			Google:    google,
			Cookies:   cookies,
			MaxMemory: maxMemory,
			Log:       l,
		},
		&handler.DogHandler{Catalog: a.Catalog, MaxMemory: maxMemory},
		&handler.AdoptionHandler{Adoptions: a.Adoption, MaxMemory: maxMemory},
		&handler.UserHandler{Identity: a.Identity, MaxMemory: maxMemory},
	)
	deps := router.Deps{
		Log:           l,
		Resolver:      a.Resolver,
		Modules:       mods,
		App:           cfg.App,
		TokenCookie:   cfg.JWT.Cookie,
		SessionCookie: cfg.Session.Cookie,
	}
	if cfg.Media.Driver != "cloudinary" {
		deps.UploadDir, deps.UploadURL = cfg.Media.LocalDir, cfg.Media.LocalBaseURL
	}
	a.Engine = router.NewAPIEngine(deps)
	return a, nil
}

func newUploader(m config.Media) (media.Uploader, error) {
	maxSize := m.MaxSizeMB << 20
	switch m.Driver {
	case "cloudinary":
		return media.NewCloudinary(m.CloudName, m.APIKey, m.APISecret, m.Folder,
			time.Duration(m.TimeoutSec)*time.Second, maxSize)
	case "local", "":
		return media.NewLocal(m.LocalDir, m.LocalBaseURL, maxSize)
	}
	return nil, fmt.Errorf("unknown media driver %q", m.Driver)
}

func newSender(s config.SMTP, l *zap.Logger) notify.Sender {
	if s.Host == "" {
		return notify.LogSender{L: l}
	}
	return notify.NewSMTPSender(s.Host, s.Port, s.Username, s.Password, s.From)
}

// Close waits for queued emails and releases connections.
func (a *App) Close(ctx context.Context) {
	if err := a.Mailer.Wait(ctx); err != nil {
		a.Log.Warn("emails still in flight at shutdown", zap.Error(err))
	}
	if err := a.Cache.Close(); err != nil {
		a.Log.Warn("close redis", zap.Error(err))
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
