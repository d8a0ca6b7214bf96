package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/media"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Credentials issues the proof returned by a successful login.
type Credentials struct {
	JWT           *auth.JWTer
	Sessions      *auth.Sessions
	PreferSession bool
}

type IssuedCredential struct {
	Kind      string // token | session
	Value     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// ProfilePatch leaves nil or blank fields untouched.
type ProfilePatch struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Photo       *media.Image
}

type IdentityService struct {
	users    domain.UserRepository
	creds    Credentials
	notify   Notifier
	uploader media.Uploader
	log      *zap.Logger
}

func NewIdentityService(users domain.UserRepository, creds Credentials, n Notifier, up media.Uploader, l *zap.Logger) *IdentityService {
	if n == nil {
		n = NopNotifier{}
	}
	return &IdentityService{users: users, creds: creds, notify: n, uploader: up, log: l}
}

func validEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", domain.Invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("email", "is not a valid address")
	}
	return email, nil
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email, err := validEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "is required")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("uid", u.ID))
	s.notify.Welcome(*u)
	return u, nil
}

func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// IssueCredential returns a session when asked for one (or when configured to
// prefer sessions) and a signed token otherwise.
func (s *IdentityService) IssueCredential(ctx context.Context, u *domain.User, session bool) (IssuedCredential, error) {
	if (session || s.creds.PreferSession) && s.creds.Sessions != nil {
		sess, err := s.creds.Sessions.Create(ctx, u.ID)
		if err != nil {
			return IssuedCredential{}, err
		}
		return IssuedCredential{Kind: "session", Value: sess.ID, ExpiresAt: sess.ExpiresAt}, nil
	}
	tok, err := s.creds.JWT.Issue(u.ID, u.Email)
	if err != nil {
		return IssuedCredential{}, err
	}
	return IssuedCredential{Kind: "token", Value: tok, ExpiresAt: time.Now().Add(s.creds.JWT.TTL)}, nil
}

// Logout revokes a server-side session. Tokens expire on their own.
func (s *IdentityService) Logout(ctx context.Context, sessionID string) error {
	if s.creds.Sessions == nil || sessionID == "" {
		return nil
	}
	return s.creds.Sessions.Revoke(ctx, sessionID)
}

// SetRole is idempotent: granting an existing admin succeeds unchanged.
func (s *IdentityService) SetRole(ctx context.Context, actor auth.Identity, userID string, isAdmin bool) (*domain.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin != isAdmin {
		if err := s.users.SetAdmin(ctx, userID, isAdmin); err != nil {
			return nil, err
		}
		u.IsAdmin = isAdmin
		s.log.Info("role changed", zap.String("uid", userID), zap.Bool("isAdmin", isAdmin), zap.String("by", actor.UserID))
	}
	return u, nil
}

func selfOrAdmin(actor auth.Identity, userID string) error {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.UserID != userID && !actor.IsAdmin {
		return domain.ErrForbidden
	}
	return nil
}

func (s *IdentityService) UpdateProfile(ctx context.Context, actor auth.Identity, userID string, p ProfilePatch) (*domain.User, error) {
	if err := selfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		email, err := validEmail(*p.Email)
		if err != nil {
			return nil, err
		}
		u.Email = email
	}
	if v, ok := trimmed(p.FirstName); ok {
		u.FirstName = v
	}
	if v, ok := trimmed(p.LastName); ok {
		u.LastName = v
	}
	if v, ok := trimmed(p.PhoneNumber); ok {
		u.PhoneNumber = v
	}
	if p.Password != nil && *p.Password != "" {
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if p.Photo != nil {
		url, err := s.uploader.Upload(ctx, *p.Photo)
		if err != nil {
			return nil, err
		}
		u.UserPhotoURL = url
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *IdentityService) Get(ctx context.Context, actor auth.Identity, userID string) (*domain.User, error) {
	if err := selfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func (s *IdentityService) Me(ctx context.Context, actor auth.Identity) (*domain.User, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, actor.UserID)
}

func (s *IdentityService) List(ctx context.Context, actor auth.Identity, f domain.UserFilter) ([]domain.User, int64, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.users.List(ctx, f)
}

// LinkFederated finds the account for a verified provider email, creating a
// password-less one on first sign-in.
func (s *IdentityService) LinkFederated(ctx context.Context, a auth.FederatedAssertion) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, a.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	u = &domain.User{
		Email:        a.Email,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		UserPhotoURL: a.PhotoURL,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return s.users.FindByEmail(ctx, a.Email)
		}
		return nil, err
	}
	s.log.Info("federated user created", zap.String("uid", u.ID), zap.String("provider", a.Provider))
	s.notify.Welcome(*u)
	return u, nil
}
