package auth

import (
	"context"
	"errors"

	"doggy-rescue/internal/domain"
)

// Credential is one of TokenCredential, SessionCredential or FederatedAssertion.
type Credential interface{ credential() }

type TokenCredential struct{ Token string }

type SessionCredential struct{ SessionID string }

// FederatedAssertion is the verified outcome of an identity-provider handshake.
type FederatedAssertion struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
	PhotoURL      string
}

func (TokenCredential) credential()    {}
func (SessionCredential) credential()  {}
func (FederatedAssertion) credential() {}

type Kind int

const (
	KindAnonymous Kind = iota
	KindUser
)

// Identity is what every credential resolves to before reaching a handler.
type Identity struct {
	Kind    Kind
	UserID  string
	Email   string
	IsAdmin bool
	Via     string // token | session | federated | system
}

var Anonymous = Identity{Kind: KindAnonymous}

// System is used by operator tooling that runs outside HTTP.
func System() Identity {
	return Identity{Kind: KindUser, UserID: "system", IsAdmin: true, Via: "system"}
}

func (i Identity) Authenticated() bool { return i.Kind == KindUser && i.UserID != "" }

func identityOf(u *domain.User, via string) Identity {
	return Identity{Kind: KindUser, UserID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin, Via: via}
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// FederatedLinker finds or creates the local account for a federated assertion.
type FederatedLinker interface {
	LinkFederated(ctx context.Context, a FederatedAssertion) (*domain.User, error)
}

type Resolver struct {
	users     UserLookup
	jwt       *JWTer
	sessions  *Sessions
	federated FederatedLinker
}

func NewResolver(users UserLookup, jwter *JWTer, sessions *Sessions, federated FederatedLinker) *Resolver {
	return &Resolver{users: users, jwt: jwter, sessions: sessions, federated: federated}
}

// Resolve maps a credential onto an Identity. A nil credential is anonymous;
// a credential that does not check out fails with domain.ErrUnauthenticated.
func (r *Resolver) Resolve(ctx context.Context, cred Credential) (Identity, error) {
	switch c := cred.(type) {
	case nil:
		return Anonymous, nil
	case TokenCredential:
		claims, err := r.jwt.Parse(c.Token)
		if err != nil {
			return Anonymous, domain.ErrUnauthenticated
		}
		u, err := r.users.FindByEmail(ctx, claims.Subject)
		if err != nil {
			return Anonymous, lookupErr(err)
		}
		return identityOf(u, "token"), nil
	case SessionCredential:
		if r.sessions == nil {
			return Anonymous, domain.ErrUnauthenticated
		}
		s, err := r.sessions.Lookup(ctx, c.SessionID)
		if err != nil {
			return Anonymous, lookupErr(err)
		}
		u, err := r.users.FindByID(ctx, s.UserID)
		if err != nil {
			return Anonymous, lookupErr(err)
		}
		return identityOf(u, "session"), nil
	case FederatedAssertion:
		if r.federated == nil || c.Email == "" || !c.EmailVerified {
			return Anonymous, domain.ErrUnauthenticated
		}
		u, err := r.federated.LinkFederated(ctx, c)
		if err != nil {
			return Anonymous, err
		}
		return identityOf(u, "federated"), nil
	}
	return Anonymous, domain.ErrUnauthenticated
}

func lookupErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnauthenticated
	}
	return err
}
