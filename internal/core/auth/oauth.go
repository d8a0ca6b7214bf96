package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleOAuth runs the authorization-code handshake and turns the
// provider's userinfo into a FederatedAssertion.
type GoogleOAuth struct {
	cfg         *oauth2.Config
	UserInfoURL string
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		UserInfoURL: googleUserInfoURL,
	}
}

func (g *GoogleOAuth) Enabled() bool {
	return g != nil && g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (FederatedAssertion, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return FederatedAssertion{}, fmt.Errorf("oauth exchange: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserInfoURL, nil)
	if err != nil {
		return FederatedAssertion{}, err
	}
	res, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return FederatedAssertion{}, fmt.Errorf("oauth userinfo: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return FederatedAssertion{}, fmt.Errorf("oauth userinfo: status %d", res.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return FederatedAssertion{}, fmt.Errorf("oauth userinfo: %w", err)
	}
	return FederatedAssertion{
		Provider:      "google",
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
		PhotoURL:      info.Picture,
	}, nil
}
