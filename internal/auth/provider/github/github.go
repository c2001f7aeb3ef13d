package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"identity-service/internal/auth"
)

const (
	providerName       = "github"
	defaultAuthURL     = "https://github.com/login/oauth/authorize"
	defaultTokenURL    = "https://github.com/login/oauth/access_token"
	defaultUserinfoURL = "https://api.github.com/user"
)

type Provider struct {
	oauthConfig *oauth2.Config
	userinfoURL string
	httpClient  *http.Client
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  defaultAuthURL,
				TokenURL: defaultTokenURL,
			},
			Scopes: []string{"user:email"},
		},
		userinfoURL: defaultUserinfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) AuthCodeURL() string {
	return p.oauthConfig.AuthCodeURL("")
}

func (p *Provider) Exchange(ctx context.Context, code string) (*auth.Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("github user parse failed: %w", err)
	}

	if payload.ID == 0 || payload.Login == "" {
		return nil, errors.New("github user missing required fields")
	}

	// GitHub omits the email when the user keeps it private. Downstream
	// linking requires a non-empty email, so synthesize a deterministic
	// placeholder from the login handle.
	email := payload.Email
	if email == "" {
		email = payload.Login + "@github.placeholder"
	}

	name := payload.Name
	if name == "" {
		name = payload.Login
	}

	return &auth.Profile{
		Email:     email,
		Name:      name,
		SubjectID: strconv.FormatInt(payload.ID, 10),
	}, nil
}
