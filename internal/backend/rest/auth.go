package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"taskdeck/internal/config"
)

// oauthClientFile is the provider-neutral oauth_client.json layout. Files
// downloaded from Google's console ("installed" or "web") are accepted too.
type oauthClientFile struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`

	Installed json.RawMessage `json:"installed"`
	Web       json.RawMessage `json:"web"`
}

// OAuthConfig reads oauth_client.json. Scopes from the settings are added
// to the ones in the file.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	data, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	var f oauthClientFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	if f.Installed != nil || f.Web != nil {
		oc, err := google.ConfigFromJSON(data, cfg.Settings.OAuthScopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
		}
		return oc, nil
	}

	switch {
	case f.ClientID == "":
		return nil, errors.New("invalid oauth_client.json: client_id is empty")
	case f.AuthURL == "" || f.TokenURL == "":
		return nil, errors.New("invalid oauth_client.json: auth_url and token_url are required")
	}
	return &oauth2.Config{
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  f.AuthURL,
			TokenURL: f.TokenURL,
		},
		Scopes: append(f.Scopes, cfg.Settings.OAuthScopes...),
	}, nil
}

// ReadToken reads a stored token.
func ReadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, errors.New("invalid token.json: no access or refresh token")
	}
	return &token, nil
}

// SaveToken writes token with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// NewWithToken creates a client whose requests carry token. When
// oauth_client.json exists the token refreshes through the provider.
func NewWithToken(ctx context.Context, cfg *config.Config, token *oauth2.Token, opts ...Option) (*Client, error) {
	ts := oauth2.StaticTokenSource(token)
	if cfg.HasOAuthClient() {
		oc, err := OAuthConfig(cfg)
		if err != nil {
			return nil, err
		}
		ts = oc.TokenSource(ctx, token)
	}
	return newConfigured(cfg, oauth2.NewClient(ctx, ts), opts...)
}

func newConfigured(cfg *config.Config, httpClient *http.Client, opts ...Option) (*Client, error) {
	opts = append([]Option{WithTimeout(cfg.Settings.Timeout)}, opts...)
	return NewWithHTTPClient(cfg.Settings.APIURL, httpClient, opts...)
}
