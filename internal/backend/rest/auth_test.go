package rest_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/config"
)

func writeClientFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestOAuthConfig_Generic(t *testing.T) {
	dir := t.TempDir()
	writeClientFile(t, dir, `{
		"client_id": "deck",
		"client_secret": "s3cret",
		"auth_url": "https://auth.example.com/authorize",
		"token_url": "https://auth.example.com/token",
		"scopes": ["tasks"]
	}`)
	cfg := &config.Config{Dir: dir, Settings: config.Settings{OAuthScopes: []string{"articles"}}}

	oc, err := rest.OAuthConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oc.ClientID != "deck" || oc.ClientSecret != "s3cret" {
		t.Errorf("unexpected client %+v", oc)
	}
	if oc.Endpoint.TokenURL != "https://auth.example.com/token" || oc.Endpoint.AuthURL != "https://auth.example.com/authorize" {
		t.Errorf("unexpected endpoint %+v", oc.Endpoint)
	}
	if !reflect.DeepEqual(oc.Scopes, []string{"tasks", "articles"}) {
		t.Errorf("unexpected scopes %v", oc.Scopes)
	}
}

func TestOAuthConfig_GoogleInstalled(t *testing.T) {
	dir := t.TempDir()
	writeClientFile(t, dir, `{"installed":{"client_id":"gid","client_secret":"gsecret","auth_uri":"https://accounts.example.com/auth","token_uri":"https://accounts.example.com/token","redirect_uris":["http://localhost"]}}`)
	cfg := &config.Config{Dir: dir}

	oc, err := rest.OAuthConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oc.ClientID != "gid" || oc.Endpoint.TokenURL != "https://accounts.example.com/token" {
		t.Errorf("unexpected config %+v", oc)
	}
}

func TestOAuthConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"not json", `{`, "invalid oauth_client.json"},
		{"no client id", `{"auth_url": "https://a", "token_url": "https://t"}`, "client_id is empty"},
		{"no endpoints", `{"client_id": "deck"}`, "auth_url and token_url are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeClientFile(t, dir, tt.content)

			_, err := rest.OAuthConfig(&config.Config{Dir: dir})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveAndReadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.TokenFile)

	if err := rest.SaveToken(path, &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	token, err := rest.ReadToken(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if token.AccessToken != "a" || token.RefreshToken != "r" {
		t.Errorf("unexpected token %+v", token)
	}
}

func TestReadToken_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.TokenFile)
	if err := os.WriteFile(path, []byte(`{"token_type": "Bearer"}`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := rest.ReadToken(path); err == nil {
		t.Error("expected error for token without access or refresh token")
	}
}
