package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

const authCode = "auth-code"

// backendAccepting serves GET /tasks to requests carrying token and answers
// 401 otherwise.
func backendAccepting(t *testing.T, token string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail": "Not authenticated"}`)
			return
		}
		io.WriteString(w, "[]")
	}))
	t.Cleanup(srv.Close)
	return srv
}

// tokenEndpoint issues access token issued for authCode.
func tokenEndpoint(t *testing.T, issued string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad token request: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != authCode {
			t.Errorf("unexpected token request %v", r.PostForm)
		}
		if r.PostForm.Get("code_verifier") == "" {
			t.Error("expected a PKCE code_verifier")
		}
		if !strings.HasPrefix(r.PostForm.Get("redirect_uri"), "http://localhost:") {
			t.Errorf("unexpected redirect_uri %q", r.PostForm.Get("redirect_uri"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  issued,
			"refresh_token": "refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loginConfig(t *testing.T, apiURL, tokenURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	client := `{"client_id": "deck", "client_secret": "s3cret", "auth_url": "https://auth.example.com/authorize", "token_url": "` + tokenURL + `"}`
	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte(client), 0600); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Dir:      dir,
		Settings: config.Settings{APIURL: apiURL, Timeout: 5 * time.Second},
	}
}

func storeToken(t *testing.T, cfg *config.Config, access string) {
	t.Helper()
	data := `{"access_token": "` + access + `", "token_type": "Bearer", "refresh_token": "old"}`
	if err := os.WriteFile(cfg.TokenPath(), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
}

// newLogin returns a login command listening on any free port.
func newLogin(t *testing.T) *commands.LoginCmd {
	t.Helper()
	cmd := &commands.LoginCmd{}
	if err := newFlagSet(cmd).Parse([]string{"--port", "0"}); err != nil {
		t.Fatal(err)
	}
	return cmd
}

// redirectTo plays the provider: it sends the browser back to the
// redirect URI with authCode and the request's state, after edit.
func redirectTo(t *testing.T, edit func(q url.Values)) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			t.Fatalf("bad auth url %q: %v", authURL, err)
		}
		q := url.Values{}
		q.Set("code", authCode)
		q.Set("state", u.Query().Get("state"))
		if edit != nil {
			edit(q)
		}
		resp, err := http.Get(u.Query().Get("redirect_uri") + "?" + q.Encode())
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

func runLogin(t *testing.T, ctx context.Context, cmd *commands.LoginCmd, cfg *config.Config) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}

	stdout, stderr, code := runLogin(t, context.Background(), newLogin(t), cfg)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	for _, want := range []string{"oauth_client.json not found", `"token_url"`, "taskdeck login"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in setup instructions, got %q", want, stderr)
		}
	}
}

func TestLoginCommand_InvalidOAuthClient(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte(`{"client_id": "deck"}`), 0600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runLogin(t, context.Background(), newLogin(t), &config.Config{Dir: dir})

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "auth_url and token_url are required") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	var calls atomic.Int32
	backend := backendAccepting(t, "stored")
	cfg := loginConfig(t, backend.URL, tokenEndpoint(t, "fresh", &calls).URL)
	storeToken(t, cfg, "stored")

	cmd := newLogin(t)
	cmd.SetBrowser(func(string) error {
		t.Error("browser must not open when the stored token works")
		return nil
	})

	stdout, _, code := runLogin(t, context.Background(), cmd, cfg)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", stdout)
	}
}

func TestLoginCommand_ExchangesCode(t *testing.T) {
	var calls atomic.Int32
	backend := backendAccepting(t, "fresh")
	cfg := loginConfig(t, backend.URL, tokenEndpoint(t, "fresh", &calls).URL)

	cmd := newLogin(t)
	cmd.SetBrowser(redirectTo(t, nil))

	stdout, stderr, code := runLogin(t, context.Background(), cmd, cfg)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one token request, got %d", calls.Load())
	}
	token, err := rest.ReadToken(cfg.TokenPath())
	if err != nil {
		t.Fatalf("token not saved: %v", err)
	}
	if token.AccessToken != "fresh" || token.RefreshToken != "refresh" {
		t.Errorf("unexpected saved token %+v", token)
	}
}

func TestLoginCommand_ReplacesRejectedToken(t *testing.T) {
	var calls atomic.Int32
	backend := backendAccepting(t, "fresh")
	cfg := loginConfig(t, backend.URL, tokenEndpoint(t, "fresh", &calls).URL)
	storeToken(t, cfg, "revoked")

	cmd := newLogin(t)
	cmd.SetBrowser(redirectTo(t, nil))

	_, stderr, code := runLogin(t, context.Background(), cmd, cfg)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	token, err := rest.ReadToken(cfg.TokenPath())
	if err != nil || token.AccessToken != "fresh" {
		t.Errorf("expected the rejected token replaced, got %+v (%v)", token, err)
	}
}

func TestLoginCommand_CallbackErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(q url.Values)
		want string
	}{
		{"state mismatch", func(q url.Values) { q.Set("state", "forged") }, "error: oauth state mismatch\n"},
		{"denied", func(q url.Values) { q.Del("code"); q.Set("error", "access_denied") }, "error: authorization denied: access_denied\n"},
		{"no code", func(q url.Values) { q.Del("code") }, "error: no code in callback\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			backend := backendAccepting(t, "fresh")
			cfg := loginConfig(t, backend.URL, tokenEndpoint(t, "fresh", &calls).URL)

			cmd := newLogin(t)
			cmd.SetBrowser(redirectTo(t, tt.edit))

			_, stderr, code := runLogin(t, context.Background(), cmd, cfg)

			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
			if !strings.HasSuffix(stderr, tt.want) {
				t.Errorf("expected stderr ending in %q, got %q", tt.want, stderr)
			}
			if calls.Load() != 0 {
				t.Error("code must not be exchanged")
			}
			if cfg.HasToken() {
				t.Error("no token may be saved")
			}
		})
	}
}

func TestLoginCommand_BackendRejectsToken(t *testing.T) {
	var calls atomic.Int32
	backend := backendAccepting(t, "some-other-token")
	cfg := loginConfig(t, backend.URL, tokenEndpoint(t, "fresh", &calls).URL)

	cmd := newLogin(t)
	cmd.SetBrowser(redirectTo(t, nil))

	_, stderr, code := runLogin(t, context.Background(), cmd, cfg)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "backend rejected token") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if cfg.HasToken() {
		t.Error("a token the backend rejects must not be saved")
	}
}

func TestLoginCommand_Cancelled(t *testing.T) {
	var calls atomic.Int32
	backend := backendAccepting(t, "fresh")
	cfg := loginConfig(t, backend.URL, tokenEndpoint(t, "fresh", &calls).URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stderr, code := runLogin(t, ctx, newLogin(t), cfg)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasSuffix(stderr, "error: cancelled\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
