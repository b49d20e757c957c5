package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

const (
	callbackTimeout      = 5 * time.Minute
	tokenExchangeTimeout = 30 * time.Second

	// defaultCallbackPort is the first port tried for the redirect listener;
	// the next few are tried if it is taken.
	defaultCallbackPort  = 8085
	callbackPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd runs the OAuth authorization-code flow against the backend's
// provider and stores the token once the task API accepts it.
type LoginCmd struct {
	port    int
	browser func(authURL string) error
}

// SetBrowser sets the function that opens the authorization URL (for testing).
func (c *LoginCmd) SetBrowser(open func(authURL string) error) {
	c.browser = open
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Authenticate with the backend's OAuth provider" }
func (c *LoginCmd) Usage() string      { return "taskdeck login [--port <n>]" }
func (c *LoginCmd) NeedsBackend() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.port, "port", defaultCallbackPort, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	if !cfg.HasOAuthClient() {
		printClientSetup(errOut, cfg)
		return exitcode.AuthError
	}

	log := zerolog.Ctx(ctx)

	oauthConfig, err := rest.OAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if cfg.HasToken() {
		err := verifyStoredToken(ctx, cfg, *log)
		if err == nil {
			if !cfg.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success
		}
		log.Debug().Err(err).Msg("stored token not accepted, logging in again")
	}

	token, err := c.authorize(ctx, oauthConfig, errOut, *log)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	client, err := rest.NewWithToken(ctx, cfg, token, rest.WithLogger(*log))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if _, err := client.ListTasks(ctx); err != nil {
		if service.KindOf(err) == service.KindAuth {
			fmt.Fprintf(errOut, "error: backend rejected token: %v\n", err)
		} else {
			fmt.Fprintf(errOut, "error: could not verify token: %v\n", err)
		}
		return exitcode.FromError(err)
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := rest.SaveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	return ok(cfg, out)
}

func printClientSetup(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
	fmt.Fprintln(w, "The backend accepts bearer tokens from its OAuth 2.0 provider.")
	fmt.Fprintln(w, "Register a client with the provider, allowing")
	fmt.Fprintf(w, "http://localhost:%d/callback as a redirect URI, and save its\n", defaultCallbackPort)
	fmt.Fprintf(w, "credentials as %s:\n\n", cfg.OAuthClientPath())
	fmt.Fprintln(w, `  {"client_id": "...", "client_secret": "...",`)
	fmt.Fprintln(w, `   "auth_url": "https://.../authorize", "token_url": "https://.../token",`)
	fmt.Fprintln(w, `   "scopes": ["..."]}`)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Then run 'taskdeck login' again.")
}

// verifyStoredToken checks the stored token against the task API.
func verifyStoredToken(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, err := rest.New(ctx, cfg, rest.WithLogger(log))
	if err != nil {
		return err
	}
	_, err = client.ListTasks(ctx)
	return err
}

// callbackResult is what the redirect handler received.
type callbackResult struct {
	code string
	err  error
}

// authorize waits for the provider to redirect back to a loopback listener
// and exchanges the code, with PKCE, for a token.
func (c *LoginCmd) authorize(ctx context.Context, base *oauth2.Config, errOut io.Writer, log zerolog.Logger) (*oauth2.Token, error) {
	listener, port, err := listenCallback(c.port)
	if err != nil {
		return nil, fmt.Errorf("could not bind to local port for OAuth callback: %w", err)
	}
	defer listener.Close()

	oc := *base
	oc.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		res := readCallback(r, state)
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><h1>taskdeck is logged in</h1><p>You may close this window.</p></body></html>")
		}
		// Only the first callback counts.
		select {
		case results <- res:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: err}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := oc.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	log.Debug().Str("redirect_url", oc.RedirectURL).Msg("waiting for oauth callback")
	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)
	if c.browser != nil {
		if err := c.browser(authURL); err != nil {
			log.Warn().Err(err).Msg("could not open browser")
		}
	}

	var res callbackResult
	select {
	case res = <-results:
	case <-time.After(callbackTimeout):
		return nil, errors.New("oauth callback timed out")
	case <-ctx.Done():
		return nil, errors.New("cancelled")
	}
	if res.err != nil {
		return nil, res.err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oc.Exchange(exchangeCtx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

func readCallback(r *http.Request, state string) callbackResult {
	q := r.URL.Query()
	switch {
	case q.Get("state") != state:
		return callbackResult{err: errors.New("oauth state mismatch")}
	case q.Get("error") != "":
		return callbackResult{err: fmt.Errorf("authorization denied: %s", q.Get("error"))}
	case q.Get("code") == "":
		return callbackResult{err: errors.New("no code in callback")}
	}
	return callbackResult{code: q.Get("code")}
}

// listenCallback binds the redirect listener. Port 0 picks any free port.
func listenCallback(port int) (net.Listener, int, error) {
	attempts := callbackPortAttempts
	if port == 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		l, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port+i))
		if err != nil {
			lastErr = err
			continue
		}
		return l, l.Addr().(*net.TCPAddr).Port, nil
	}
	return nil, 0, lastErr
}
