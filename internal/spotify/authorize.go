package spotify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/spotify-mcp/internal/storage"
)

// Authorizer runs the interactive authorization code flow with PKCE. It
// listens on the redirect URI, prints the consent URL and stores the token
// obtained from the callback.
type Authorizer struct {
	Config  *oauth2.Config
	Store   TokenStore
	Account string
	Logger  *zap.Logger

	// Out receives the consent URL and progress messages
	Out io.Writer

	// OpenBrowser, when set, is called with the consent URL
	OpenBrowser func(authURL string) error

	// Listener overrides the listener bound to the redirect URI host
	Listener net.Listener
}

type callbackResult struct {
	token *oauth2.Token
	err   error
}

// Run blocks until the callback delivers a token, the flow fails or ctx ends
func (a *Authorizer) Run(ctx context.Context) (*oauth2.Token, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	account := a.Account
	if account == "" {
		account = storage.DefaultAccount
	}
	out := a.Out
	if out == nil {
		out = io.Discard
	}

	redirect, err := url.Parse(a.Config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("parse redirect uri: %w", err)
	}
	if redirect.Host == "" {
		return nil, fmt.Errorf("redirect uri %q has no host", a.Config.RedirectURL)
	}

	listener := a.Listener
	if listener == nil {
		host := redirect.Host
		if redirect.Port() == "" {
			host = net.JoinHostPort(redirect.Hostname(), "80")
		}
		listener, err = net.Listen("tcp", host)
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", host, err)
		}
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := a.Config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	results := make(chan callbackResult, 1)
	path := redirect.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, a.callbackHandler(state, verifier, results))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback server: %w", err)
		}
		return nil
	})

	_, _ = fmt.Fprintf(out, "Open this URL in your browser to authorize Spotify access:\n\n%s\n\n", authURL)
	if a.OpenBrowser != nil {
		if err := a.OpenBrowser(authURL); err != nil {
			logger.Warn("failed to open browser", zap.Error(err))
		}
	}
	logger.Info("waiting for authorization callback", zap.String("redirect_uri", a.Config.RedirectURL))

	var result callbackResult
	select {
	case result = <-results:
	case <-gctx.Done():
		result.err = gctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if err := g.Wait(); err != nil && result.err == nil {
		result.err = err
	}
	if result.err != nil {
		return nil, result.err
	}

	if a.Store != nil {
		if err := a.Store.SaveToken(ctx, account, ToStorage(result.token)); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
	}
	_, _ = fmt.Fprintln(out, "Authorization successful. Tokens saved.")
	return result.token, nil
}

// callbackHandler validates the redirect, exchanges the code and reports the
// outcome once on results. Requests carrying neither state nor error, such
// as a browser fetching /favicon.ico, are rejected without ending the flow.
func (a *Authorizer) callbackHandler(state, verifier string, results chan<- callbackResult) http.Handler {
	report := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if !q.Has("state") && !q.Has("error") {
			writeCallbackPage(w, http.StatusBadRequest, "Not an authorization callback")
			return
		}
		if errParam := q.Get("error"); errParam != "" {
			writeCallbackPage(w, http.StatusBadRequest, "Authorization failed: "+errParam)
			report(callbackResult{err: fmt.Errorf("authorization denied: %s", errParam)})
			return
		}
		if q.Get("state") != state {
			writeCallbackPage(w, http.StatusBadRequest, "Invalid state parameter")
			report(callbackResult{err: errors.New("authorization callback state mismatch")})
			return
		}
		code := q.Get("code")
		if code == "" {
			writeCallbackPage(w, http.StatusBadRequest, "Missing authorization code")
			report(callbackResult{err: errors.New("authorization callback without code")})
			return
		}

		tok, err := a.Config.Exchange(r.Context(), code, oauth2.VerifierOption(verifier))
		if err != nil {
			writeCallbackPage(w, http.StatusInternalServerError, "Token exchange failed")
			report(callbackResult{err: fmt.Errorf("exchange code: %w", err)})
			return
		}

		writeCallbackPage(w, http.StatusOK, "Authentication successful! You can close this window.")
		report(callbackResult{token: tok})
	})
}

func writeCallbackPage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<html><body><h1>%s</h1></body></html>", html.EscapeString(message))
}
