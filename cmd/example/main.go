// Command example walks through the full OAuth flow against a live Ruqqus
// instance: it prints an authorization URL, catches the redirect on a local
// listener, exchanges the code for a token, persists the token, and then
// prints the authenticated account and a few front-page posts.
//
// Configuration is read from a YAML file (default config.yaml):
//
//	client_id: "..."
//	client_secret: "..."
//	redirect_uri: "http://localhost:8080/callback"
//	token_file: "token.json"
//	user_agent: "ruqqus-example/1.0"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	ruqqus "github.com/jamesprial/go-ruqqus-api-wrapper"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/types"
)

type appConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	TokenFile    string `yaml:"token_file"`
	UserAgent    string `yaml:"user_agent"`
}

func loadConfig(path string) (*appConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg appConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%s: client_id and client_secret are required", path)
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = "http://localhost:8080/callback"
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = "token.json"
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := run(context.Background(), *configPath, logger); err != nil {
		logger.Error("example failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	clientConfig := &ruqqus.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		UserAgent:    cfg.UserAgent,
		Logger:       logger,
		OnRefresh: func(t *ruqqus.Token) {
			if err := t.SaveFile(cfg.TokenFile); err != nil {
				logger.Warn("failed to persist refreshed token", "error", err)
			}
		},
	}

	// Reuse a previously persisted token when one exists; otherwise walk the
	// interactive authorization flow.
	if token, err := ruqqus.LoadTokenFile(cfg.TokenFile, nil); err == nil {
		clientConfig.Token = token
		logger.Info("loaded persisted token", "file", cfg.TokenFile)
	} else if errors.Is(err, os.ErrNotExist) {
		code, err := authorize(ctx, cfg, logger)
		if err != nil {
			return err
		}
		clientConfig.AuthCode = code
		clientConfig.Persistent = true
	} else {
		return err
	}

	client, err := ruqqus.NewClient(ctx, clientConfig)
	if err != nil {
		return err
	}
	if err := client.Token().SaveFile(cfg.TokenFile); err != nil {
		return err
	}

	me, err := client.GetIdentity(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("authenticated as @%s (%d post rep, %d comment rep)\n",
		me.Username(), me.PostRep(), me.CommentRep())

	fmt.Println("\nfront page:")
	shown := 0
	err = client.EachHomePost(ctx, &ruqqus.ListingOptions{Sort: ruqqus.SortHot}, func(post *types.Post) error {
		fmt.Printf("  [%+d] +%s: %s\n", post.Score(), post.GuildName(), post.Title())
		shown++
		if shown >= 10 {
			return errEnough
		}
		return nil
	})
	if err != nil && !errors.Is(err, errEnough) {
		return err
	}
	return nil
}

var errEnough = errors.New("enough posts")

// openBrowser opens the URL in the system default browser. Failures are not
// fatal; the URL is printed either way.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// authorize prints the consent URL and waits for the OAuth redirect on a
// local listener, returning the one-time authorization code.
func authorize(ctx context.Context, cfg *appConfig, logger *slog.Logger) (string, error) {
	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("parse redirect_uri: %w", err)
	}

	state := ""
	authURL, err := ruqqus.AuthorizeURL(cfg.ClientID, cfg.RedirectURI,
		[]ruqqus.Scope{ruqqus.ScopeIdentity, ruqqus.ScopeRead, ruqqus.ScopeVote},
		true, state)
	if err != nil {
		return "", err
	}
	// AuthorizeURL generated the CSRF state; recover it for the echo check.
	if parsed, err := url.Parse(authURL); err == nil {
		state = parsed.Query().Get("state")
	}

	fmt.Printf("open this URL in your browser to authorize:\n\n  %s\n\n", authURL)
	if err := openBrowser(authURL); err != nil {
		logger.Debug("could not open browser", "error", err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", redirect.Host, err)
	}
	defer listener.Close()

	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != redirect.Path {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			results <- result{err: errors.New("authorization redirect carried a mismatched state")}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			results <- result{err: errors.New("authorization redirect carried no code")}
			return
		}
		fmt.Fprintln(w, "authorized, you can close this tab")
		results <- result{code: code}
	})}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			results <- result{err: err}
		}
	}()
	defer server.Close()

	logger.Info("waiting for authorization redirect", "addr", redirect.Host)
	select {
	case r := <-results:
		if r.err != nil {
			return "", r.err
		}
		return r.code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(5 * time.Minute):
		return "", errors.New("timed out waiting for authorization")
	}
}
