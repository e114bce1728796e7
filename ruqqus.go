// Package ruqqus provides a Go wrapper for the Ruqqus API with OAuth2
// authentication support.
//
// The package provides typed access to users, guilds, posts, and comments,
// handles the token lifecycle (acquisition, expiry tracking, proactive
// refresh, persistence), and exposes the service's paginated listings as
// callback-driven enumerations.
//
// Basic usage:
//
//	token, err := ruqqus.LoadTokenFile("token.json", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := ruqqus.NewClient(ctx, &ruqqus.Config{
//		ClientID:     "your-client-id",
//		ClientSecret: "your-client-secret",
//		Token:        token,
//		UserAgent:    "myapp/1.0",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	user, err := client.GetUser(ctx, "captain_obvious")
//	if err != nil {
//		log.Fatal(err)
//	}
package ruqqus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jamesprial/go-ruqqus-api-wrapper/internal"
	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/types"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/validation"
)

const (
	// DefaultBaseURL is the default Ruqqus API base URL.
	DefaultBaseURL = "https://ruqqus.com/"
	// DefaultAuthURL is the default Ruqqus OAuth base URL.
	DefaultAuthURL = "https://ruqqus.com/"
	// DefaultUserAgent is the default user agent string.
	DefaultUserAgent = "go-ruqqus-api-wrapper/1.0"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// pageSize is the fixed page size of every listing endpoint. A page with
// fewer items signals the end of the listing.
const pageSize = 25

// RateLimitConfig re-exports the transport's opt-in throttle configuration.
// The zero value imposes no throttling; the service enforces its own limits.
type RateLimitConfig = internal.RateLimitConfig

// Config holds the configuration for the Ruqqus client.
//
// ClientID and ClientSecret are always required. Supply either an existing
// Token (for example one reconstituted with LoadTokenFile) or an AuthCode
// obtained from the OAuth consent redirect; when both are set the Token wins.
type Config struct {
	// ClientID and ClientSecret identify the application. Required.
	ClientID     string
	ClientSecret string

	// Token is an existing credential to authorize the client with.
	Token *Token

	// AuthCode is a one-time authorization code to exchange for a Token
	// when no existing Token is supplied.
	AuthCode string

	// Persistent requests a long-lived credential when exchanging AuthCode.
	Persistent bool

	// UserAgent identifies your application to the service.
	UserAgent string

	// BaseURL for the Ruqqus API. Usually doesn't need to be changed.
	BaseURL string

	// AuthURL for the OAuth grant endpoint. Usually doesn't need to be changed.
	AuthURL string

	// HTTPClient to use for requests. Defaults to a client with
	// DefaultTimeout if not specified.
	HTTPClient *http.Client

	// RateLimit enables optional client-side throttling. Nil or zero-valued
	// means no throttling.
	RateLimit *RateLimitConfig

	// EnableTracing wraps the HTTP transport with OpenTelemetry
	// instrumentation.
	EnableTracing bool

	// Logger for structured diagnostics. Optional.
	Logger *slog.Logger

	// OnRefresh is registered on the Token and invoked after every
	// successful refresh, typically to persist the new credential.
	OnRefresh func(*Token)
}

// Client is the authenticated gateway to the Ruqqus API. It owns exactly one
// Token and checks it for staleness before every call.
//
// A Client is safe for concurrent use: token refresh, session-cookie capture,
// and identity memoization are internally synchronized.
type Client struct {
	client *internal.Client
	token  *Token
	config *Config

	identityMu sync.Mutex
	identity   *types.User
}

// Client implements types.Resolver for lazy entity relations.
var _ types.Resolver = (*Client)(nil)

// NewClient creates a Ruqqus client from the provided configuration and
// performs an eager token refresh so that bad credentials fail here rather
// than on the first API call.
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "config", Message: "config cannot be nil"}
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "config", Message: "ClientID and ClientSecret are required"}
	}
	if config.Token == nil && config.AuthCode == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "config", Message: "either Token or AuthCode is required"}
	}

	// Defaults go into a private copy; the caller's Config is never mutated
	// and can be reused.
	cfg := *config
	config = &cfg

	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = DefaultAuthURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if config.EnableTracing {
		transport := config.HTTPClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		config.HTTPClient = &http.Client{
			Timeout:   config.HTTPClient.Timeout,
			Transport: otelhttp.NewTransport(transport),
		}
	}

	tokenOpts := &TokenOptions{
		HTTPClient: config.HTTPClient,
		AuthURL:    config.AuthURL,
		UserAgent:  config.UserAgent,
	}

	token := config.Token
	if token == nil {
		acquired, err := AcquireToken(ctx, config.ClientID, config.ClientSecret, config.AuthCode, config.Persistent, tokenOpts)
		if err != nil {
			return nil, err
		}
		token = acquired
	} else {
		token.applyOptions(tokenOpts)
	}

	if config.OnRefresh != nil {
		token.OnRefresh(config.OnRefresh)
	}

	c := &Client{token: token, config: config}

	httpClient, err := internal.NewClient(
		config.HTTPClient,
		&tokenSource{client: c},
		config.BaseURL,
		config.UserAgent,
		config.RateLimit,
		config.Logger,
	)
	if err != nil {
		return nil, err
	}
	c.client = httpClient

	// Fail fast on bad credentials.
	if err := token.Refresh(ctx, config.ClientID, config.ClientSecret); err != nil {
		return nil, err
	}

	return c, nil
}

// Token returns the credential the client was authorized with.
func (c *Client) Token() *Token {
	return c.token
}

// tokenSource adapts the client's Token to the transport's TokenSource,
// refreshing pre-flight whenever the remaining lifetime drops under the
// threshold.
type tokenSource struct {
	client *Client
}

func (ts *tokenSource) AuthHeader(ctx context.Context) (string, error) {
	c := ts.client
	if c.token.NeedsRefresh() {
		if err := c.token.Refresh(ctx, c.config.ClientID, c.config.ClientSecret); err != nil {
			return "", err
		}
	}
	return c.token.header(), nil
}

// GetUser retrieves the user with the specified username.
//
// Returns *errors.InvalidArgumentError when the username is syntactically
// invalid (no network call is made) and *errors.NotFoundError when the
// account does not exist.
func (c *Client) GetUser(ctx context.Context, username string) (*types.User, error) {
	if !validation.IsValidUsername(username) {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "username", Message: "invalid username"}
	}
	body, err := c.client.Get(ctx, internal.RouteUser(username), nil)
	if err != nil {
		return nil, notFoundOr(err, "user", username)
	}
	return types.DecodeUser(body)
}

// GetGuild retrieves the guild with the specified name.
//
// Returns *errors.InvalidArgumentError when the name is syntactically
// invalid (no network call is made) and *errors.NotFoundError when the guild
// does not exist.
func (c *Client) GetGuild(ctx context.Context, name string) (*types.Guild, error) {
	if !validation.IsValidGuildName(name) {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "name", Message: "invalid guild name"}
	}
	body, err := c.client.Get(ctx, internal.RouteGuild(name), nil)
	if err != nil {
		return nil, notFoundOr(err, "guild", name)
	}
	return types.DecodeGuild(body)
}

// GetPost retrieves the post with the specified ID.
//
// Returns *errors.InvalidArgumentError when the ID is syntactically invalid
// (no network call is made) and *errors.NotFoundError when no such post
// exists.
func (c *Client) GetPost(ctx context.Context, id string) (*types.Post, error) {
	if !validation.IsValidItemID(id) {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "id", Message: "invalid post ID"}
	}
	body, err := c.client.Get(ctx, internal.RoutePost(id), nil)
	if err != nil {
		return nil, notFoundOr(err, "post", id)
	}
	return types.DecodePost(body, c)
}

// GetComment retrieves the comment with the specified ID.
//
// Returns *errors.InvalidArgumentError when the ID is syntactically invalid
// (no network call is made) and *errors.NotFoundError when no such comment
// exists.
func (c *Client) GetComment(ctx context.Context, id string) (*types.Comment, error) {
	if !validation.IsValidItemID(id) {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "id", Message: "invalid comment ID"}
	}
	body, err := c.client.Get(ctx, internal.RouteComment(id), nil)
	if err != nil {
		return nil, notFoundOr(err, "comment", id)
	}
	return types.DecodeComment(body, c)
}

// GetPostFromURL retrieves the post a canonical web URL links to by
// extracting its ID from the URL.
func (c *Client) GetPostFromURL(ctx context.Context, url string) (*types.Post, error) {
	id := validation.PostIDFromURL(url)
	if id == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "url", Message: "URL does not link to a post"}
	}
	return c.GetPost(ctx, id)
}

// GetCommentFromURL retrieves the comment a canonical web URL links to by
// extracting its ID from the URL.
func (c *Client) GetCommentFromURL(ctx context.Context, url string) (*types.Comment, error) {
	id := validation.CommentIDFromURL(url)
	if id == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "url", Message: "URL does not link to a comment"}
	}
	return c.GetComment(ctx, id)
}

// GetIdentity returns the authenticated account. The result is fetched once
// and memoized for the life of the client.
func (c *Client) GetIdentity(ctx context.Context) (*types.User, error) {
	c.identityMu.Lock()
	defer c.identityMu.Unlock()
	if c.identity != nil {
		return c.identity, nil
	}

	body, err := c.client.Get(ctx, internal.RouteIdentity(), nil)
	if err != nil {
		return nil, err
	}
	user, err := types.DecodeUser(body)
	if err != nil {
		return nil, err
	}
	c.identity = user
	return user, nil
}

// UsernameAvailable reports whether the username is valid and available for
// creation. Syntactically invalid names return false without a network call,
// as does any request or decode failure.
func (c *Client) UsernameAvailable(ctx context.Context, username string) bool {
	if !validation.IsValidUsername(username) {
		return false
	}
	return c.available(ctx, internal.UsernameAvailablePath+username, username)
}

// GuildAvailable reports whether the guild name is valid and available for
// creation. Syntactically invalid names return false without a network call,
// as does any request or decode failure.
func (c *Client) GuildAvailable(ctx context.Context, name string) bool {
	if !validation.IsValidGuildName(name) {
		return false
	}
	return c.available(ctx, internal.GuildAvailablePath+name, name)
}

// available performs an availability probe; the response is a boolean keyed
// by the queried name.
func (c *Client) available(ctx context.Context, path, name string) bool {
	body, err := c.client.Get(ctx, path, nil)
	if err != nil {
		return false
	}
	var result map[string]bool
	if err := json.Unmarshal(body, &result); err != nil {
		return false
	}
	return result[name]
}

// ResolveUser implements types.Resolver.
func (c *Client) ResolveUser(ctx context.Context, username string) (*types.User, error) {
	return c.GetUser(ctx, username)
}

// ResolveGuild implements types.Resolver.
func (c *Client) ResolveGuild(ctx context.Context, name string) (*types.Guild, error) {
	return c.GetGuild(ctx, name)
}

// ResolvePost implements types.Resolver.
func (c *Client) ResolvePost(ctx context.Context, id string) (*types.Post, error) {
	return c.GetPost(ctx, id)
}

// ResolveComment implements types.Resolver.
func (c *Client) ResolveComment(ctx context.Context, id string) (*types.Comment, error) {
	return c.GetComment(ctx, id)
}

// notFoundOr converts a client-side HTTP error into *errors.NotFoundError;
// anything else passes through unchanged.
func notFoundOr(err error, kind, id string) error {
	var apiErr *pkgerrs.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return &pkgerrs.NotFoundError{Kind: kind, ID: id, StatusCode: apiErr.StatusCode}
	}
	return err
}
