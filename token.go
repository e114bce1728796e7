package ruqqus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jamesprial/go-ruqqus-api-wrapper/internal"
	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
)

// refreshThreshold is how much remaining lifetime triggers a proactive
// refresh. Refreshing before literal expiry avoids 401s on requests that
// would otherwise race the deadline.
const refreshThreshold = 60 * time.Second

// grantTypeCode and grantTypeRefresh are the provider's OAuth grant types.
const (
	grantTypeCode    = "code"
	grantTypeRefresh = "refresh"
)

// Token models an OAuth2 bearer credential for the Ruqqus API. It tracks
// expiry, refreshes itself on demand, and round-trips through a flat JSON
// form for persistence.
//
// A Token is created once via AcquireToken (or reconstituted via DecodeToken
// or LoadTokenFile) and then mutated in place by Refresh for the remainder of
// the process. All state is mutex-guarded, so a Token may be shared across
// goroutines.
type Token struct {
	mu sync.Mutex

	accessToken  string
	refreshToken string
	tokenType    string
	expiresAt    int64
	scope        string

	httpClient *http.Client
	grantURL   string
	userAgent  string

	// now overrides the wall clock for expiry checks in tests.
	now func() time.Time

	onRefresh func(*Token)
}

// TokenOptions customizes how a Token talks to the OAuth endpoint. The zero
// value uses http.DefaultClient against the default site URL.
type TokenOptions struct {
	// HTTPClient to use for grant requests.
	HTTPClient *http.Client
	// AuthURL overrides the site base URL for the OAuth grant endpoint.
	AuthURL string
	// UserAgent identifies the application on grant requests.
	UserAgent string
}

// grantResponse is the provider's response to both grant types. Pointer
// fields distinguish absent from empty so a refresh only overwrites what the
// provider actually returned.
type grantResponse struct {
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	TokenType    *string `json:"token_type"`
	ExpiresAt    *int64  `json:"expires_at"`
	Scopes       *string `json:"scopes"`
	OAuthError   string  `json:"oauth_error"`
}

// AcquireToken exchanges a one-time authorization code for a token pair via
// the provider's grant endpoint. persistent requests a long-lived credential
// that survives until the user explicitly revokes it.
func AcquireToken(ctx context.Context, clientID, clientSecret, code string, persistent bool, opts *TokenOptions) (*Token, error) {
	if clientID == "" || clientSecret == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "clientID", Message: "client credentials cannot be empty"}
	}
	if code == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "code", Message: "authorization code cannot be empty"}
	}

	t := &Token{}
	t.applyOptions(opts)

	params := map[string]any{
		"code":          code,
		"client_id":     clientID,
		"client_secret": clientSecret,
		"grant_type":    grantTypeCode,
		"permanent":     persistent,
	}

	resp, status, err := t.grant(ctx, params, "")
	if err != nil {
		return nil, err
	}
	if resp.OAuthError != "" {
		return nil, &pkgerrs.AuthError{StatusCode: status, OAuthError: resp.OAuthError}
	}
	if resp.AccessToken == nil || *resp.AccessToken == "" {
		return nil, &pkgerrs.AuthError{StatusCode: status, Err: fmt.Errorf("access token was empty in response")}
	}

	t.merge(resp)
	return t, nil
}

// Refresh exchanges the stored refresh token for a new access token. The
// current (possibly expired) access token is sent as a bearer credential,
// which the provider tolerates for refresh calls specifically. On success all
// internal fields returned by the provider are replaced atomically, and the
// registered on-refresh callback, if any, is invoked.
//
// A failure is reported only when the HTTP status is not success AND the body
// lacks an explicit oauth_error marker; this mirrors the provider's contract,
// ambiguous as it is.
func (t *Token) Refresh(ctx context.Context, clientID, clientSecret string) error {
	t.mu.Lock()

	params := map[string]any{
		"client_id":     clientID,
		"client_secret": clientSecret,
		"refresh_token": t.refreshToken,
		"grant_type":    grantTypeRefresh,
	}
	bearer := "Bearer " + t.accessToken

	resp, status, err := t.grantLocked(ctx, params, bearer)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	if (status < 200 || status >= 300) && resp.OAuthError == "" {
		t.mu.Unlock()
		return &pkgerrs.AuthError{StatusCode: status, Err: fmt.Errorf("failed to refresh authentication token")}
	}

	t.mergeLocked(resp)
	callback := t.onRefresh
	t.mu.Unlock()

	if callback != nil {
		callback(t)
	}
	return nil
}

// OnRefresh registers a callback invoked after every successful refresh,
// typically to persist the new token. Registering replaces any previously
// registered callback; pass nil to clear it.
func (t *Token) OnRefresh(fn func(*Token)) {
	t.mu.Lock()
	t.onRefresh = fn
	t.mu.Unlock()
}

// IsExpired reports whether the token's expiry is now or in the past.
func (t *Token) IsExpired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiresAt <= t.unixNowLocked()
}

// NeedsRefresh reports whether the remaining lifetime has dropped under the
// proactive refresh threshold. This is checked before every authenticated
// call, not only at literal expiry. The comparison is at whole-second
// granularity, matching the provider's expires_at resolution: a token with
// exactly 60 seconds remaining does not yet need a refresh.
func (t *Token) NeedsRefresh() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiresAt-t.unixNowLocked() < int64(refreshThreshold/time.Second)
}

// unixNowLocked returns the current Unix time; the caller holds the mutex.
func (t *Token) unixNowLocked() int64 {
	if t.now != nil {
		return t.now().Unix()
	}
	return time.Now().Unix()
}

// Expires returns the absolute time the token expires.
func (t *Token) Expires() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Unix(t.expiresAt, 0)
}

// AccessToken returns the current access token value.
func (t *Token) AccessToken() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accessToken
}

// RefreshToken returns the current refresh token value.
func (t *Token) RefreshToken() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshToken
}

// Type returns the token type used in the Authorization header scheme.
func (t *Token) Type() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tokenType == "" {
		return "Bearer"
	}
	return t.tokenType
}

// Scopes returns the capability tags this token authorizes.
func (t *Token) Scopes() []Scope {
	t.mu.Lock()
	scope := t.scope
	t.mu.Unlock()

	if scope == "" {
		return nil
	}
	parts := strings.Split(scope, ",")
	out := make([]Scope, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Scope(p))
		}
	}
	return out
}

// header returns the Authorization header value for the current credential.
func (t *Token) header() string {
	typ := t.Type()
	t.mu.Lock()
	defer t.mu.Unlock()
	return typ + " " + t.accessToken
}

// tokenPayload is the persisted form: the full internal field set with no
// information loss.
type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    int64  `json:"expires_at"`
	Scopes       string `json:"scopes"`
}

// Serialize returns the token's persisted JSON form.
func (t *Token) Serialize() ([]byte, error) {
	t.mu.Lock()
	payload := tokenPayload{
		AccessToken:  t.accessToken,
		RefreshToken: t.refreshToken,
		TokenType:    t.tokenType,
		ExpiresAt:    t.expiresAt,
		Scopes:       t.scope,
	}
	t.mu.Unlock()
	return json.Marshal(payload)
}

// DecodeToken reconstitutes a Token from its persisted form. data may be a
// raw JSON document (string, []byte, or json.RawMessage) or an
// already-decoded mapping.
func DecodeToken(data any, opts *TokenOptions) (*Token, error) {
	var raw []byte
	switch v := data.(type) {
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	case string:
		raw = []byte(v)
	case map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, &pkgerrs.ParseError{Operation: "DecodeToken", Err: err}
		}
		raw = encoded
	default:
		return nil, &pkgerrs.ParseError{Operation: "DecodeToken", Err: fmt.Errorf("unsupported token payload type %T", data)}
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &pkgerrs.ParseError{Operation: "DecodeToken", Err: err}
	}

	t := &Token{
		accessToken:  payload.AccessToken,
		refreshToken: payload.RefreshToken,
		tokenType:    payload.TokenType,
		expiresAt:    payload.ExpiresAt,
		scope:        payload.Scopes,
	}
	t.applyOptions(opts)
	return t, nil
}

// LoadTokenFile reads a persisted token from the named file.
func LoadTokenFile(path string, opts *TokenOptions) (*Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeToken(raw, opts)
}

// SaveFile writes the token's persisted form as the sole content of the
// named file. The token is credential-equivalent to a password; store it
// accordingly.
func (t *Token) SaveFile(path string) error {
	raw, err := t.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func (t *Token) applyOptions(opts *TokenOptions) {
	t.httpClient = http.DefaultClient
	t.grantURL = DefaultAuthURL + internal.OAuthGrantPath
	if opts == nil {
		return
	}
	if opts.HTTPClient != nil {
		t.httpClient = opts.HTTPClient
	}
	if opts.AuthURL != "" {
		t.grantURL = strings.TrimSuffix(opts.AuthURL, "/") + "/" + internal.OAuthGrantPath
	}
	if opts.UserAgent != "" {
		t.userAgent = opts.UserAgent
	}
}

// grant posts to the OAuth endpoint. Safe to call without holding the mutex.
func (t *Token) grant(ctx context.Context, params map[string]any, bearer string) (*grantResponse, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grantLocked(ctx, params, bearer)
}

// grantLocked posts to the OAuth endpoint; the caller holds the mutex.
func (t *Token) grantLocked(ctx context.Context, params map[string]any, bearer string) (*grantResponse, int, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, 0, &pkgerrs.AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.grantURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &pkgerrs.AuthError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, 0, &pkgerrs.AuthError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &pkgerrs.AuthError{StatusCode: resp.StatusCode, Err: err}
	}

	var decoded grantResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, resp.StatusCode, &pkgerrs.AuthError{StatusCode: resp.StatusCode, Body: string(raw), Err: err}
	}

	return &decoded, resp.StatusCode, nil
}

// merge overwrites internal fields with those present in the grant response.
func (t *Token) merge(resp *grantResponse) {
	t.mu.Lock()
	t.mergeLocked(resp)
	t.mu.Unlock()
}

func (t *Token) mergeLocked(resp *grantResponse) {
	if resp.AccessToken != nil {
		t.accessToken = *resp.AccessToken
	}
	if resp.RefreshToken != nil {
		t.refreshToken = *resp.RefreshToken
	}
	if resp.TokenType != nil {
		t.tokenType = *resp.TokenType
	}
	if resp.ExpiresAt != nil {
		t.expiresAt = *resp.ExpiresAt
	}
	if resp.Scopes != nil {
		t.scope = *resp.Scopes
	}
}
