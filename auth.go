package ruqqus

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
)

// Scope is a capability tag an application can request from a user during
// OAuth authorization.
type Scope string

// The scopes the service recognizes.
const (
	ScopeIdentity    Scope = "identity"
	ScopeCreate      Scope = "create"
	ScopeRead        Scope = "read"
	ScopeUpdate      Scope = "update"
	ScopeDelete      Scope = "delete"
	ScopeVote        Scope = "vote"
	ScopeGuildmaster Scope = "guildmaster"
)

var validScopes = map[Scope]bool{
	ScopeIdentity:    true,
	ScopeCreate:      true,
	ScopeRead:        true,
	ScopeUpdate:      true,
	ScopeDelete:      true,
	ScopeVote:        true,
	ScopeGuildmaster: true,
}

// AuthorizeURL generates the URL a user navigates to in order to authorize an
// application. The redirect URL receives the OAuth authorization code, which
// can then be exchanged with AcquireToken.
//
// Scopes that imply account access (create, update, guildmaster) require the
// identity scope; it is added automatically when missing. state is a CSRF
// token echoed back on the redirect; when empty, a random one is generated.
// permanent requests authorization that persists until the user explicitly
// revokes it.
func AuthorizeURL(clientID, redirect string, scopes []Scope, permanent bool, state string) (string, error) {
	if clientID == "" {
		return "", &pkgerrs.InvalidArgumentError{Argument: "clientID", Message: "client ID cannot be empty"}
	}
	if u, err := url.Parse(redirect); err != nil || u.Scheme == "" || u.Host == "" {
		return "", &pkgerrs.InvalidArgumentError{Argument: "redirect", Message: "invalid redirect URI"}
	}
	if len(scopes) == 0 {
		return "", &pkgerrs.InvalidArgumentError{Argument: "scopes", Message: "scopes cannot be empty"}
	}

	needsIdentity := false
	hasIdentity := false
	for _, s := range scopes {
		if !validScopes[s] {
			return "", &pkgerrs.InvalidArgumentError{Argument: "scopes", Message: "invalid scope: " + string(s)}
		}
		switch s {
		case ScopeIdentity:
			hasIdentity = true
		case ScopeCreate, ScopeUpdate, ScopeGuildmaster:
			needsIdentity = true
		}
	}
	if needsIdentity && !hasIdentity {
		scopes = append(scopes, ScopeIdentity)
	}

	if state == "" {
		state = uuid.NewString()
	}

	joined := make([]string, len(scopes))
	for i, s := range scopes {
		joined[i] = string(s)
	}

	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirect)
	q.Set("scope", strings.Join(joined, ","))
	q.Set("state", state)
	q.Set("permanent", strconv.FormatBool(permanent))

	return DefaultAuthURL + "oauth/authorize?" + q.Encode(), nil
}
