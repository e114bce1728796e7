// Package types defines the typed entities returned by the Ruqqus API.
//
// Every entity is an immutable view over a decoded JSON payload. Entities are
// built exclusively through the Decode* factory functions, which accept either
// a raw JSON document or an already-decoded mapping; there is no other
// construction path, so an entity's data always originated from the service.
// Missing fields surface as zero values at accessor time, never as decode
// errors, which tolerates partial and evolving API payloads.
package types

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
)

// ItemKind identifies the concrete type of an API item.
type ItemKind int

const (
	// KindUser identifies a User.
	KindUser ItemKind = iota + 1
	// KindGuild identifies a Guild.
	KindGuild
	// KindPost identifies a Post.
	KindPost
	// KindComment identifies a Comment.
	KindComment
)

// Item is the common behavior of every major API entity.
type Item interface {
	// ID returns the unique identifier for the item.
	ID() string
	// Kind returns the concrete kind of the item.
	Kind() ItemKind
}

// Equal reports whether two items are the same entity: same concrete kind
// and same ID.
func Equal(a, b Item) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Kind() == b.Kind() && a.ID() != "" && a.ID() == b.ID()
}

// Resolver fetches related entities on behalf of lazy accessors such as
// Submission.Author and Comment.Post. The client facade implements it; each
// resolution is a fresh network call.
type Resolver interface {
	ResolveUser(ctx context.Context, username string) (*User, error)
	ResolveGuild(ctx context.Context, name string) (*Guild, error)
	ResolvePost(ctx context.Context, id string) (*Post, error)
	ResolveComment(ctx context.Context, id string) (*Comment, error)
}

// Payload is a decoded JSON object backing an entity. Entities never mutate
// their payload after construction.
type Payload map[string]any

// decodePayload normalizes the factory input: a raw JSON document (string,
// []byte, or json.RawMessage) or an already-decoded mapping.
func decodePayload(data any) (Payload, error) {
	switch v := data.(type) {
	case Payload:
		return v, nil
	case map[string]any:
		return Payload(v), nil
	case []byte:
		return unmarshalPayload(v)
	case json.RawMessage:
		return unmarshalPayload(v)
	case string:
		return unmarshalPayload([]byte(v))
	case nil:
		return nil, &pkgerrs.ParseError{Err: fmt.Errorf("payload cannot be nil")}
	default:
		return nil, &pkgerrs.ParseError{Err: fmt.Errorf("unsupported payload type %T", data)}
	}
}

func unmarshalPayload(raw []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &pkgerrs.ParseError{Err: err}
	}
	return p, nil
}

func (p Payload) str(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

func (p Payload) integer(key string) int64 {
	switch v := p[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}

func (p Payload) boolean(key string) bool {
	b, _ := p[key].(bool)
	return b
}

func (p Payload) child(key string) Payload {
	if m, ok := p[key].(map[string]any); ok {
		return Payload(m)
	}
	return nil
}

func (p Payload) children(key string) []Payload {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Payload, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Payload(m))
		}
	}
	return out
}

// relation is a memoized cell for a lazily resolved related entity. The first
// successful resolution is cached for the life of the owning entity; failed
// resolutions are not cached, so a later access may retry. Access is
// mutex-guarded so entities can be shared across goroutines.
type relation[T any] struct {
	mu       sync.Mutex
	resolved bool
	value    *T
}

func (r *relation[T]) resolve(fetch func() (*T, error)) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return r.value, nil
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	r.value = v
	r.resolved = true
	return v, nil
}

// ItemBase carries the identity fields shared by every major API entity.
type ItemBase struct {
	data Payload
}

// ID returns the unique ID for this item.
func (b *ItemBase) ID() string {
	return b.data.str("id")
}

// CreatedUTC returns the creation time in seconds since the Unix epoch.
func (b *ItemBase) CreatedUTC() int64 {
	return b.data.integer("created_utc")
}

// Created returns the creation time.
func (b *ItemBase) Created() time.Time {
	return time.Unix(b.CreatedUTC(), 0)
}

// Permalink returns a relative link to this item.
func (b *ItemBase) Permalink() string {
	return b.data.str("permalink")
}

// IsBanned reports whether the item has been banned.
func (b *ItemBase) IsBanned() bool {
	return b.data.boolean("is_banned")
}
