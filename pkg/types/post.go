package types

import (
	"context"
	"sync"
)

// Post represents a post on Ruqqus.
type Post struct {
	Submission

	originalGuild relation[Guild]

	titleMu        sync.Mutex
	authorTitle    *Title
	authorTitleSet bool
}

// DecodePost builds a Post from a raw JSON document or a decoded mapping.
// This is the sole construction path for posts.
func DecodePost(data any, r Resolver) (*Post, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return nil, err
	}
	p := &Post{}
	p.data = payload
	p.resolver = r
	return p, nil
}

// Kind returns KindPost.
func (p *Post) Kind() ItemKind { return KindPost }

// CommentCount returns the number of comments made on the post.
func (p *Post) CommentCount() int {
	return int(p.data.integer("comment_count"))
}

// Domain returns the domain name for link posts, otherwise a short
// descriptor of the post type.
func (p *Post) Domain() string {
	return p.data.str("domain")
}

// EmbedURL returns the embed URL for the post.
func (p *Post) EmbedURL() string {
	return p.data.str("embed_url")
}

// OriginalGuildName returns the name of the guild this post was originally
// posted in.
func (p *Post) OriginalGuildName() string {
	return p.data.str("original_guild_name")
}

// OriginalGuild fetches the guild this post was originally posted in. The
// result of the first successful fetch is memoized for the life of this
// instance.
func (p *Post) OriginalGuild(ctx context.Context) (*Guild, error) {
	name := p.OriginalGuildName()
	if name == "" {
		return nil, nil
	}
	return p.originalGuild.resolve(func() (*Guild, error) {
		return p.resolver.ResolveGuild(ctx, name)
	})
}

// ThumbURL returns the URL of the post's thumbnail image, or an empty string
// if none exists.
func (p *Post) ThumbURL() string {
	return p.data.str("thumb_url")
}

// URL returns the URL the post links to, or nil if none is specified. An
// empty string in the payload means "no link" and is normalized to nil.
func (p *Post) URL() *string {
	u := p.data.str("url")
	if u == "" {
		return nil
	}
	return &u
}

// AuthorTitle returns the title assigned to the post's author, or nil if
// none is defined. The Title is built from the post's own payload; no
// network call is made.
func (p *Post) AuthorTitle() *Title {
	p.titleMu.Lock()
	defer p.titleMu.Unlock()
	if !p.authorTitleSet {
		if data := p.data.child("author_title"); data != nil {
			p.authorTitle = &Title{data: data}
		}
		p.authorTitleSet = true
	}
	return p.authorTitle
}
