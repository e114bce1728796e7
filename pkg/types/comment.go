package types

import (
	"context"
	"sync"
)

// Comment describes a comment in a post.
type Comment struct {
	Submission

	post relation[Post]

	parentMu  sync.Mutex
	parent    Item
	parentSet bool
}

// DecodeComment builds a Comment from a raw JSON document or a decoded
// mapping. This is the sole construction path for comments.
func DecodeComment(data any, r Resolver) (*Comment, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return nil, err
	}
	c := &Comment{}
	c.data = payload
	c.resolver = r
	return c, nil
}

// Kind returns KindComment.
func (c *Comment) Kind() ItemKind { return KindComment }

// Level returns the nesting depth in the comment tree, starting at 1 for a
// direct reply to the post.
func (c *Comment) Level() int {
	return int(c.data.integer("level"))
}

// ParentID returns the unique ID of this comment's parent.
func (c *Comment) ParentID() string {
	return c.data.str("parent")
}

// IsParentComment reports whether the comment's parent is another comment.
func (c *Comment) IsParentComment() bool {
	return c.Level() > 1
}

// IsParentPost reports whether the comment's parent is the post itself.
func (c *Comment) IsParentPost() bool {
	return c.Level() == 1
}

// PostID returns the ID of the post this comment belongs to.
func (c *Comment) PostID() string {
	return c.data.str("post")
}

// Post fetches the post this comment belongs to. The result of the first
// successful fetch is memoized for the life of this instance.
func (c *Comment) Post(ctx context.Context) (*Post, error) {
	id := c.PostID()
	if id == "" {
		return nil, nil
	}
	return c.post.resolve(func() (*Post, error) {
		return c.resolver.ResolvePost(ctx, id)
	})
}

// Parent fetches the parent of this comment: a *Comment when Level is
// greater than 1, otherwise the containing *Post. The result of the first
// successful fetch is memoized for the life of this instance.
func (c *Comment) Parent(ctx context.Context) (Item, error) {
	id := c.ParentID()
	if id == "" {
		return nil, nil
	}

	c.parentMu.Lock()
	defer c.parentMu.Unlock()
	if c.parentSet {
		return c.parent, nil
	}

	var (
		parent Item
		err    error
	)
	if c.IsParentComment() {
		parent, err = c.resolver.ResolveComment(ctx, id)
	} else {
		parent, err = c.resolver.ResolvePost(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	c.parent = parent
	c.parentSet = true
	return parent, nil
}
