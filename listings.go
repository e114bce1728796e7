package ruqqus

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/jamesprial/go-ruqqus-api-wrapper/internal"
	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/types"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/validation"
)

// Sort orders accepted by post listings.
const (
	SortHot      = "hot"
	SortTop      = "top"
	SortNew      = "new"
	SortDisputed = "disputed"
	SortActivity = "activity"
)

// Time filters accepted by post listings.
const (
	FilterAll   = "all"
	FilterDay   = "day"
	FilterWeek  = "week"
	FilterMonth = "month"
	FilterYear  = "year"
)

var validSorts = map[string]bool{
	SortHot:      true,
	SortTop:      true,
	SortNew:      true,
	SortDisputed: true,
	SortActivity: true,
}

var validFilters = map[string]bool{
	FilterAll:   true,
	FilterDay:   true,
	FilterWeek:  true,
	FilterMonth: true,
	FilterYear:  true,
}

// ListingOptions controls the ordering of post listings. The zero value asks
// for the newest posts across all time.
type ListingOptions struct {
	// Sort is one of the Sort constants. Defaults to SortNew.
	Sort string
	// Filter is one of the Filter time window constants. Defaults to
	// FilterAll.
	Filter string
}

// query validates the options and renders them as listing query parameters.
func (o *ListingOptions) query() (url.Values, error) {
	sort, filter := SortNew, FilterAll
	if o != nil {
		if o.Sort != "" {
			sort = o.Sort
		}
		if o.Filter != "" {
			filter = o.Filter
		}
	}
	if !validSorts[sort] {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "Sort", Message: "invalid sort: " + sort}
	}
	if !validFilters[filter] {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "Filter", Message: "invalid filter: " + filter}
	}
	q := url.Values{}
	q.Set("sort", sort)
	q.Set("filter", filter)
	return q, nil
}

// The enumerations below walk a listing page by page and invoke the callback
// once per item, in the order the service returns them. Enumeration ends when
// a page comes back short, when the service responds with an error payload
// (treated as the end of the listing, not a failure), or when the callback
// returns a non-nil error, which aborts the walk and is returned as-is.

// eachListing drives offset pagination for a single listing endpoint.
func eachListing[T any](ctx context.Context, c *Client, path string, query url.Values, decode func(json.RawMessage) (*T, error), fn func(*T) error) error {
	if fn == nil {
		return &pkgerrs.InvalidArgumentError{Argument: "fn", Message: "callback cannot be nil"}
	}
	for page := 1; ; page++ {
		q := url.Values{}
		for key, values := range query {
			q[key] = values
		}
		q.Set("page", strconv.Itoa(page))

		body, err := c.client.Get(ctx, path, q)
		if err != nil {
			return err
		}

		items, more, err := decodeListingPage(body)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		for _, raw := range items {
			item, err := decode(raw)
			if err != nil {
				return err
			}
			if err := fn(item); err != nil {
				return err
			}
		}

		if len(items) < pageSize {
			return nil
		}
	}
}

// decodeListingPage unpacks one listing envelope. A payload carrying an
// error field, or no data field at all, marks the end of the listing.
func decodeListingPage(body []byte) ([]json.RawMessage, bool, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false, &pkgerrs.ParseError{Operation: "listing", Err: err}
	}
	if _, hasError := envelope["error"]; hasError {
		return nil, false, nil
	}
	data, ok := envelope["data"]
	if !ok {
		return nil, false, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, &pkgerrs.ParseError{Operation: "listing", Err: err}
	}
	return items, true, nil
}

func (c *Client) decodePost(raw json.RawMessage) (*types.Post, error) {
	return types.DecodePost(raw, c)
}

func (c *Client) decodeComment(raw json.RawMessage) (*types.Comment, error) {
	return types.DecodeComment(raw, c)
}

func decodeGuild(raw json.RawMessage) (*types.Guild, error) {
	return types.DecodeGuild(raw)
}

// EachPost enumerates the site-wide post listing.
func (c *Client) EachPost(ctx context.Context, opts *ListingOptions, fn func(*types.Post) error) error {
	q, err := opts.query()
	if err != nil {
		return err
	}
	return eachListing(ctx, c, internal.RouteAllListing(), q, c.decodePost, fn)
}

// EachHomePost enumerates the authenticated user's personalized front-page
// listing.
func (c *Client) EachHomePost(ctx context.Context, opts *ListingOptions, fn func(*types.Post) error) error {
	q, err := opts.query()
	if err != nil {
		return err
	}
	return eachListing(ctx, c, internal.RouteFrontListing(), q, c.decodePost, fn)
}

// EachGuild enumerates every guild on the site.
func (c *Client) EachGuild(ctx context.Context, fn func(*types.Guild) error) error {
	return eachListing(ctx, c, internal.RouteGuilds(), nil, decodeGuild, fn)
}

// EachGuildPost enumerates the posts of a guild.
func (c *Client) EachGuildPost(ctx context.Context, name string, opts *ListingOptions, fn func(*types.Post) error) error {
	if !validation.IsValidGuildName(name) {
		return &pkgerrs.InvalidArgumentError{Argument: "name", Message: "invalid guild name"}
	}
	q, err := opts.query()
	if err != nil {
		return err
	}
	return eachListing(ctx, c, internal.RouteGuildListing(name), q, c.decodePost, fn)
}

// EachGuildComment enumerates the comments of a guild, newest first,
// regardless of which post they belong to.
func (c *Client) EachGuildComment(ctx context.Context, name string, fn func(*types.Comment) error) error {
	if !validation.IsValidGuildName(name) {
		return &pkgerrs.InvalidArgumentError{Argument: "name", Message: "invalid guild name"}
	}
	return eachListing(ctx, c, internal.RouteGuildComments(name), nil, c.decodeComment, fn)
}

// EachUserPost enumerates the posts of a user.
func (c *Client) EachUserPost(ctx context.Context, username string, fn func(*types.Post) error) error {
	if !validation.IsValidUsername(username) {
		return &pkgerrs.InvalidArgumentError{Argument: "username", Message: "invalid username"}
	}
	return eachListing(ctx, c, internal.RouteUserListing(username), nil, c.decodePost, fn)
}

// EachUserComment enumerates the comments of a user.
func (c *Client) EachUserComment(ctx context.Context, username string, fn func(*types.Comment) error) error {
	if !validation.IsValidUsername(username) {
		return &pkgerrs.InvalidArgumentError{Argument: "username", Message: "invalid username"}
	}
	return eachListing(ctx, c, internal.RouteUserComments(username), nil, c.decodeComment, fn)
}

// EachPostComment enumerates the comments of a single post.
//
// The service offers no per-post comment endpoint, so this walks the post's
// guild comment listing and keeps only comments belonging to the post. Cost
// grows with the guild's total comment volume, not the post's.
func (c *Client) EachPostComment(ctx context.Context, post *types.Post, fn func(*types.Comment) error) error {
	if post == nil {
		return &pkgerrs.InvalidArgumentError{Argument: "post", Message: "post cannot be nil"}
	}
	if fn == nil {
		return &pkgerrs.InvalidArgumentError{Argument: "fn", Message: "callback cannot be nil"}
	}
	postID := post.ID()
	return c.EachGuildComment(ctx, post.GuildName(), func(comment *types.Comment) error {
		if comment.PostID() != postID {
			return nil
		}
		return fn(comment)
	})
}
