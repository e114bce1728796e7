package ruqqus

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/jamesprial/go-ruqqus-api-wrapper/internal"
	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/types"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/validation"
)

// Full-name prefixes distinguishing posts from comments at the ID level.
const (
	postFullNamePrefix    = "t2_"
	commentFullNamePrefix = "t3_"
)

// The mutating convenience operations below are "best effort" by contract:
// argument validation failures are returned as errors, but submission
// failures (rate limits, malformed responses, the provider's inconsistent
// error shapes) are swallowed into a nil or false result. Each has a strict
// unexported core that propagates errors, so the two layers can be tested
// independently.

// CreateComment submits a new comment on a post. When parent is non-nil the
// comment is filed as a reply under that comment, otherwise directly under
// the post.
//
// Returns the created comment, or nil if the submission failed.
func (c *Client) CreateComment(ctx context.Context, body string, post *types.Post, parent *types.Comment) (*types.Comment, error) {
	if post == nil {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "post", Message: "post cannot be nil"}
	}
	parentName := post.FullName()
	if parent != nil {
		parentName = parent.FullName()
	}
	return c.createComment(ctx, body, post.ID(), parentName)
}

// CreateCommentByID is CreateComment for callers holding bare identifiers.
// An empty parentCommentID files the comment directly under the post.
func (c *Client) CreateCommentByID(ctx context.Context, body, postID, parentCommentID string) (*types.Comment, error) {
	postID = strings.TrimPrefix(postID, postFullNamePrefix)
	if !validation.IsValidItemID(postID) {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "postID", Message: "invalid post ID"}
	}

	parentName := postFullNamePrefix + postID
	if parentCommentID != "" {
		parentCommentID = strings.TrimPrefix(parentCommentID, commentFullNamePrefix)
		if !validation.IsValidItemID(parentCommentID) {
			return nil, &pkgerrs.InvalidArgumentError{Argument: "parentCommentID", Message: "invalid comment ID"}
		}
		parentName = commentFullNamePrefix + parentCommentID
	}

	return c.createComment(ctx, body, postID, parentName)
}

// ReplyToComment submits a reply under an existing comment.
//
// Returns the created comment, or nil if the submission failed.
func (c *Client) ReplyToComment(ctx context.Context, body string, comment *types.Comment) (*types.Comment, error) {
	if comment == nil {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "comment", Message: "comment cannot be nil"}
	}
	return c.createComment(ctx, body, comment.PostID(), comment.FullName())
}

// ReplyToCommentID resolves a bare comment ID to a full comment first, then
// submits a reply under it.
func (c *Client) ReplyToCommentID(ctx context.Context, body, commentID string) (*types.Comment, error) {
	comment, err := c.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return c.ReplyToComment(ctx, body, comment)
}

// createComment validates and submits, swallowing submission failures.
func (c *Client) createComment(ctx context.Context, body, postID, parentFullName string) (*types.Comment, error) {
	if body == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "body", Message: "body cannot be empty"}
	}
	comment, err := c.submitComment(ctx, body, postID, parentFullName)
	if err != nil {
		return nil, nil
	}
	return comment, nil
}

// submitComment is the strict core of comment creation.
func (c *Client) submitComment(ctx context.Context, body, postID, parentFullName string) (*types.Comment, error) {
	params := map[string]any{
		"submission":      postID,
		"parent_fullname": parentFullName,
		"body":            body,
	}
	resp, err := c.client.PostJSON(ctx, internal.RouteCommentSubmit(), params)
	if err != nil {
		return nil, err
	}
	return types.DecodeComment(resp, c)
}

// CreatePostRequest describes a post to be created. Exactly one content
// source must be present among Body, URL, and ImagePath.
type CreatePostRequest struct {
	// Guild is the name of the guild to post to. A leading "+" prefix is
	// stripped.
	Guild string

	// Title of the post. Required.
	Title string

	// Body is the text body of the post. Supports Markdown.
	Body string

	// URL makes this a link post.
	URL string

	// ImagePath attaches a local image file. When ImgurClientID is set the
	// image is uploaded to Imgur first and submitted as a link; otherwise
	// the file is attached directly to the submission.
	ImagePath string

	// ImgurClientID enables proxying the image through Imgur.
	ImgurClientID string
}

// CreatePost creates a new post as the current user.
//
// Returns the created post, or nil if the submission failed. Argument
// problems (invalid guild name, empty title, no content source, malformed
// URL) are returned as *errors.InvalidArgumentError before any network call.
func (c *Client) CreatePost(ctx context.Context, req *CreatePostRequest) (*types.Post, error) {
	if req == nil {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "req", Message: "request cannot be nil"}
	}

	guild := strings.TrimPrefix(strings.TrimSpace(req.Guild), "+")
	if !validation.IsValidGuildName(guild) {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "Guild", Message: "invalid guild name"}
	}
	if req.Title == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "Title", Message: "title cannot be empty"}
	}
	if req.Body == "" && req.URL == "" && req.ImagePath == "" {
		return nil, &pkgerrs.InvalidArgumentError{Argument: "Body", Message: "text body cannot be empty without URL or image"}
	}
	if req.URL != "" {
		if u, err := url.Parse(req.URL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, &pkgerrs.InvalidArgumentError{Argument: "URL", Message: "invalid URI"}
		}
	}

	post, err := c.submitPost(ctx, guild, req)
	if err != nil {
		return nil, nil
	}
	return post, nil
}

// submitPost is the strict core of post creation.
func (c *Client) submitPost(ctx context.Context, guild string, req *CreatePostRequest) (*types.Post, error) {
	params := map[string]any{
		"title": req.Title,
		"board": guild,
	}
	if req.Body != "" {
		params["body"] = req.Body
	}

	switch {
	case req.ImagePath != "" && req.ImgurClientID != "":
		link, err := ImgurUpload(ctx, c.config.HTTPClient, req.ImgurClientID, req.ImagePath)
		if err != nil {
			return nil, err
		}
		params["url"] = link
	case req.ImagePath != "":
		return c.submitPostWithFile(ctx, params, req.ImagePath)
	case req.URL != "":
		params["url"] = req.URL
	}

	resp, err := c.client.PostJSON(ctx, internal.RouteSubmit(), params)
	if err != nil {
		return nil, err
	}
	return types.DecodePost(resp, c)
}

// submitPostWithFile attaches a local image directly to the submission.
func (c *Client) submitPostWithFile(ctx context.Context, params map[string]any, imagePath string) (*types.Post, error) {
	fields := make(map[string]string, len(params))
	for key, value := range params {
		if s, ok := value.(string); ok {
			fields[key] = s
		}
	}
	resp, err := c.client.PostMultipart(ctx, internal.RouteSubmit(), fields, "file", imagePath)
	if err != nil {
		return nil, err
	}
	return types.DecodePost(resp, c)
}

// DeletePost deletes a post previously created by the current user. id may
// be a bare ID or a full name.
//
// Returns *errors.InvalidArgumentError when the ID is syntactically invalid
// (no network call is made). Otherwise the result is true only when the
// provider signals success with an empty response body; provider-side
// failures yield false without an error.
func (c *Client) DeletePost(ctx context.Context, id string) (bool, error) {
	id = strings.TrimPrefix(id, postFullNamePrefix)
	if !validation.IsValidItemID(id) {
		return false, &pkgerrs.InvalidArgumentError{Argument: "id", Message: "invalid post ID"}
	}
	resp, err := c.client.PostJSON(ctx, internal.RouteDeletePost(id), nil)
	return err == nil && len(resp) == 0, nil
}

// DeleteComment deletes a comment previously created by the current user.
// id may be a bare ID or a full name.
//
// Returns *errors.InvalidArgumentError when the ID is syntactically invalid
// (no network call is made). Otherwise the result is true only when the
// provider signals success with an empty response body; provider-side
// failures yield false without an error.
func (c *Client) DeleteComment(ctx context.Context, id string) (bool, error) {
	id = strings.TrimPrefix(id, commentFullNamePrefix)
	if !validation.IsValidItemID(id) {
		return false, &pkgerrs.InvalidArgumentError{Argument: "id", Message: "invalid comment ID"}
	}
	resp, err := c.client.PostJSON(ctx, internal.RouteDeleteComment(id), nil)
	return err == nil && len(resp) == 0, nil
}

// VotePost places a vote on a post. value is clamped into {-1, 0, 1} before
// dispatch; 0 retracts a previous vote.
//
// Returns *errors.InvalidArgumentError when the ID is syntactically invalid
// (no network call is made). Otherwise the result is true when the response
// reports no error field, false on any provider-side failure.
func (c *Client) VotePost(ctx context.Context, id string, value int) (bool, error) {
	id = strings.TrimPrefix(id, postFullNamePrefix)
	if !validation.IsValidItemID(id) {
		return false, &pkgerrs.InvalidArgumentError{Argument: "id", Message: "invalid post ID"}
	}
	return c.vote(ctx, internal.RouteVotePost(id, clampVote(value))), nil
}

// VoteComment places a vote on a comment. value is clamped into {-1, 0, 1}
// before dispatch; 0 retracts a previous vote.
//
// Returns *errors.InvalidArgumentError when the ID is syntactically invalid
// (no network call is made). Otherwise the result is true when the response
// reports no error field, false on any provider-side failure.
func (c *Client) VoteComment(ctx context.Context, id string, value int) (bool, error) {
	id = strings.TrimPrefix(id, commentFullNamePrefix)
	if !validation.IsValidItemID(id) {
		return false, &pkgerrs.InvalidArgumentError{Argument: "id", Message: "invalid comment ID"}
	}
	return c.vote(ctx, internal.RouteVoteComment(id, clampVote(value))), nil
}

// vote dispatches a vote and inspects the response shape: the provider
// signals success by the absence of an error field, not by status alone.
func (c *Client) vote(ctx context.Context, path string) bool {
	resp, err := c.client.PostJSON(ctx, path, nil)
	if err != nil {
		return false
	}
	var result map[string]any
	if err := json.Unmarshal(resp, &result); err != nil {
		return false
	}
	_, hasError := result["error"]
	return !hasError
}

// clampVote clamps a vote value into {-1, 0, 1}.
func clampVote(value int) int {
	if value > 1 {
		return 1
	}
	if value < -1 {
		return -1
	}
	return value
}
