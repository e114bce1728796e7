package internal

import "fmt"

// Route templates for the Ruqqus REST API, relative to the site base URL.
// This is a pure data table; the HTTP client resolves them against the
// configured base.
const (
	// APIBase is the versioned API prefix.
	APIBase = "api/v1"

	// OAuthGrantPath is the endpoint for both authorization-code and
	// refresh grants.
	OAuthGrantPath = "oauth/grant"

	// UsernameAvailablePath is the prefix for username availability checks.
	UsernameAvailablePath = "api/is_available/"

	// GuildAvailablePath is the prefix for guild-name availability checks.
	GuildAvailablePath = "api/board_available/"
)

// RouteUser returns the path for fetching a user by username.
func RouteUser(username string) string {
	return fmt.Sprintf("%s/user/%s", APIBase, username)
}

// RouteGuild returns the path for fetching a guild by name.
func RouteGuild(name string) string {
	return fmt.Sprintf("%s/guild/%s", APIBase, name)
}

// RoutePost returns the path for fetching a post by ID.
func RoutePost(id string) string {
	return fmt.Sprintf("%s/post/%s", APIBase, id)
}

// RouteComment returns the path for fetching a comment by ID.
func RouteComment(id string) string {
	return fmt.Sprintf("%s/comment/%s", APIBase, id)
}

// RouteIdentity returns the path for fetching the authenticated account.
func RouteIdentity() string {
	return APIBase + "/identity"
}

// RouteGuildListing returns the path for a guild's post listing.
func RouteGuildListing(name string) string {
	return fmt.Sprintf("%s/guild/%s/listing", APIBase, name)
}

// RouteGuildComments returns the path for a guild's comment listing.
func RouteGuildComments(name string) string {
	return fmt.Sprintf("%s/guild/%s/comments", APIBase, name)
}

// RouteUserListing returns the path for a user's post listing.
func RouteUserListing(username string) string {
	return fmt.Sprintf("%s/user/%s/listing", APIBase, username)
}

// RouteUserComments returns the path for a user's comment listing.
func RouteUserComments(username string) string {
	return fmt.Sprintf("%s/user/%s/comments", APIBase, username)
}

// RouteGuilds returns the path for the site-wide guild listing.
func RouteGuilds() string {
	return APIBase + "/guilds"
}

// RouteAllListing returns the path for the site-wide post listing.
func RouteAllListing() string {
	return APIBase + "/all/listing"
}

// RouteFrontListing returns the path for the personalized front-page listing.
func RouteFrontListing() string {
	return APIBase + "/front/listing"
}

// RouteSubmit returns the path for creating a post.
func RouteSubmit() string {
	return APIBase + "/submit"
}

// RouteCommentSubmit returns the path for creating a comment.
func RouteCommentSubmit() string {
	return APIBase + "/comment"
}

// RouteDeletePost returns the path for deleting a post.
func RouteDeletePost(id string) string {
	return fmt.Sprintf("%s/delete_post/%s", APIBase, id)
}

// RouteDeleteComment returns the path for deleting a comment.
func RouteDeleteComment(id string) string {
	return fmt.Sprintf("%s/delete/comment/%s", APIBase, id)
}

// RouteVotePost returns the path for voting on a post.
func RouteVotePost(id string, amount int) string {
	return fmt.Sprintf("%s/vote/post/%s/%d", APIBase, id, amount)
}

// RouteVoteComment returns the path for voting on a comment.
func RouteVoteComment(id string, amount int) string {
	return fmt.Sprintf("%s/vote/comment/%s/%d", APIBase, id, amount)
}
