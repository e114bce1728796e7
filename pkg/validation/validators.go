// Package validation provides syntactic validators for Ruqqus identifiers.
// All validators are applied before any network call is made, so malformed
// input fails fast without a round trip.
package validation

import "regexp"

// Regular expressions for validating Ruqqus data formats
var (
	// usernameRegex matches valid usernames (5-25 chars, alphanumeric + underscore)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{5,25}$`)

	// passwordRegex enforces the client-side password policy (8-100 chars, any)
	passwordRegex = regexp.MustCompile(`^.{8,100}$`)

	// guildRegex matches valid guild names: leading alphanumeric, then 2-24
	// chars of alphanumeric or underscore
	guildRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_]{2,24}$`)

	// itemIDRegex matches post and comment identifiers
	itemIDRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	// postURLRegex captures the ID of a post from a canonical Ruqqus URL
	postURLRegex = regexp.MustCompile(`/post/([A-Za-z0-9]+)/?.*`)

	// commentURLRegex captures the ID of a comment from a canonical Ruqqus URL
	commentURLRegex = regexp.MustCompile(`/post/.+/.+/([A-Za-z0-9]+)/?`)
)

// IsValidUsername reports whether s is a syntactically valid username.
func IsValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// IsValidPassword reports whether s satisfies the client-side password policy.
// The server may impose additional constraints.
func IsValidPassword(s string) bool {
	return passwordRegex.MatchString(s)
}

// IsValidGuildName reports whether s is a syntactically valid guild name.
func IsValidGuildName(s string) bool {
	return guildRegex.MatchString(s)
}

// IsValidItemID reports whether s is a syntactically valid post or comment ID.
func IsValidItemID(s string) bool {
	return itemIDRegex.MatchString(s)
}

// PostIDFromURL extracts the post ID from a canonical post URL.
// It returns an empty string when the URL does not link to a post.
func PostIDFromURL(url string) string {
	m := postURLRegex.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// CommentIDFromURL extracts the comment ID from a canonical comment URL.
// It returns an empty string when the URL does not link to a comment.
func CommentIDFromURL(url string) string {
	m := commentURLRegex.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
