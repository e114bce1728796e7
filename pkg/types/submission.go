package types

import (
	"context"
	"time"
)

// Submission carries the fields shared by Post and Comment: user-authored
// content with votes, an author, and a containing guild.
type Submission struct {
	ItemBase
	resolver Resolver

	author relation[User]
	guild  relation[Guild]
}

// AuthorName returns the name of the item's creator, or an empty string when
// the account has been deleted.
func (s *Submission) AuthorName() string {
	return s.data.str("author")
}

// Author fetches the creator of the item. The result of the first successful
// fetch is memoized for the life of this instance. A deleted author resolves
// to nil without a network call.
func (s *Submission) Author(ctx context.Context) (*User, error) {
	name := s.AuthorName()
	if name == "" {
		return nil, nil
	}
	return s.author.resolve(func() (*User, error) {
		return s.resolver.ResolveUser(ctx, name)
	})
}

// Body returns the text body of the item.
func (s *Submission) Body() string {
	return s.data.str("body")
}

// BodyHTML returns the text body of the item in HTML format.
func (s *Submission) BodyHTML() string {
	return s.data.str("body_html")
}

// LastEditUTC returns the time of the last edit in seconds since the Unix
// epoch, or 0 if the item was never edited.
func (s *Submission) LastEditUTC() int64 {
	return s.data.integer("edited_utc")
}

// LastEdit returns the time of the last edit.
func (s *Submission) LastEdit() time.Time {
	return time.Unix(s.LastEditUTC(), 0)
}

// IsEdited reports whether the item has been edited.
func (s *Submission) IsEdited() bool {
	return s.LastEditUTC() != 0
}

// Upvotes returns the number of upvotes the item has received.
func (s *Submission) Upvotes() int {
	return int(s.data.integer("upvotes"))
}

// Downvotes returns the number of downvotes the item has received.
func (s *Submission) Downvotes() int {
	return int(s.data.integer("downvotes"))
}

// Score returns upvotes minus downvotes as reported by the service.
func (s *Submission) Score() int {
	return int(s.data.integer("score"))
}

// IsNSFW reports whether the item is flagged as adult content.
func (s *Submission) IsNSFW() bool {
	return s.data.boolean("is_nsfw")
}

// IsNSFL reports whether the item is flagged as NSFL.
func (s *Submission) IsNSFL() bool {
	return s.data.boolean("is_nsfl")
}

// IsArchived reports whether the item has been archived.
func (s *Submission) IsArchived() bool {
	return s.data.boolean("is_archived")
}

// IsDeleted reports whether the item has been deleted.
func (s *Submission) IsDeleted() bool {
	return s.data.boolean("is_deleted")
}

// IsOffensive reports whether the item has been classified as offensive.
func (s *Submission) IsOffensive() bool {
	return s.data.boolean("is_offensive")
}

// FullName returns the type-prefixed global ID of this item.
func (s *Submission) FullName() string {
	return s.data.str("fullname")
}

// GuildName returns the name of the guild this item is contained within.
func (s *Submission) GuildName() string {
	return s.data.str("guild_name")
}

// Guild fetches the guild this item is contained within. The result of the
// first successful fetch is memoized for the life of this instance.
func (s *Submission) Guild(ctx context.Context) (*Guild, error) {
	name := s.GuildName()
	if name == "" {
		return nil, nil
	}
	return s.guild.resolve(func() (*Guild, error) {
		return s.resolver.ResolveGuild(ctx, name)
	})
}

// Title returns the name/title of this item.
func (s *Submission) Title() string {
	return s.data.str("title")
}
