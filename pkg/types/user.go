package types

import "sync"

// User represents a Ruqqus user account.
type User struct {
	ItemBase

	mu        sync.Mutex
	badges    []*Badge
	badgesSet bool
	title     *Title
	titleSet  bool
}

// DecodeUser builds a User from a raw JSON document or a decoded mapping.
// This is the sole construction path for users.
func DecodeUser(data any) (*User, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return nil, err
	}
	return &User{ItemBase: ItemBase{data: payload}}, nil
}

// Kind returns KindUser.
func (u *User) Kind() ItemKind { return KindUser }

// Username returns the username of the account.
func (u *User) Username() string {
	return u.data.str("username")
}

// CommentCount returns the number of comments the user has created.
func (u *User) CommentCount() int {
	return int(u.data.integer("comment_count"))
}

// PostCount returns the number of posts the user has created.
func (u *User) PostCount() int {
	return int(u.data.integer("post_count"))
}

// CommentRep returns the amount of rep the user has earned from comments.
func (u *User) CommentRep() int {
	return int(u.data.integer("comment_rep"))
}

// PostRep returns the amount of rep the user has earned from posts.
func (u *User) PostRep() int {
	return int(u.data.integer("post_rep"))
}

// TotalRep returns the combined rep earned from comments and posts.
func (u *User) TotalRep() int {
	return u.CommentRep() + u.PostRep()
}

// Badges returns the badges associated with this account. The slice is built
// from the user's own payload on first access; no network call is made.
func (u *User) Badges() []*Badge {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.badgesSet {
		for _, data := range u.data.children("badges") {
			u.badges = append(u.badges, &Badge{data: data})
		}
		u.badgesSet = true
	}
	return u.badges
}

// Title returns the title the user has associated with their account, or nil
// if none is assigned.
func (u *User) Title() *Title {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.titleSet {
		if data := u.data.child("title"); data != nil {
			u.title = &Title{data: data}
		}
		u.titleSet = true
	}
	return u.title
}

// BannerURL returns the URL for the banner image associated with the account.
func (u *User) BannerURL() string {
	return u.data.str("banner_url")
}

// ProfileURL returns the URL for the profile image associated with the account.
func (u *User) ProfileURL() string {
	return u.data.str("profile_url")
}

// Bio returns the statement/biography the user has associated with their
// account.
func (u *User) Bio() string {
	return u.data.str("bio")
}

// BioHTML returns the user's biography in HTML format.
func (u *User) BioHTML() string {
	return u.data.str("bio_html")
}

// BanReason returns the reason the user was banned, or an empty string if
// they were not.
func (u *User) BanReason() string {
	return u.data.str("ban_reason")
}
