package types

import "time"

// Badge describes a trophy that can be earned by an account for specific
// accomplishments. Badges are plain value objects with no network behavior.
type Badge struct {
	data Payload
}

// Name returns the name of the badge.
func (b *Badge) Name() string {
	return b.data.str("name")
}

// Text returns a brief description of the badge.
func (b *Badge) Text() string {
	return b.data.str("text")
}

// URL returns the URL associated with the badge, or an empty string if none
// is defined.
func (b *Badge) URL() string {
	return b.data.str("url")
}

// CreatedUTC returns the time the badge was earned in seconds since the Unix
// epoch, or 0 if not defined.
func (b *Badge) CreatedUTC() int64 {
	return b.data.integer("created_utc")
}

// Created returns the time the badge was earned, or the zero time if not
// defined.
func (b *Badge) Created() time.Time {
	utc := b.CreatedUTC()
	if utc == 0 {
		return time.Time{}
	}
	return time.Unix(utc, 0)
}

// Title describes a title associated with a username. Titles are plain value
// objects with no network behavior.
type Title struct {
	data Payload
}

// ID returns the unique ID associated with this title.
func (t *Title) ID() int {
	return int(t.data.integer("id"))
}

// Text returns the text value of the title.
func (t *Title) Text() string {
	return t.data.str("text")
}

// Color returns the color used to display the title, in HTML format.
func (t *Title) Color() string {
	return t.data.str("color")
}

// Rank returns an integer determining the rank of the title.
func (t *Title) Rank() int {
	return int(t.data.integer("kind"))
}
