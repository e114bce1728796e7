package types

// Guild represents a topical community on Ruqqus.
type Guild struct {
	ItemBase
}

// DecodeGuild builds a Guild from a raw JSON document or a decoded mapping.
// This is the sole construction path for guilds.
func DecodeGuild(data any) (*Guild, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return nil, err
	}
	return &Guild{ItemBase: ItemBase{data: payload}}, nil
}

// Kind returns KindGuild.
func (g *Guild) Kind() ItemKind { return KindGuild }

// Name returns the name of the guild.
func (g *Guild) Name() string {
	return g.data.str("name")
}

// MemberCount returns the number of members subscribed to the guild, or 0
// when the field is absent.
func (g *Guild) MemberCount() int {
	return int(g.data.integer("subscriber_count"))
}

// GuildmasterCount returns the number of guildmasters who moderate this
// guild, or 0 when the field is absent.
func (g *Guild) GuildmasterCount() int {
	return int(g.data.integer("mods_count"))
}

// FullName returns the type-prefixed global ID of the guild.
func (g *Guild) FullName() string {
	return g.data.str("fullname")
}

// IsNSFW reports whether the guild contains adult content.
func (g *Guild) IsNSFW() bool {
	return g.data.boolean("over_18")
}

// IsPrivate reports whether the guild requires membership to view content.
func (g *Guild) IsPrivate() bool {
	return g.data.boolean("is_private")
}

// IsRestricted reports whether posting is restricted by the guildmasters.
func (g *Guild) IsRestricted() bool {
	return g.data.boolean("is_restricted")
}

// Description returns the description of the guild.
func (g *Guild) Description() string {
	return g.data.str("description")
}

// DescriptionHTML returns the description of the guild in HTML format.
func (g *Guild) DescriptionHTML() string {
	return g.data.str("description_html")
}

// BannerURL returns the URL for the banner image associated with the guild.
func (g *Guild) BannerURL() string {
	return g.data.str("banner_url")
}

// ProfileURL returns the URL for the profile image associated with the guild.
func (g *Guild) ProfileURL() string {
	return g.data.str("profile_url")
}

// Color returns the accent color used for the guild, in HTML format.
func (g *Guild) Color() string {
	return g.data.str("color")
}
