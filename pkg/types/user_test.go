package types

import "testing"

func TestUserFields(t *testing.T) {
	user, err := DecodeUser(Payload{
		"id":            "u1",
		"username":      "captain_obvious",
		"comment_count": float64(120),
		"post_count":    float64(14),
		"comment_rep":   float64(300),
		"post_rep":      float64(55),
		"bio":           "hello",
		"ban_reason":    "",
	})
	if err != nil {
		t.Fatalf("DecodeUser: %v", err)
	}

	if user.Kind() != KindUser {
		t.Errorf("Kind() = %v", user.Kind())
	}
	if user.Username() != "captain_obvious" {
		t.Errorf("Username() = %q", user.Username())
	}
	if user.CommentCount() != 120 || user.PostCount() != 14 {
		t.Errorf("counts = %d/%d", user.CommentCount(), user.PostCount())
	}
	if user.TotalRep() != 355 {
		t.Errorf("TotalRep() = %d, want 355", user.TotalRep())
	}
	if user.Bio() != "hello" {
		t.Errorf("Bio() = %q", user.Bio())
	}
	if user.BanReason() != "" {
		t.Errorf("BanReason() = %q", user.BanReason())
	}
}

func TestUserBadges(t *testing.T) {
	user, err := DecodeUser(Payload{
		"id": "u1",
		"badges": []any{
			map[string]any{"name": "Early Adopter", "text": "joined early", "created_utc": float64(1580000000)},
			map[string]any{"name": "Verified Email"},
		},
	})
	if err != nil {
		t.Fatalf("DecodeUser: %v", err)
	}

	badges := user.Badges()
	if len(badges) != 2 {
		t.Fatalf("len(Badges()) = %d, want 2", len(badges))
	}
	if badges[0].Name() != "Early Adopter" || badges[0].Text() != "joined early" {
		t.Errorf("badge[0] = %q/%q", badges[0].Name(), badges[0].Text())
	}
	if badges[0].Created().Unix() != 1580000000 {
		t.Errorf("badge[0].Created().Unix() = %d", badges[0].Created().Unix())
	}
	if !badges[1].Created().IsZero() {
		t.Error("badge[1].Created() not zero for absent created_utc")
	}

	// Memoized: same backing objects on every call.
	if user.Badges()[0] != badges[0] {
		t.Error("Badges not stable across calls")
	}
}

func TestUserBadgesAbsent(t *testing.T) {
	user, err := DecodeUser(Payload{"id": "u1"})
	if err != nil {
		t.Fatalf("DecodeUser: %v", err)
	}
	if badges := user.Badges(); len(badges) != 0 {
		t.Errorf("len(Badges()) = %d, want 0", len(badges))
	}
}

func TestUserTitle(t *testing.T) {
	user, err := DecodeUser(Payload{
		"id":    "u1",
		"title": map[string]any{"id": float64(1), "text": ", the Brave", "color": "#00ff00", "kind": float64(1)},
	})
	if err != nil {
		t.Fatalf("DecodeUser: %v", err)
	}

	title := user.Title()
	if title == nil {
		t.Fatal("Title() = nil")
	}
	if title.Text() != ", the Brave" {
		t.Errorf("Title().Text() = %q", title.Text())
	}
	if user.Title() != title {
		t.Error("Title not memoized")
	}
}

func TestUserTitleAbsent(t *testing.T) {
	user, err := DecodeUser(Payload{"id": "u1"})
	if err != nil {
		t.Fatalf("DecodeUser: %v", err)
	}
	if user.Title() != nil {
		t.Error("Title() != nil for a user with no title")
	}
}

func TestGuildFields(t *testing.T) {
	guild, err := DecodeGuild(Payload{
		"id":               "g1",
		"name":             "SomeGuild",
		"fullname":         "+SomeGuild",
		"subscriber_count": float64(1234),
		"mods_count":       float64(3),
		"over_18":          true,
		"is_private":       false,
		"description":      "a guild",
		"color":            "#805ad5",
	})
	if err != nil {
		t.Fatalf("DecodeGuild: %v", err)
	}

	if guild.Kind() != KindGuild {
		t.Errorf("Kind() = %v", guild.Kind())
	}
	if guild.Name() != "SomeGuild" {
		t.Errorf("Name() = %q", guild.Name())
	}
	if guild.FullName() != "+SomeGuild" {
		t.Errorf("FullName() = %q", guild.FullName())
	}
	if guild.MemberCount() != 1234 {
		t.Errorf("MemberCount() = %d", guild.MemberCount())
	}
	if guild.GuildmasterCount() != 3 {
		t.Errorf("GuildmasterCount() = %d", guild.GuildmasterCount())
	}
	if !guild.IsNSFW() {
		t.Error("IsNSFW() = false, want true")
	}
	if guild.IsPrivate() {
		t.Error("IsPrivate() = true, want false")
	}
	if guild.Color() != "#805ad5" {
		t.Errorf("Color() = %q", guild.Color())
	}
}
