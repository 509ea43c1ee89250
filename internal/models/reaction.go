package models

import (
	"sort"
	"time"
)

// Reaction is one user's emoji response to one message. The composite
// unique index makes re-adding the same (message, user, emoji) triple an
// upsert instead of a duplicate row.
type Reaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MessageID uint   `gorm:"not null;uniqueIndex:idx_message_user_emoji" json:"message_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_message_user_emoji" json:"user_id"`
	Emoji     string `gorm:"size:32;not null;uniqueIndex:idx_message_user_emoji" json:"emoji"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ReactionGroup is the aggregated per-emoji view the clients render:
// emoji, how many, and who (in the order they reacted).
type ReactionGroup struct {
	Emoji string         `json:"emoji"`
	Count int            `json:"count"`
	Users []UserResponse `json:"users"`
}

// GroupReactions folds raw reaction rows into per-emoji groups. Input is
// expected ordered by CreatedAt so the user lists keep reaction order.
// Groups sort by count descending; ties break on emoji lexical order.
func GroupReactions(reactions []Reaction) []ReactionGroup {
	byEmoji := make(map[string]*ReactionGroup)
	order := make([]string, 0)

	for _, r := range reactions {
		g, ok := byEmoji[r.Emoji]
		if !ok {
			g = &ReactionGroup{Emoji: r.Emoji}
			byEmoji[r.Emoji] = g
			order = append(order, r.Emoji)
		}
		g.Count++
		g.Users = append(g.Users, r.User.ToResponse())
	}

	groups := make([]ReactionGroup, 0, len(order))
	for _, emoji := range order {
		groups = append(groups, *byEmoji[emoji])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Emoji < groups[j].Emoji
	})

	return groups
}
