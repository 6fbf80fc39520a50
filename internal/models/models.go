package models

import (
	"time"
)

// User is the author of a post or comment
// swagger:model User
type User struct {
	// Twitch user ID
	ID string `json:"_id"`
	// Login name
	Name string `json:"name"`
	// Display name
	DisplayName string `json:"display_name"`
	// Account type (user, staff, ...)
	Type string `json:"type,omitempty"`
	// Profile bio
	Bio string `json:"bio,omitempty"`
	// Profile image URL
	Logo string `json:"logo,omitempty"`
	// Account creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// Last update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}

// Emote marks an emote occurrence inside a post or comment body
// swagger:model Emote
type Emote struct {
	// Emote ID
	ID int64 `json:"id"`
	// Emoticon set the emote belongs to
	Set int64 `json:"set"`
	// Start offset in the body
	Start int `json:"start"`
	// End offset in the body
	End int `json:"end"`
}

// Reaction aggregates one kind of reaction on a post or comment
// swagger:model Reaction
type Reaction struct {
	// Emote used as reaction
	Emote string `json:"emote"`
	// Number of reactions
	Count int `json:"count"`
	// Users who reacted
	UserIDs []string `json:"user_ids"`
}

// Permissions the caller holds on a post or comment
// swagger:model Permissions
type Permissions struct {
	CanDelete   bool `json:"can_delete"`
	CanModerate bool `json:"can_moderate"`
	CanReply    bool `json:"can_reply"`
}

// Comment represents a comment on a channel feed post
// swagger:model Comment
type Comment struct {
	// Comment ID
	ID string `json:"id"`
	// Comment body text
	Body string `json:"body"`
	// Creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// Whether the comment was deleted
	Deleted bool `json:"deleted"`
	// Emotes used in the body
	Emotes []Emote `json:"emotes"`
	// Reactions keyed by emote
	Reactions map[string]Reaction `json:"reactions"`
	// Comment author
	User User `json:"user"`
	// Caller permissions
	Permissions Permissions `json:"permissions"`
}

// CommentList holds the most recent comments of a post
// swagger:model CommentList
type CommentList struct {
	// Total number of comments on the post
	Total int `json:"_total"`
	// Cursor for the next page of comments
	Cursor string `json:"_cursor"`
	// Most recent comments, bounded by the requested limit
	Comments []Comment `json:"comments"`
}

// Post represents a channel feed post
// swagger:model Post
type Post struct {
	// Post ID
	ID string `json:"id"`
	// Post body/content
	Body string `json:"body"`
	// Creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// Whether the post was deleted
	Deleted bool `json:"deleted"`
	// Emotes used in the body
	Emotes []Emote `json:"emotes"`
	// Reactions keyed by emote
	Reactions map[string]Reaction `json:"reactions"`
	// Post author
	User User `json:"user"`
	// Caller permissions
	Permissions Permissions `json:"permissions"`
	// Most recent comments
	Comments CommentList `json:"comments"`
}

// Feed is one page of a channel feed
// swagger:model Feed
type Feed struct {
	// Total number of posts in the feed
	Total int `json:"_total"`
	// Cursor for the next page
	Cursor string `json:"_cursor"`
	// Feed topic
	Topic string `json:"_topic"`
	// Posts on this page
	Posts []Post `json:"posts"`
}
