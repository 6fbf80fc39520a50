package models

// HTTPError represents an HTTP error response
// swagger:model HTTPError
type HTTPError struct {
	// HTTP status code
	Code int `json:"code"`
	// Error message
	Message string `json:"message"`
}

// FeedMeta describes how a feed response was produced
// swagger:model FeedMeta
type FeedMeta struct {
	// Channel the posts were read from
	ChannelID int64 `json:"channel_id"`
	// Requested page size, 0 when the vendor default applied
	RequestedLimit int `json:"requested_limit"`
	// Number of posts returned
	ActualCount int `json:"actual_count"`
	// Cursor for the next page
	Cursor string `json:"cursor,omitempty"`
	// Processing time in milliseconds
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// FeedResponse represents a response for the feed posts endpoint
// swagger:model FeedResponse
type FeedResponse struct {
	// List of posts
	Posts []Post `json:"posts"`
	// Metadata about the request
	Meta FeedMeta `json:"meta"`
}

// CreatePostRequest is the body accepted when publishing a post
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// Message to publish
	Content string `json:"content"`
}

// CreatePostResponse acknowledges a published post
// swagger:model CreatePostResponse
type CreatePostResponse struct {
	// Channel (user) the post was published to
	UserID string `json:"user_id"`
	// Whether the post was shared to connected accounts
	Shared bool `json:"shared"`
}
