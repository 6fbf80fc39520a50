// internal/feed/service.go
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"channel-feed/internal/auth"
	"channel-feed/internal/client"
	"channel-feed/internal/models"
)

// FeedService wraps the channel feed endpoints of the Twitch API.
//
// The Get*/Create* methods never fail on transport problems: they log and
// return an empty slice, nil, or nothing. The Fetch*/Publish* methods return
// the underlying error for callers that need to tell an empty feed from a
// failed request. A missing scope is always returned as *auth.CredentialError.
type FeedService interface {
	GetFeedPosts(ctx context.Context, channelID int64, limit *int, cursor *string, comments *int) []models.Post
	GetFeedPost(ctx context.Context, channelID int64, postID string, comments *int) *models.Post
	CreateFeedPost(ctx context.Context, cred *auth.Credential, message string, share bool) error

	FetchFeedPosts(ctx context.Context, channelID int64, limit *int, cursor *string, comments *int) (models.Feed, error)
	// FetchFeedPost returns nil, nil when the vendor answers with a null body.
	FetchFeedPost(ctx context.Context, channelID int64, postID string, comments *int) (*models.Post, error)
	PublishFeedPost(ctx context.Context, cred *auth.Credential, message string, share bool) error
}

type feedService struct {
	client client.Requester
}

func NewFeedService(requester client.Requester) FeedService {
	return &feedService{client: requester}
}

type createPostBody struct {
	Content string `json:"content"`
}

func postsPath(channelID string) string {
	return fmt.Sprintf("/feed/%s/posts", url.PathEscape(channelID))
}

// GetFeedPosts returns posts from a channel feed, or an empty slice when the
// request fails.
func (s *feedService) GetFeedPosts(ctx context.Context, channelID int64, limit *int, cursor *string, comments *int) []models.Post {
	feed, err := s.FetchFeedPosts(ctx, channelID, limit, cursor, comments)
	if err != nil {
		logFailure("get feed posts", err, "channel_id", channelID)
		return []models.Post{}
	}
	if feed.Posts == nil {
		return []models.Post{}
	}
	return feed.Posts
}

func (s *feedService) FetchFeedPosts(ctx context.Context, channelID int64, limit *int, cursor *string, comments *int) (models.Feed, error) {
	var feed models.Feed
	err := s.client.Execute(ctx, client.Request{
		Method: http.MethodGet,
		Path:   postsPath(strconv.FormatInt(channelID, 10)),
		Params: client.NewParams().
			AddInt("limit", limit).
			AddString("cursor", cursor).
			AddInt("comments", comments),
	}, &feed)
	if err != nil {
		return models.Feed{}, fmt.Errorf("fetch feed posts: %w", err)
	}
	return feed, nil
}

// GetFeedPost returns a single post, or nil when it does not exist or the
// request fails.
func (s *feedService) GetFeedPost(ctx context.Context, channelID int64, postID string, comments *int) *models.Post {
	post, err := s.FetchFeedPost(ctx, channelID, postID, comments)
	if err != nil {
		if client.IsNotFound(err) {
			slog.Info("Feed post not found", "channel_id", channelID, "post_id", postID)
			return nil
		}
		logFailure("get feed post", err, "channel_id", channelID, "post_id", postID)
		return nil
	}
	return post
}

func (s *feedService) FetchFeedPost(ctx context.Context, channelID int64, postID string, comments *int) (*models.Post, error) {
	// a null body leaves post nil
	var post *models.Post
	err := s.client.Execute(ctx, client.Request{
		Method: http.MethodGet,
		Path:   postsPath(strconv.FormatInt(channelID, 10)) + "/" + url.PathEscape(postID),
		Params: client.NewParams().AddInt("comments", comments),
	}, &post)
	if err != nil {
		return nil, fmt.Errorf("fetch feed post: %w", err)
	}
	return post, nil
}

// CreateFeedPost publishes message to the feed of the credential's user.
// Requires the channel_feed_edit scope.
func (s *feedService) CreateFeedPost(ctx context.Context, cred *auth.Credential, message string, share bool) error {
	err := s.PublishFeedPost(ctx, cred, message, share)
	if err == nil {
		return nil
	}

	var credErr *auth.CredentialError
	if errors.As(err, &credErr) {
		return credErr
	}

	logFailure("create feed post", err, "user_id", cred.UserID)
	return nil
}

func (s *feedService) PublishFeedPost(ctx context.Context, cred *auth.Credential, message string, share bool) error {
	if err := auth.RequireScope(cred, auth.ScopeChannelFeedEdit); err != nil {
		return err
	}

	err := s.client.Execute(ctx, client.Request{
		Method: http.MethodPost,
		Path:   postsPath(cred.UserID),
		Params: client.NewParams().AddBool("share", &share),
		Body:   createPostBody{Content: message},
		Token:  cred.Token,
	}, nil)
	if err != nil {
		return fmt.Errorf("create feed post: %w", err)
	}
	return nil
}

func logFailure(op string, err error, attrs ...any) {
	slog.Error("Request failed", append([]any{"op", op, "error", err.Error()}, attrs...)...)

	var te *client.TransportError
	if errors.As(err, &te) {
		slog.Debug("Request failure detail", append([]any{
			"op", op,
			"kind", te.Kind.String(),
			"method", te.Method,
			"path", te.Path,
			"status", te.StatusCode,
		}, attrs...)...)
	}
}
