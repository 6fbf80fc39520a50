// internal/handler/http/feed_handler.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"channel-feed/internal/auth"
	"channel-feed/internal/client"
	"channel-feed/internal/feed"
	"channel-feed/internal/models"
)

// CredentialResolver turns the token presented by a caller into a Credential.
type CredentialResolver interface {
	Validate(ctx context.Context, token string) (*auth.Credential, error)
}

type FeedHandler struct {
	svc      feed.FeedService
	resolver CredentialResolver
}

func NewFeedHandler(svc feed.FeedService, resolver CredentialResolver) *FeedHandler {
	return &FeedHandler{svc: svc, resolver: resolver}
}

// GetFeedPosts godoc
// @Summary Get posts from a channel feed
// @Description Retrieves the most recent posts of a channel feed, each with its most recent comments
// @Tags feed
// @Accept json
// @Produce json
// @Param channel_id path int true "Twitch channel ID"
// @Param limit query int false "Maximum number of posts (vendor default 10, maximum 100)"
// @Param cursor query string false "Cursor of the page to fetch"
// @Param comments query int false "Number of comments per post (vendor default 5, maximum 5)"
// @Success 200 {object} models.FeedResponse
// @Failure 400 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /feed/{channel_id}/posts [get]
func (h *FeedHandler) GetFeedPosts(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return err
	}

	limit, err := optionalInt(c, "limit")
	if err != nil {
		return err
	}
	comments, err := optionalInt(c, "comments")
	if err != nil {
		return err
	}
	var cursor *string
	if v := c.QueryParam("cursor"); v != "" {
		cursor = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	startTime := time.Now()

	f, err := h.svc.FetchFeedPosts(ctx, channelID, limit, cursor, comments)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("feed error: %v", err))
	}

	posts := f.Posts
	if posts == nil {
		posts = []models.Post{}
	}

	resp := models.FeedResponse{
		Posts: posts,
		Meta: models.FeedMeta{
			ChannelID:        channelID,
			ActualCount:      len(posts),
			Cursor:           f.Cursor,
			ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		},
	}
	if limit != nil {
		resp.Meta.RequestedLimit = *limit
	}

	return c.JSON(http.StatusOK, resp)
}

// GetFeedPost godoc
// @Summary Get a single channel feed post
// @Description Retrieves one post of a channel feed with its most recent comments
// @Tags feed
// @Accept json
// @Produce json
// @Param channel_id path int true "Twitch channel ID"
// @Param post_id path string true "Post ID"
// @Param comments query int false "Number of comments to include (vendor default 5, maximum 5)"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.HTTPError
// @Failure 404 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /feed/{channel_id}/posts/{post_id} [get]
func (h *FeedHandler) GetFeedPost(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return err
	}

	postID := c.Param("post_id")
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing `post_id` parameter")
	}

	comments, err := optionalInt(c, "comments")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	post, err := h.svc.FetchFeedPost(ctx, channelID, postID, comments)
	if err != nil {
		if client.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("feed error: %v", err))
	}
	if post == nil {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}

	return c.JSON(http.StatusOK, post)
}

// CreateFeedPost godoc
// @Summary Publish a post to the caller's channel feed
// @Description Requires an OAuth token carrying the channel_feed_edit scope
// @Tags feed
// @Accept json
// @Produce json
// @Param Authorization header string true "OAuth <token>"
// @Param share query bool false "Share to connected Twitter account"
// @Param body body models.CreatePostRequest true "Post content"
// @Success 201 {object} models.CreatePostResponse
// @Failure 400 {object} models.HTTPError
// @Failure 401 {object} models.HTTPError
// @Failure 403 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /feed/posts [post]
func (h *FeedHandler) CreateFeedPost(c echo.Context) error {
	token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing OAuth token")
	}

	var share bool
	if s := c.QueryParam("share"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid `share`")
		}
		share = v
	}

	var body models.CreatePostRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(body.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing `content`")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	cred, err := h.resolver.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || client.IsStatus(err, http.StatusUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid OAuth token")
		}
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("token validation error: %v", err))
	}

	if err := h.svc.PublishFeedPost(ctx, cred, body.Content, share); err != nil {
		var credErr *auth.CredentialError
		if errors.As(err, &credErr) {
			return echo.NewHTTPError(http.StatusForbidden, credErr.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("feed error: %v", err))
	}

	return c.JSON(http.StatusCreated, models.CreatePostResponse{UserID: cred.UserID, Shared: share})
}

func channelIDParam(c echo.Context) (int64, error) {
	channelID, err := strconv.ParseInt(c.Param("channel_id"), 10, 64)
	if err != nil || channelID <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid `channel_id`")
	}
	return channelID, nil
}

// optionalInt returns nil for an absent query parameter so that the vendor
// default applies.
func optionalInt(c echo.Context, name string) (*int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid `%s`", name))
	}
	return &v, nil
}

func bearerToken(header string) string {
	for _, prefix := range []string{"OAuth ", "Bearer "} {
		if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
			return strings.TrimSpace(header[len(prefix):])
		}
	}
	return ""
}
