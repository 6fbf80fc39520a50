// internal/router/router.go
package router

import (
	"channel-feed/internal/feed"
	"channel-feed/internal/handler/http"

	"github.com/labstack/echo/v4"
)

func NewRouter(e *echo.Echo, svc feed.FeedService, resolver http.CredentialResolver) {
	fh := http.NewFeedHandler(svc, resolver)
	hh := http.NewHealthHandler()

	e.GET("/health", hh.Health)
	e.GET("/feed/:channel_id/posts", fh.GetFeedPosts)
	e.GET("/feed/:channel_id/posts/:post_id", fh.GetFeedPost)
	e.POST("/feed/posts", fh.CreateFeedPost)
}
