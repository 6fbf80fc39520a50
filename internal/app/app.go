// internal/app/app.go
package app

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"channel-feed/internal/auth"
	"channel-feed/internal/client"
	"channel-feed/internal/config"
	"channel-feed/internal/feed"
	"channel-feed/internal/router"
)

type App struct {
	Config    *config.Config
	Echo      *echo.Echo
	Service   feed.FeedService
	Client    *client.TwitchClient
	Validator *auth.Validator
}

func Initialize() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	twitchClient, err := client.NewTwitchClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Twitch client: %w", err)
	}

	return New(cfg, twitchClient), nil
}

// New wires the echo server around an already configured client.
func New(cfg *config.Config, twitchClient *client.TwitchClient) *App {
	feedService := feed.NewFeedService(twitchClient)
	validator := auth.NewValidator(twitchClient)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	router.NewRouter(e, feedService, validator)

	return &App{
		Config:    cfg,
		Echo:      e,
		Service:   feedService,
		Client:    twitchClient,
		Validator: validator,
	}
}

func (a *App) Start() error {
	port := a.Config.ServerPort
	if port == "" {
		port = "8080"
	}
	return a.Echo.Start(":" + port)
}
