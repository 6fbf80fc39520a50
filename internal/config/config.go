// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultTwitchBaseURL = "https://api.twitch.tv/kraken"

type Config struct {
	TwitchBaseURL  string
	ClientID       string
	UserAgent      string
	ProxyURLs      []string
	TLSFingerprint string
	RequestTimeout time.Duration
	MaxIdleConns   int
	ServerPort     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	clientID := os.Getenv("TWITCH_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("TWITCH_CLIENT_ID environment variable is required")
	}

	proxyURLs, err := parseProxyURLs(os.Getenv("TWITCH_PROXY_URLS"))
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(getEnv("TWITCH_API_BASE_URL", DefaultTwitchBaseURL), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid TWITCH_API_BASE_URL %s: %w", baseURL, err)
	}

	fingerprint := strings.ToLower(getEnv("TWITCH_TLS_FINGERPRINT", "none"))
	switch fingerprint {
	case "none", "chrome", "firefox", "safari", "edge", "random":
	default:
		return nil, fmt.Errorf("unsupported TWITCH_TLS_FINGERPRINT: %s", fingerprint)
	}

	return &Config{
		TwitchBaseURL:  baseURL,
		ClientID:       clientID,
		UserAgent:      getEnv("USER_AGENT", "channel-feed/1.0"),
		ProxyURLs:      proxyURLs,
		TLSFingerprint: fingerprint,
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxIdleConns:   getEnvInt("TRANSPORT_MAX_IDLE_CONNS", 100),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ReadTimeout:    getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}, nil
}

// parseProxyURLs accepts an empty value; requests then go out directly.
func parseProxyURLs(raw string) ([]string, error) {
	var proxyURLs []string

	for _, proxy := range strings.Split(strings.TrimSpace(raw), ",") {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}

		if !strings.HasPrefix(proxy, "http://") && !strings.HasPrefix(proxy, "https://") && !strings.HasPrefix(proxy, "socks5://") {
			return nil, fmt.Errorf("invalid proxy URL format, must start with http://, https:// or socks5://: %s", proxy)
		}

		if _, err := url.Parse(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %s: %w", proxy, err)
		}

		proxyURLs = append(proxyURLs, proxy)
	}

	return proxyURLs, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
