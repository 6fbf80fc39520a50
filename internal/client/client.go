// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"channel-feed/internal/config"
	"channel-feed/pkg/utils"
)

const krakenAccept = "application/vnd.twitchtv.v5+json"

// Request describes a single API call. It is built per call and never
// modified once handed to Execute.
type Request struct {
	Method string
	Path   string
	Params Params
	// Body is JSON encoded when non-nil.
	Body any
	// Token is sent as "Authorization: OAuth <token>" when set.
	Token string
}

type TwitchClient struct {
	http     *utils.HTTPClient
	baseURL  string
	clientID string
}

func NewTwitchClient(cfg *config.Config) (*TwitchClient, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("TWITCH_CLIENT_ID environment variable is required")
	}

	transport, err := utils.NewTransport(utils.TransportOptions{
		ProxyURLs:    cfg.ProxyURLs,
		Fingerprint:  cfg.TLSFingerprint,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP transport: %w", err)
	}

	slog.Info("Initializing Twitch client",
		"base_url", cfg.TwitchBaseURL,
		"proxies", len(cfg.ProxyURLs),
		"tls_fingerprint", cfg.TLSFingerprint,
	)

	return New(utils.NewHTTPClient(transport, cfg.RequestTimeout, cfg.UserAgent), cfg.TwitchBaseURL, cfg.ClientID), nil
}

func New(httpClient *utils.HTTPClient, baseURL, clientID string) *TwitchClient {
	return &TwitchClient{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
	}
}

func (c *TwitchClient) URL(req Request) string {
	u := c.baseURL + req.Path
	if req.Params.Len() > 0 {
		u += "?" + req.Params.Encode()
	}
	return u
}

// Execute sends req and decodes a 2xx body into out. A nil out discards the
// body. Every failure is returned as a *TransportError.
func (c *TwitchClient) Execute(ctx context.Context, req Request, out any) error {
	fail := func(kind ErrorKind, err error) error {
		return &TransportError{Kind: kind, Method: req.Method, Path: req.Path, Err: err}
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fail(KindRequest, fmt.Errorf("encoding body: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.URL(req), body)
	if err != nil {
		return fail(KindRequest, fmt.Errorf("creating request: %w", err))
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", krakenAccept)
	httpReq.Header.Set("Client-ID", c.clientID)
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "OAuth "+req.Token)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, bodyBytes, err := c.http.Do(httpReq)
	if err != nil {
		return fail(KindNetwork, err)
	}

	slog.Debug("Twitch API call",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			Kind:       KindStatus,
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Message:    vendorMessage(bodyBytes),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fail(KindDecode, err)
	}

	return nil
}
