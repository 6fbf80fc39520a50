package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"channel-feed/pkg/utils"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *TwitchClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(utils.NewHTTPClient(nil, 5*time.Second, "test-agent"), server.URL+"/kraken/", "client-123")
}

func TestExecuteDecodesResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/kraken/feed/1/posts" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.RawQuery != "limit=3" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Accept"); got != krakenAccept {
			t.Errorf("Unexpected Accept header %s", got)
		}
		if got := r.Header.Get("Client-ID"); got != "client-123" {
			t.Errorf("Unexpected Client-ID header %s", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("Expected X-Request-Id header")
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Expected no Authorization header without a token")
		}
		w.Write([]byte(`{"_total":1,"posts":[{"id":"p1","body":"hello"}]}`))
	})

	var out struct {
		Total int `json:"_total"`
		Posts []struct {
			ID string `json:"id"`
		} `json:"posts"`
	}
	limit := 3
	err := c.Execute(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/feed/1/posts",
		Params: NewParams().AddInt("limit", &limit),
	}, &out)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if out.Total != 1 || len(out.Posts) != 1 || out.Posts[0].ID != "p1" {
		t.Errorf("Unexpected decoded value: %+v", out)
	}
}

func TestExecuteSendsBodyAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "OAuth secret" {
			t.Errorf("Unexpected Authorization header %s", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Unexpected Content-Type %s", got)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("Body is not JSON: %s", raw)
		}
		if body["content"] != "hi" {
			t.Errorf("Unexpected body %v", body)
		}
		w.Write([]byte(`{"post":{}}`))
	})

	err := c.Execute(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/feed/7/posts",
		Body:   map[string]string{"content": "hi"},
		Token:  "secret",
	}, nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
}

func TestExecuteClassifiesStatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not Found","status":404,"message":"Post not found"}`))
	})

	var out map[string]any
	err := c.Execute(context.Background(), Request{Method: http.MethodGet, Path: "/feed/1/posts/x"}, &out)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TransportError, got %v", err)
	}
	if te.Kind != KindStatus || te.StatusCode != http.StatusNotFound {
		t.Errorf("Unexpected error kind/status: %v/%d", te.Kind, te.StatusCode)
	}
	if te.Message != "Post not found" {
		t.Errorf("Expected vendor message, got %q", te.Message)
	}
	if !IsNotFound(err) {
		t.Error("Expected IsNotFound to report true")
	}
}

func TestExecuteClassifiesDecodeErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"posts": "not-a-list"}`))
	})

	var out struct {
		Posts []string `json:"posts"`
	}
	err := c.Execute(context.Background(), Request{Method: http.MethodGet, Path: "/feed/1/posts"}, &out)

	var te *TransportError
	if !errors.As(err, &te) || te.Kind != KindDecode {
		t.Fatalf("Expected decode error, got %v", err)
	}
}

func TestExecuteClassifiesNetworkErrors(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	c := New(utils.NewHTTPClient(nil, time.Second, ""), baseURL, "client-123")
	err := c.Execute(context.Background(), Request{Method: http.MethodGet, Path: "/feed/1/posts"}, nil)

	var te *TransportError
	if !errors.As(err, &te) || te.Kind != KindNetwork {
		t.Fatalf("Expected network error, got %v", err)
	}
}

func TestURLWithoutParams(t *testing.T) {
	c := New(utils.NewHTTPClient(nil, time.Second, ""), "https://api.twitch.tv/kraken/", "id")

	if got := c.URL(Request{Path: "/feed/1/posts"}); got != "https://api.twitch.tv/kraken/feed/1/posts" {
		t.Errorf("Unexpected URL %s", got)
	}
}
