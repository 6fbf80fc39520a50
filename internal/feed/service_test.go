package feed_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"channel-feed/internal/auth"
	"channel-feed/internal/client"
	"channel-feed/internal/feed"
	"channel-feed/pkg/utils"
)

const feedJSON = `{
  "_cursor": "1479487861147094000",
  "_topic": "feeds.channel.44322889",
  "_total": 2,
  "posts": [
    {
      "id": "20591",
      "body": "Kappa post",
      "created_at": "2016-11-18T16:51:01Z",
      "deleted": false,
      "emotes": [{"start": 0, "end": 4, "id": 25, "set": 0}],
      "reactions": {"endorse": {"count": 2, "emote": "endorse", "user_ids": ["1", "2"]}},
      "user": {"_id": "44322889", "name": "dallas", "display_name": "dallas"},
      "permissions": {"can_delete": false, "can_moderate": false, "can_reply": true},
      "comments": {
        "_cursor": "",
        "_total": 1,
        "comments": [
          {"id": "132629", "body": "nice", "created_at": "2016-11-18T17:00:00Z", "user": {"_id": "7", "name": "viewer"}}
        ]
      }
    },
    {
      "id": "20592",
      "body": "second",
      "created_at": "2016-11-18T16:52:01Z",
      "user": {"_id": "44322889", "name": "dallas"},
      "comments": {"_total": 0, "comments": []}
    }
  ]
}`

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Auth   string
	Body   []byte
}

type fakeTwitch struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeTwitch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeTwitch) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newService(t *testing.T, handler http.HandlerFunc) (feed.FeedService, *fakeTwitch) {
	t.Helper()
	fake := &fakeTwitch{handler: handler}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	c := client.New(utils.NewHTTPClient(nil, 5*time.Second, "test-agent"), server.URL+"/kraken", "client-id")
	return feed.NewFeedService(c), fake
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestGetFeedPosts(t *testing.T) {
	svc, fake := newService(t, respond(http.StatusOK, feedJSON))

	posts := svc.GetFeedPosts(context.Background(), 44322889, nil, nil, nil)

	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "20591" || posts[0].User.Name != "dallas" {
		t.Errorf("Unexpected first post: %+v", posts[0])
	}
	if len(posts[0].Comments.Comments) != 1 || posts[0].Comments.Comments[0].Body != "nice" {
		t.Errorf("Unexpected comments: %+v", posts[0].Comments)
	}
	if posts[0].Reactions["endorse"].Count != 2 {
		t.Errorf("Unexpected reactions: %+v", posts[0].Reactions)
	}

	if len(fake.recorded()) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(fake.recorded()))
	}
	req := fake.recorded()[0]
	if req.Method != http.MethodGet || req.Path != "/kraken/feed/44322889/posts" {
		t.Errorf("Unexpected request: %s %s", req.Method, req.Path)
	}
	if len(req.Query) != 0 {
		t.Errorf("Expected no query parameters, got %v", req.Query)
	}
}

func TestGetFeedPostsSendsOnlySuppliedParams(t *testing.T) {
	tests := []struct {
		name     string
		limit    *int
		cursor   *string
		comments *int
		expected map[string][]string
	}{
		{"limit", intPtr(50), nil, nil, map[string][]string{"limit": {"50"}}},
		{"cursor", nil, strPtr("abc"), nil, map[string][]string{"cursor": {"abc"}}},
		{"comments", nil, nil, intPtr(0), map[string][]string{"comments": {"0"}}},
		{"all", intPtr(500), strPtr("abc"), intPtr(5), map[string][]string{
			"limit": {"500"}, "cursor": {"abc"}, "comments": {"5"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fake := newService(t, respond(http.StatusOK, feedJSON))

			svc.GetFeedPosts(context.Background(), 1, tt.limit, tt.cursor, tt.comments)

			if len(fake.recorded()) != 1 {
				t.Fatalf("Expected 1 request, got %d", len(fake.recorded()))
			}
			if got := fake.recorded()[0].Query; !reflect.DeepEqual(map[string][]string(got), tt.expected) {
				t.Errorf("Expected query %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGetFeedPostsReturnsEmptyOnFailure(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": respond(http.StatusInternalServerError, `{"error":"Internal Server Error","status":500}`),
		"bad request":  respond(http.StatusBadRequest, `{"error":"Bad Request","status":400,"message":"limit too large"}`),
		"malformed":    respond(http.StatusOK, `{"posts": "nope"`),
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(t, handler)

			posts := svc.GetFeedPosts(context.Background(), 1, intPtr(500), nil, nil)
			if posts == nil {
				t.Fatal("Expected empty slice, got nil")
			}
			if len(posts) != 0 {
				t.Errorf("Expected no posts, got %d", len(posts))
			}
		})
	}
}

func TestFetchFeedPostsReturnsCursorAndError(t *testing.T) {
	svc, _ := newService(t, respond(http.StatusOK, feedJSON))

	f, err := svc.FetchFeedPosts(context.Background(), 1, nil, nil, nil)
	if err != nil {
		t.Fatalf("FetchFeedPosts returned error: %v", err)
	}
	if f.Cursor != "1479487861147094000" || f.Total != 2 {
		t.Errorf("Unexpected feed metadata: cursor=%s total=%d", f.Cursor, f.Total)
	}

	failing, _ := newService(t, respond(http.StatusInternalServerError, ``))
	_, err = failing.FetchFeedPosts(context.Background(), 1, nil, nil, nil)

	var te *client.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status error, got %v", err)
	}
}

func TestGetFeedPostsIsIdempotent(t *testing.T) {
	svc, fake := newService(t, respond(http.StatusOK, feedJSON))

	first := svc.GetFeedPosts(context.Background(), 1, intPtr(10), strPtr("c"), intPtr(5))
	second := svc.GetFeedPosts(context.Background(), 1, intPtr(10), strPtr("c"), intPtr(5))

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical calls")
	}
	if len(fake.recorded()) != 2 {
		t.Errorf("Expected each call to reach the backend, got %d requests", len(fake.recorded()))
	}
	if !reflect.DeepEqual(fake.recorded()[0].Query, fake.recorded()[1].Query) {
		t.Errorf("Expected identical queries, got %v and %v", fake.recorded()[0].Query, fake.recorded()[1].Query)
	}
}

func TestGetFeedPost(t *testing.T) {
	postJSON := `{"id": "20591", "body": "Kappa post", "user": {"_id": "44322889", "name": "dallas"},
		"comments": {"_total": 0, "comments": []}}`
	svc, fake := newService(t, respond(http.StatusOK, postJSON))

	post := svc.GetFeedPost(context.Background(), 44322889, "20591", intPtr(3))
	if post == nil {
		t.Fatal("Expected a post, got nil")
	}
	if post.ID != "20591" || post.Body != "Kappa post" {
		t.Errorf("Unexpected post: %+v", post)
	}

	req := fake.recorded()[0]
	if req.Path != "/kraken/feed/44322889/posts/20591" {
		t.Errorf("Unexpected path %s", req.Path)
	}
	if !reflect.DeepEqual(map[string][]string(req.Query), map[string][]string{"comments": {"3"}}) {
		t.Errorf("Unexpected query %v", req.Query)
	}
}

func TestGetFeedPostReturnsNilOnFailure(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"not found":    respond(http.StatusNotFound, `{"error":"Not Found","status":404}`),
		"server error": respond(http.StatusBadGateway, ``),
		"malformed":    respond(http.StatusOK, `[1,2,3]`),
		"null body":    respond(http.StatusOK, `null`),
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			svc, fake := newService(t, handler)

			if post := svc.GetFeedPost(context.Background(), 1, "missing", nil); post != nil {
				t.Errorf("Expected nil, got %+v", post)
			}
			if len(fake.recorded()[0].Query) != 0 {
				t.Errorf("Expected no query parameters, got %v", fake.recorded()[0].Query)
			}
		})
	}
}

func TestFetchFeedPostNullBody(t *testing.T) {
	svc, _ := newService(t, respond(http.StatusOK, `null`))

	post, err := svc.FetchFeedPost(context.Background(), 1, "20591", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if post != nil {
		t.Errorf("Expected nil post for null body, got %+v", post)
	}
}

func TestCreateFeedPostWithoutScope(t *testing.T) {
	svc, fake := newService(t, respond(http.StatusOK, `{}`))
	cred := &auth.Credential{Token: "tok", UserID: "44322889", Scopes: []auth.Scope{auth.ScopeChannelFeedRead}}

	err := svc.CreateFeedPost(context.Background(), cred, "hello", true)

	var ce *auth.CredentialError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *auth.CredentialError, got %v", err)
	}
	if ce.UserID != "44322889" {
		t.Errorf("Expected user id 44322889 in error, got %q", ce.UserID)
	}
	if len(fake.recorded()) != 0 {
		t.Errorf("Expected no HTTP requests, got %d", len(fake.recorded()))
	}
}

func TestCreateFeedPostWithNilCredential(t *testing.T) {
	svc, fake := newService(t, respond(http.StatusOK, `{}`))

	if err := svc.CreateFeedPost(context.Background(), nil, "hello", false); !errors.Is(err, auth.ErrScopeMissing) {
		t.Errorf("Expected scope error, got %v", err)
	}
	if len(fake.recorded()) != 0 {
		t.Errorf("Expected no HTTP requests, got %d", len(fake.recorded()))
	}
}

func TestCreateFeedPost(t *testing.T) {
	svc, fake := newService(t, respond(http.StatusOK, `{"post":{"id":"1"},"tweet":""}`))
	cred := &auth.Credential{Token: "tok", UserID: "44322889", Scopes: []auth.Scope{auth.ScopeChannelFeedEdit}}

	if err := svc.CreateFeedPost(context.Background(), cred, "hello world", true); err != nil {
		t.Fatalf("CreateFeedPost returned error: %v", err)
	}

	if len(fake.recorded()) != 1 {
		t.Fatalf("Expected exactly 1 request, got %d", len(fake.recorded()))
	}
	req := fake.recorded()[0]
	if req.Method != http.MethodPost || req.Path != "/kraken/feed/44322889/posts" {
		t.Errorf("Unexpected request: %s %s", req.Method, req.Path)
	}
	if !reflect.DeepEqual(map[string][]string(req.Query), map[string][]string{"share": {"true"}}) {
		t.Errorf("Unexpected query %v", req.Query)
	}
	if req.Auth != "OAuth tok" {
		t.Errorf("Unexpected Authorization header %q", req.Auth)
	}

	var body map[string]string
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("Body is not JSON: %s", req.Body)
	}
	if body["content"] != "hello world" {
		t.Errorf("Expected content 'hello world', got %v", body)
	}
}

func TestCreateFeedPostSwallowsTransportErrors(t *testing.T) {
	svc, fake := newService(t, respond(http.StatusInternalServerError, ``))
	cred := &auth.Credential{Token: "tok", UserID: "1", Scopes: []auth.Scope{auth.ScopeChannelFeedEdit}}

	if err := svc.CreateFeedPost(context.Background(), cred, "hello", false); err != nil {
		t.Errorf("Expected transport failure to be swallowed, got %v", err)
	}
	if len(fake.recorded()) != 1 {
		t.Errorf("Expected a single attempt, got %d", len(fake.recorded()))
	}

	err := svc.PublishFeedPost(context.Background(), cred, "hello", false)
	var te *client.TransportError
	if !errors.As(err, &te) {
		t.Errorf("Expected PublishFeedPost to return *TransportError, got %v", err)
	}
}
