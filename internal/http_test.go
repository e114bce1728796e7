package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
)

type staticTokenSource struct {
	header string
	err    error
}

func (s *staticTokenSource) AuthHeader(ctx context.Context) (string, error) {
	return s.header, s.err
}

func newTransport(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(nil, &staticTokenSource{header: "Bearer abc"}, server.URL, "test-agent/1.0", nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGetSetsHeaders(t *testing.T) {
	var gotAuth, gotAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTransport(t, server)
	if _, err := c.Get(context.Background(), "api/v1/identity", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAgent != "test-agent/1.0" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestTokenSourceErrorShortCircuits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	c, err := NewClient(nil, &staticTokenSource{err: errors.New("refresh failed")}, server.URL, "a", nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Get(context.Background(), "api/v1/identity", nil); err == nil {
		t.Fatal("Get succeeded with a failing token source")
	}
	if requests != 0 {
		t.Errorf("%d requests made, want 0", requests)
	}
}

func TestDoReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	c := newTransport(t, server)
	_, err := c.Get(context.Background(), "api/v1/identity", nil)

	var apiErr *pkgerrs.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *errors.APIError", err)
	}
	if apiErr.StatusCode != http.StatusTeapot {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "short and stout" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestSessionCookieCaptureAndReplay(t *testing.T) {
	calls := 0
	var replayed string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "session_ruqqus", Value: "sess-1"})
		} else {
			if cookie, err := r.Cookie("session_ruqqus"); err == nil {
				replayed = cookie.Value
			}
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTransport(t, server)
	ctx := context.Background()
	if _, err := c.Get(ctx, "api/v1/identity", nil); err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if _, err := c.Get(ctx, "api/v1/identity", nil); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if replayed != "sess-1" {
		t.Errorf("replayed session cookie = %q, want sess-1", replayed)
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	// No trailing slash on the base URL; relative paths must still resolve
	// under it.
	c, err := NewClient(nil, &staticTokenSource{header: "Bearer abc"}, server.URL, "a", nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Get(context.Background(), RouteIdentity(), nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/api/v1/identity" {
		t.Errorf("path = %q", gotPath)
	}
}
