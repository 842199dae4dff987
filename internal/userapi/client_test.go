package userapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "http://example.com:1234/api" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("127.0.0.1:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "127.0.0.1:8080" {
		t.Fatalf("url = %q, want http://127.0.0.1:8080", u.String())
	}
}

func TestClient_ListGetUpdate(t *testing.T) {
	t.Parallel()

	var gotMethod, gotBody, gotUserAgent, gotRequestID, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/users":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Alice"},{"id":"2","name":"Bob"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/2":
			_, _ = w.Write([]byte(`{"id":2,"name":"Bob","address":{"city":"Gwenborough"}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/users/1":
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			_, _ = w.Write([]byte(`{"id":1,"name":"Alicia"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api", Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	users, err := c.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 || users[0].ID != 1 || users[1].ID != 2 || users[1].Name != "Bob" {
		t.Fatalf("ListUsers = %#v, want Alice(1), Bob(2)", users)
	}

	bob, err := c.GetUser(ctx, 2)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if bob.Address.City != "Gwenborough" {
		t.Fatalf("GetUser address = %#v, want city Gwenborough", bob.Address)
	}

	name := "Alicia"
	updated, err := c.UpdateUser(ctx, 1, Patch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.ID != 1 || updated.Name != "Alicia" {
		t.Fatalf("UpdateUser = %#v, want id=1 name=Alicia", updated)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %q, want PUT", gotMethod)
	}
	if gotBody != `{"name":"Alicia"}` {
		t.Fatalf("body = %q, want only the name field", gotBody)
	}
	if !strings.HasPrefix(gotContentType, "application/json") {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if !strings.HasPrefix(gotUserAgent, "roster/") {
		t.Fatalf("User-Agent = %q, want roster/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-Id header missing")
	}
}

func TestClient_FailuresAreNetworkErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/users/1":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.ListUsers(context.Background())
	if !IsNetworkError(err) || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListUsers error = %v, want decode NetworkError", err)
	}

	name := "x"
	_, err = c.UpdateUser(context.Background(), 1, Patch{Name: &name})
	if !IsNetworkError(err) || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("UpdateUser error = %v, want status 500 NetworkError", err)
	}

	_, err = c.GetUser(context.Background(), 99)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("GetUser error = %v, want NetworkError", err)
	}
	if netErr.Status != http.StatusNotFound || !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUser error = %v, want 404 wrapping ErrNotFound", err)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListUsers(context.Background())
	if !IsNetworkError(err) || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("ListUsers error = %v, want execute request NetworkError", err)
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode([]User{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{RequestsPerSecond: 0.001})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.ListUsers(context.Background()); err != nil {
		t.Fatalf("first ListUsers returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ListUsers(ctx)
	if !IsNetworkError(err) || !strings.Contains(err.Error(), "rate limiter") {
		t.Fatalf("second ListUsers error = %v, want rate limiter NetworkError", err)
	}
	if calls != 1 {
		t.Fatalf("server calls = %d, want 1", calls)
	}
}
