package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/veldt-dev/veldt/pkg/matcher"
	"github.com/veldt-dev/veldt/pkg/routing"
)

// resolveResponse is the JSON body returned by the test host.
type resolveResponse struct {
	Handler string            `json:"handler"`
	Params  map[string]string `json:"params"`
	Absent  []string          `json:"absent,omitempty"`
}

// TestChiHostIntegration mounts the route table inside a Chi host and
// resolves component routes for live request paths. The routing core owns
// no HTTP surface itself; this exercises the embedding story end to end.
func TestChiHostIntegration(t *testing.T) {
	decls := routing.Declarations{
		"pages.Index":   {"/"},
		"pages.About":   {"/about"},
		"pages.Project": {"/projects/{id:int}", "/projects/{id:int}/{tab?}"},
		"pages.Files":   {"/files/{*path}"},
	}

	key := routing.NewRouteKey("integration-test", nil)
	cache := routing.NewCache()
	table, err := cache.GetOrBuild(context.Background(), key, routing.StaticDeclarations(decls))
	if err != nil {
		t.Fatalf("GetOrBuild() error = %v", err)
	}
	m := matcher.New(table)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.HandleFunc("/*", func(w http.ResponseWriter, req *http.Request) {
		match, ok := m.Match(req.URL.Path)
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resolveResponse{
			Handler: string(match.Handler),
			Params:  match.Params,
			Absent:  match.Absent,
		})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	tests := []struct {
		path       string
		status     int
		handler    string
		params     map[string]string
		wantAbsent []string
	}{
		{path: "/", status: http.StatusOK, handler: "pages.Index"},
		{path: "/about", status: http.StatusOK, handler: "pages.About"},
		{
			path:    "/projects/42",
			status:  http.StatusOK,
			handler: "pages.Project",
			params:  map[string]string{"id": "42"},
			// The sibling overload declares tab; this one reports it unset.
			wantAbsent: []string{"tab"},
		},
		{
			path:    "/projects/42/settings",
			status:  http.StatusOK,
			handler: "pages.Project",
			params:  map[string]string{"id": "42", "tab": "settings"},
		},
		{
			path:    "/files/img/logo.svg",
			status:  http.StatusOK,
			handler: "pages.Files",
			params:  map[string]string{"path": "img/logo.svg"},
		},
		{path: "/projects/not-a-number", status: http.StatusNotFound},
		{path: "/missing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatalf("GET %s: %v", tt.path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.status)
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}

		var got resolveResponse
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("GET %s: invalid JSON %q: %v", tt.path, body, err)
			continue
		}
		if got.Handler != tt.handler {
			t.Errorf("GET %s handler = %s, want %s", tt.path, got.Handler, tt.handler)
		}
		for name, want := range tt.params {
			if got.Params[name] != want {
				t.Errorf("GET %s param %s = %q, want %q", tt.path, name, got.Params[name], want)
			}
		}
		for _, name := range tt.wantAbsent {
			found := false
			for _, a := range got.Absent {
				if a == name {
					found = true
				}
			}
			if !found {
				t.Errorf("GET %s: absent should contain %q, got %v", tt.path, name, got.Absent)
			}
		}
	}
}

// TestChiHostCacheInvalidation verifies the hot-reload flow: clearing the
// cache picks up an updated handler set on the next navigation.
func TestChiHostCacheInvalidation(t *testing.T) {
	decls := routing.Declarations{"pages.Index": {"/"}}
	source := routing.DeclarationsFunc(func() (routing.Declarations, error) {
		return decls, nil
	})

	cache := routing.NewCache()
	key := routing.NewRouteKey("reload-test", nil)

	table, err := cache.GetOrBuild(context.Background(), key, source)
	if err != nil {
		t.Fatalf("GetOrBuild() error = %v", err)
	}
	if _, ok := matcher.New(table).Match("/new-page"); ok {
		t.Fatal("route should not exist before reload")
	}

	// Simulated hot reload: the handler set grows, the host clears the cache.
	decls = routing.Declarations{
		"pages.Index": {"/"},
		"pages.New":   {"/new-page"},
	}
	cache.Clear()

	table, err = cache.GetOrBuild(context.Background(), key, source)
	if err != nil {
		t.Fatalf("GetOrBuild() error = %v", err)
	}
	match, ok := matcher.New(table).Match("/new-page")
	if !ok || match.Handler != "pages.New" {
		t.Errorf("Match(/new-page) = %v, want pages.New", match)
	}
}
