package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/citegraph/citegraph/pkg/paper"
	"github.com/citegraph/citegraph/pkg/source"
)

type stubSource struct {
	papers map[string]paper.Paper
	refs   map[string][]paper.Paper
}

func (s *stubSource) Search(ctx context.Context, title string) (*paper.Paper, error) {
	p, ok := s.papers[title]
	if !ok {
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, title)
	}
	return &p, nil
}

func (s *stubSource) References(ctx context.Context, paperID string) ([]paper.Paper, error) {
	refs, ok := s.refs[paperID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, paperID)
	}
	return refs, nil
}

func newTestServer() *httptest.Server {
	src := &stubSource{
		papers: map[string]paper.Paper{
			"attention": {ID: "W1", Title: "Attention Is All You Need", Year: 2017},
		},
		refs: map[string][]paper.Paper{
			"W1": {
				{ID: "W2", Title: "Ref One", Year: 2015},
				{ID: "W3", Title: "Ref Two", Year: 2014},
			},
			"W2": {},
			"W3": {},
		},
	}
	return httptest.NewServer(New(src, nil).Handler())
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/search?title=attention")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var p paper.Paper
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID != "W1" || p.Year != 2017 {
		t.Errorf("paper = %+v", p)
	}
}

func TestSearchMissingTitle(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/search")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"error"`) {
		t.Errorf("body = %s, want error object", body)
	}
}

func TestSearchNotFound(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/search?title=nothing")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"error"`) {
		t.Errorf("body = %s, want error object", body)
	}
}

func TestCitationsEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/citations/W1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Citations []paper.Paper `json:"citations"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Citations) != 2 {
		t.Errorf("citations = %d, want 2", len(out.Citations))
	}
}

func TestCitationsNotFound(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, _ := get(t, srv.URL+"/api/citations/W404")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRenderEndpointDOT(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/render?title=attention&format=dot&depth=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	dot := string(body)
	if !strings.Contains(dot, "digraph") || !strings.Contains(dot, "Attention Is All You") {
		t.Errorf("unexpected dot output: %s", dot)
	}
}

func TestRenderEndpointValidation(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tests := []struct {
		query string
		want  int
	}{
		{"", http.StatusBadRequest},
		{"?title=attention&depth=abc", http.StatusBadRequest},
		{"?title=attention&depth=99", http.StatusBadRequest},
		{"?title=attention&format=gif", http.StatusBadRequest},
		{"?title=missing&format=dot", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, _ := get(t, srv.URL+"/api/render"+tt.query)
		if resp.StatusCode != tt.want {
			t.Errorf("render%s status = %d, want %d", tt.query, resp.StatusCode, tt.want)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestMetricsExposed(t *testing.T) {
	RegisterMetricsHooks()
	srv := newTestServer()
	defer srv.Close()

	// Generate some traffic so counters exist.
	_, _ = get(t, srv.URL+"/api/search?title=attention")

	resp, body := get(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing standard collectors")
	}
}
