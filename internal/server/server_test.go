package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fontparts/partsmap/pkg/canvas/record"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(config.Default(), nil, nil))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, body
}

func TestArtifacts(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/diagram.svg", "image/svg+xml", "<?xml"},
		{"/diagram.png", "image/png", "\x89PNG"},
		{"/diagram.json", "application/json", "{"},
		{"/swatches.svg", "image/svg+xml", "<?xml"},
		{"/swatches.png", "image/png", "\x89PNG"},
		{"/logotype.svg?text=Go", "image/svg+xml", "<?xml"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !bytes.HasPrefix(body, []byte(tt.prefix)) {
				t.Errorf("body starts %.20q, want %q", body, tt.prefix)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/healthz")
	id := resp.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("%s = %q is not a UUID: %v", RequestIDHeader, id, err)
	}
	resp2, _ := get(t, ts, "/healthz")
	if resp2.Header.Get(RequestIDHeader) == id {
		t.Error("two requests share a request ID")
	}
}

func TestHealthz(t *testing.T) {
	resp, body := get(t, newTestServer(t), "/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) || !strings.Contains(string(body), `"version"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}

func TestPalette(t *testing.T) {
	resp, body := get(t, newTestServer(t), "/palette.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var entries []colors.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 17 || entries[0].Type != "font" {
		t.Errorf("entries = %d, first %q", len(entries), entries[0].Type)
	}
}

func TestDiagramQuery(t *testing.T) {
	ts := newTestServer(t)
	_, body := get(t, ts, "/diagram.json?highlight=glyph&captions=false&gradient=true")
	var rec struct {
		Ops []record.Op `json:"ops"`
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	dimmed := 0
	dim := config.Default().Render.DimColor.String()
	for _, op := range rec.Ops {
		counts[op.Kind]++
		if op.Kind == record.OpOval && op.Fill == dim {
			dimmed++
		}
	}
	if counts[record.OpText] != 0 {
		t.Errorf("captions = %d, want none", counts[record.OpText])
	}
	if counts[record.OpLine] != 0 || counts[record.OpGradientLine] == 0 {
		t.Errorf("lines = %d, gradients = %d, want gradient lines only", counts[record.OpLine], counts[record.OpGradientLine])
	}
	if dimmed != 16 {
		t.Errorf("dimmed = %d, want 16", dimmed)
	}
}

func TestDiagramSeedIsDeterministic(t *testing.T) {
	ts := newTestServer(t)
	_, a := get(t, ts, "/diagram.json?randomness=8&seed=3")
	_, b := get(t, ts, "/diagram.json?randomness=8&seed=3")
	if !bytes.Equal(a, b) {
		t.Error("same seed served different diagrams")
	}
}

func TestDiagramFan(t *testing.T) {
	ts := newTestServer(t)
	_, plain := get(t, ts, "/diagram.json")
	_, reduced := get(t, ts, "/diagram.json?reduced=true")
	_, fanned := get(t, ts, "/diagram.json?fan=300")
	if !bytes.Equal(plain, reduced) {
		t.Error("reduced changed the default layout, whose primaries already hang straight down")
	}
	if bytes.Equal(plain, fanned) {
		t.Error("fan=300 served the default layout")
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/diagram.gif", http.StatusNotFound, ""},
		{"/swatches.json", http.StatusNotFound, ""},
		{"/diagram.svg?seed=abc", http.StatusBadRequest, "INVALID_INPUT"},
		{"/diagram.svg?gradient=maybe", http.StatusBadRequest, "INVALID_INPUT"},
		{"/diagram.svg?highlight=kerning+pair", http.StatusBadRequest, "UNKNOWN_NODE"},
		{"/diagram.svg?randomness=-1", http.StatusBadRequest, "INVALID_CONFIG"},
		{"/diagram.svg?fan=wide", http.StatusBadRequest, "INVALID_INPUT"},
		{"/diagram.svg?fan=-10", http.StatusBadRequest, "INVALID_CONFIG"},
		{"/diagram.svg?reduced=sometimes", http.StatusBadRequest, "INVALID_INPUT"},
		{"/logotype.svg?layers=segment", http.StatusBadRequest, "UNSUPPORTED"},
		{"/logotype.svg?text=%E4%B8%AD", http.StatusBadRequest, "GLYPH_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if tt.code == "" {
				return
			}
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", e.Code, tt.code, e.Message)
			}
			if e.RequestID != resp.Header.Get(RequestIDHeader) {
				t.Error("error body and header carry different request IDs")
			}
		})
	}
}
