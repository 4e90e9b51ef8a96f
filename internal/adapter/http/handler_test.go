package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rkissoon/randomart/internal/adapter/fsm"
	adapter "github.com/rkissoon/randomart/internal/adapter/http"
	"github.com/rkissoon/randomart/internal/adapter/sqlite"
	"github.com/rkissoon/randomart/internal/app"
	"github.com/rkissoon/randomart/internal/domain"
)

const testID = "9b2c6f1e-3d4a-4c8b-a7e5-0f1d2c3b4a59"

var testRows = []string{
	"                 ",
	"      .          ",
	"     .E          ",
	"    oO..         ",
	"    .ooo         ",
	"    ..o o.       ",
	"      .o         ",
	"       ..        ",
	"      ..         ",
}

// noopPublisher is a no-op VisitPublisher for tests.
type noopPublisher struct{}

func (p *noopPublisher) Publish(_ context.Context, _ domain.Visit) error {
	return nil
}

// newTestServer creates a full-stack httptest.Server with SQLite in-memory.
func newTestServer(t *testing.T) (*httptest.Server, *observer.ObservedLogs) {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	art, err := app.NewArtService(domain.DefaultBounds, fsm.New())
	if err != nil {
		t.Fatalf("creating art service: %v", err)
	}
	gallery := app.NewGalleryService(repo, &noopPublisher{}, art)

	core, logs := observer.New(zap.InfoLevel)

	router := chi.NewMux()
	router.Use(adapter.RequestLogger(zap.New(core)))
	api := humachi.New(router, huma.DefaultConfig("randomart", "0.1.0"))
	adapter.Register(api, art, gallery)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, logs
}

// doRequest performs an HTTP request with context (avoids noctx linter).
func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}

	return resp
}

// mustRecordVisit records a visit via the API and returns its response.
func mustRecordVisit(t *testing.T, srv *httptest.Server, visitorID, eventType, timestamp string) adapter.VisitResponse {
	t.Helper()

	body := fmt.Sprintf(`{"visitor_id":%q,"event_type":%q,"timestamp":%q,"data":{"path":"/"}}`, visitorID, eventType, timestamp)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/visits", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("record visit: status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var visit adapter.VisitResponse
	if err := json.NewDecoder(resp.Body).Decode(&visit); err != nil {
		t.Fatalf("decode visit: %v", err)
	}

	return visit
}

// --- Art ---

func TestGetArt(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/"+testID, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var art adapter.ArtResponse
	if err := json.NewDecoder(resp.Body).Decode(&art); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if diff := cmp.Diff(testRows, art.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if art.Width != 17 || art.Height != 9 {
		t.Errorf("size = %dx%d, want 17x9", art.Width, art.Height)
	}
	if len(art.Steps) != 32 {
		t.Errorf("got %d steps, want 32", len(art.Steps))
	}
	if art.Start != (adapter.PositionResponse{X: 8, Y: 4}) {
		t.Errorf("Start = %+v, want (8,4)", art.Start)
	}
	if art.End == nil || *art.End != (adapter.PositionResponse{X: 6, Y: 2}) {
		t.Errorf("End = %+v, want (6,2)", art.End)
	}
}

func TestGetArt_InvalidIdentifier(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, id := range []string{"xyz", "abc"} {
		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/"+id, "")
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want %d", id, resp.StatusCode, http.StatusUnprocessableEntity)
		}
	}
}

func TestArtRoutes_OversizedIdentifier(t *testing.T) {
	srv, _ := newTestServer(t)

	ids := map[string]string{
		"beyond path limit":  strings.Repeat("ab", 100_000),
		"beyond digit limit": strings.Repeat("ab", 33),
	}
	for name, id := range ids {
		for _, suffix := range []string{"", "/svg", "/playback"} {
			t.Run(name+suffix, func(t *testing.T) {
				resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/"+id+suffix, "")
				defer resp.Body.Close()

				if resp.StatusCode != http.StatusUnprocessableEntity {
					t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
				}
			})
		}
	}
}

func TestGetArt_DigestIdentifier(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/"+app.Fingerprint("visitor"), "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var art adapter.ArtResponse
	if err := json.NewDecoder(resp.Body).Decode(&art); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(art.Steps) != 64 {
		t.Errorf("got %d steps, want 64", len(art.Steps))
	}
}

func TestGetArtSVG(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/"+testID+"/svg", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.Contains(string(body), "<svg") {
		t.Errorf("body is not an SVG document:\n%s", body)
	}
}

// --- Playback ---

func TestPlayback_StreamsEveryStep(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/"+testID+"/playback?speed=10", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var (
		event  string
		frames []adapter.FrameEvent
		done   *adapter.DoneEvent
	)
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := []byte(strings.TrimPrefix(line, "data: "))
			switch event {
			case "frame":
				var f adapter.FrameEvent
				if err := json.Unmarshal(data, &f); err != nil {
					t.Fatalf("decode frame: %v", err)
				}
				frames = append(frames, f)
			case "done":
				var d adapter.DoneEvent
				if err := json.Unmarshal(data, &d); err != nil {
					t.Fatalf("decode done: %v", err)
				}
				done = &d
			}
		}
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("reading stream: %v", err)
	}

	if len(frames) != 32 {
		t.Fatalf("got %d frames, want 32", len(frames))
	}
	for i, f := range frames {
		if f.Index != i+1 {
			t.Errorf("frame %d: Index = %d, want %d", i, f.Index, i+1)
		}
	}
	if diff := cmp.Diff(testRows, frames[len(frames)-1].Rows); diff != "" {
		t.Errorf("final frame mismatch (-want +got):\n%s", diff)
	}
	if done == nil || done.Total != 32 {
		t.Errorf("done event = %+v, want total 32", done)
	}
}

func TestPlayback_InvalidIdentifier(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/not-hex/playback", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestPlayback_SpeedOutOfRange(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/randomart/"+testID+"/playback?speed=1", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

// --- Visits ---

func TestRecordVisit(t *testing.T) {
	srv, _ := newTestServer(t)
	visitor := "6f1c8a52-4e7b-4d3c-9a21-58b0e3f7c4d6"

	visit := mustRecordVisit(t, srv, visitor, "page_view", "2024-05-01T10:00:00Z")

	if visit.ID == "" {
		t.Error("ID should not be empty")
	}
	if visit.VisitorID != visitor {
		t.Errorf("VisitorID = %q, want %q", visit.VisitorID, visitor)
	}
	if visit.Data["path"] != "/" {
		t.Errorf("Data = %v, want path=/", visit.Data)
	}

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/visits/"+visit.ID, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get visit: status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var got adapter.VisitResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(visit, got); diff != "" {
		t.Errorf("visit mismatch (-created +fetched):\n%s", diff)
	}
}

func TestRecordVisit_InvalidVisitor(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/visits",
		`{"visitor_id":"not-a-uuid","event_type":"page_view","timestamp":"2024-05-01T10:00:00Z"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestRecordVisit_MissingEventType(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/visits",
		`{"visitor_id":"6f1c8a52-4e7b-4d3c-9a21-58b0e3f7c4d6","timestamp":"2024-05-01T10:00:00Z"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestGetVisit_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/visits/nonexistent", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

// --- Gallery ---

func TestGallery(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := "6f1c8a52-4e7b-4d3c-9a21-58b0e3f7c4d6"
	bob := "0d4f3a6e-7b21-4c59-8e0a-91f2b3c4d5e6"

	mustRecordVisit(t, srv, alice, "page_view", "2024-05-01T10:00:00Z")
	mustRecordVisit(t, srv, alice, "click", "2024-05-03T10:00:00Z")
	mustRecordVisit(t, srv, bob, "page_view", "2024-05-02T10:00:00Z")

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/gallery", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var entries []adapter.GalleryEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Fingerprint != app.Fingerprint(bob) {
		t.Errorf("first entry should be bob's, newest first visit")
	}
	if entries[1].Fingerprint != app.Fingerprint(alice) || entries[1].EventType != "page_view" {
		t.Errorf("second entry = %+v, want alice's first page_view", entries[1])
	}
	if len(entries[0].Rows) != 9 {
		t.Errorf("got %d rows, want 9", len(entries[0].Rows))
	}
}

func TestGallery_Limit(t *testing.T) {
	srv, _ := newTestServer(t)
	mustRecordVisit(t, srv, "6f1c8a52-4e7b-4d3c-9a21-58b0e3f7c4d6", "page_view", "2024-05-01T10:00:00Z")
	mustRecordVisit(t, srv, "0d4f3a6e-7b21-4c59-8e0a-91f2b3c4d5e6", "page_view", "2024-05-02T10:00:00Z")

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/gallery?limit=1", "")
	defer resp.Body.Close()

	var entries []adapter.GalleryEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

// --- Middleware ---

func TestRequestLogger(t *testing.T) {
	srv, logs := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/visits/nonexistent", "")
	resp.Body.Close()

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d request log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/v1/visits/nonexistent" {
		t.Errorf("path = %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("status = %v, want 404", fields["status"])
	}
}
