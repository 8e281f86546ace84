package syncer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrijs2005/tracker/internal/client/client"
	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/stretchr/testify/require"
)

// fakeRepo records every call made by a SyncClient.
type fakeRepo[T Record] struct {
	mu       sync.Mutex
	pending  []T
	readErr  error
	synced   [][]models.SyncMark
	failed   [][]models.SyncMark
	upserted [][]T
}

func (f *fakeRepo[T]) GetPendingSync(context.Context) ([]T, error) {
	return f.pending, f.readErr
}

func (f *fakeRepo[T]) MarkSynced(_ context.Context, marks []models.SyncMark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, marks)
	return nil
}

func (f *fakeRepo[T]) MarkFailed(_ context.Context, marks []models.SyncMark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, marks)
	return nil
}

func (f *fakeRepo[T]) UpsertFromServer(_ context.Context, items []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, items)
	return nil
}

type request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// stubServer answers requests with handle and keeps a log of them.
type stubServer struct {
	mu       sync.Mutex
	requests []request
	handle   func(w http.ResponseWriter, r request)
}

func newStub(t *testing.T, handle func(w http.ResponseWriter, r request)) (*stubServer, *client.HTTPClient) {
	t.Helper()
	s := &stubServer{handle: handle}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req := request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		s.handle(w, req)
	}))
	t.Cleanup(srv.Close)

	api, err := client.NewHTTPClient(srv.URL, 0, client.StaticToken("tok"))
	require.NoError(t, err)
	return s, api
}

func (s *stubServer) log() []request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]request(nil), s.requests...)
}

func (s *stubServer) paths() []string {
	var out []string
	for _, r := range s.log() {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// acceptAll is a push handler that accepts every id it receives.
func acceptAll(t *testing.T, key string) func(w http.ResponseWriter, r request) {
	return func(w http.ResponseWriter, r request) {
		var body map[string][]struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(r.Body, &body))
		ids := []string{}
		for _, rec := range body[key] {
			ids = append(ids, rec.ID)
		}
		writeJSON(t, w, map[string]any{"syncedIds": ids, "skippedIds": []string{}, "serverWins": []any{}})
	}
}

func task(id string) models.Task {
	return models.Task{SyncMeta: models.SyncMeta{ID: id, SyncStatus: models.SyncStatusPending, Revision: 1}, Title: id}
}
