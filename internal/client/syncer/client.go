// Package syncer pushes local edits to the server and pulls server state
// into the local store.
//
// A SyncClient pushes one entity family in batches and reconciles the
// server's verdicts. The Orchestrator runs all families in dependency order
// under a single-flight guard and schedules passes with backoff. The
// Bootstrapper seeds the store after login.
package syncer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tracker/internal/client/client"
	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/logging"
)

// DefaultBatchSize bounds the records sent in one push request.
const DefaultBatchSize = 100

// Record is a syncable local record.
type Record interface {
	Mark() models.SyncMark
}

// Repository is the part of a family repository the sync client needs.
type Repository[T Record] interface {
	GetPendingSync(ctx context.Context) ([]T, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	UpsertFromServer(ctx context.Context, items []T) error
}

// Endpoint describes where and how a family is pushed.
type Endpoint struct {
	// Family names the family in logs.
	Family string
	// Path is the push endpoint, e.g. "tasks/sync".
	Path string
	// PayloadKey is the request body key holding the batch.
	PayloadKey string
}

// Result summarizes one Sync call.
type Result struct {
	Pushed     int
	Batches    int
	Synced     []string
	Skipped    []string
	ServerWins int
}

// SyncClient pushes pending records of type T as push DTOs P and maps server
// records S back to T.
type SyncClient[T Record, P, S any] struct {
	repo       Repository[T]
	api        client.Client
	endpoint   Endpoint
	batchSize  int
	toWire     func(T) P
	fromServer func(S) T
	log        logging.Logger
}

func NewSyncClient[T Record, P, S any](
	repo Repository[T],
	api client.Client,
	endpoint Endpoint,
	toWire func(T) P,
	fromServer func(S) T,
	batchSize int,
	log logging.Logger,
) *SyncClient[T, P, S] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SyncClient[T, P, S]{
		repo:       repo,
		api:        api,
		endpoint:   endpoint,
		batchSize:  batchSize,
		toWire:     toWire,
		fromServer: fromServer,
		log:        log.With("family", endpoint.Family),
	}
}

func (c *SyncClient[T, P, S]) Family() string {
	return c.endpoint.Family
}

// Sync pushes every pending record. Batches are sent strictly in order and
// the first failing batch aborts the call before anything is written back,
// leaving all records pending for the next pass. Verdicts are applied once,
// after the last batch.
func (c *SyncClient[T, P, S]) Sync(ctx context.Context) (Result, error) {
	pending, err := c.repo.GetPendingSync(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read pending %s: %w", c.endpoint.Family, err)
	}
	if len(pending) == 0 {
		return Result{}, nil
	}

	marks := make(map[string]models.SyncMark, len(pending))
	payload := make([]P, len(pending))
	for i, rec := range pending {
		m := rec.Mark()
		marks[m.ID] = m
		payload[i] = c.toWire(rec)
	}

	var (
		res        = Result{Pushed: len(pending)}
		synced     = newOrderedSet()
		skipped    = newOrderedSet()
		serverWins []S
	)
	for start := 0; start < len(payload); start += c.batchSize {
		end := min(start+c.batchSize, len(payload))

		var resp client.SyncResponse[S]
		body := map[string][]P{c.endpoint.PayloadKey: payload[start:end]}
		if err := c.api.Do(ctx, http.MethodPost, c.endpoint.Path, nil, body, &resp); err != nil {
			return res, fmt.Errorf("failed to push %s batch %d: %w", c.endpoint.Family, res.Batches+1, err)
		}
		res.Batches++

		synced.add(resp.SyncedIDs...)
		skipped.add(resp.SkippedIDs...)
		serverWins = append(serverWins, resp.ServerWins...)
	}

	res.Synced = synced.items
	res.Skipped = skipped.items
	res.ServerWins = len(serverWins)

	if err := c.repo.MarkSynced(ctx, marksFor(marks, res.Synced)); err != nil {
		return res, err
	}
	if len(serverWins) > 0 {
		records := make([]T, len(serverWins))
		for i, s := range serverWins {
			records[i] = c.fromServer(s)
		}
		if err := c.repo.UpsertFromServer(ctx, records); err != nil {
			return res, err
		}
	}
	if err := c.repo.MarkFailed(ctx, marksFor(marks, res.Skipped)); err != nil {
		return res, err
	}

	c.log.Info(ctx, "pushed records",
		"pushed", res.Pushed, "batches", res.Batches,
		"synced", len(res.Synced), "skipped", len(res.Skipped), "server_wins", res.ServerWins)
	return res, nil
}

// marksFor resolves ids to the marks captured at read time. Ids the client
// did not send are ignored.
func marksFor(marks map[string]models.SyncMark, ids []string) []models.SyncMark {
	out := make([]models.SyncMark, 0, len(ids))
	for _, id := range ids {
		if m, ok := marks[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(ids ...string) {
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.items = append(s.items, id)
	}
}
