package syncer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/client"
	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tracker/internal/logging"
	"github.com/dmitrijs2005/tracker/internal/timex"
	"golang.org/x/sync/errgroup"
)

// merger writes pulled records without clobbering unpushed local edits.
type merger[T any] interface {
	MergeFromServer(ctx context.Context, items []T) error
}

// Stores are the destinations of a bootstrap.
type Stores struct {
	Meta          metadata.Repository
	Activities    merger[models.Activity]
	ActivityKinds merger[models.ActivityKind]
	ActivityLogs  merger[models.ActivityLog]
	Goals         merger[models.Goal]
	Tasks         merger[models.Task]
}

// Bootstrapper pulls server state into the local store after login.
type Bootstrapper struct {
	api    client.Client
	stores Stores
	log    logging.Logger
	now    func() time.Time

	mu           sync.Mutex
	lastComplete bool
}

func NewBootstrapper(api client.Client, stores Stores, log logging.Logger) *Bootstrapper {
	return &Bootstrapper{api: api, stores: stores, log: log.With("component", "bootstrap"), now: time.Now}
}

// fetch runs one GET. A non-2xx answer is reported as ok=false so the family
// is skipped; transport and decoding errors are returned.
func (b *Bootstrapper) fetch(ctx context.Context, path string, query url.Values, out any) (bool, error) {
	err := b.api.Do(ctx, http.MethodGet, path, query, nil, out)
	if se, isStatus := client.AsStatus(err); isStatus {
		b.log.Warn(ctx, "skipping family", "path", path, "status", se.Code)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	return true, nil
}

// Run writes the auth marker and then fetches activities (always in full),
// activity logs, goals and tasks concurrently. Logs, goals and tasks are
// fetched incrementally when a previous run completed.
//
// A family answered with a non-2xx status is skipped and the run is marked
// incomplete; any other fetch error aborts the run before anything is
// written. The last-synced timestamp only advances when every family
// succeeded, so a skipped family is fetched again next time.
//
// Records with local edits that were not pushed yet are left as they are:
// the server copy only lands once a push has settled them.
func (b *Bootstrapper) Run(ctx context.Context, auth models.AuthState) error {
	if err := metadata.SetJSON(ctx, b.stores.Meta, metadata.KeyAuthCurrent, auth); err != nil {
		return err
	}

	since, err := b.stores.Meta.Get(ctx, metadata.KeyLastSyncedAt)
	if err != nil {
		return err
	}
	var query url.Values
	if since != nil {
		query = url.Values{"since": {string(since)}}
	}
	startedAt := b.now()

	var (
		activities                             client.ActivitiesResponse
		logs                                   client.ActivityLogsResponse
		goals                                  client.GoalsResponse
		tasks                                  client.TasksResponse
		activitiesOK, logsOK, goalsOK, tasksOK bool
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		activitiesOK, err = b.fetch(ctx, "activities", nil, &activities)
		return err
	})
	g.Go(func() (err error) {
		logsOK, err = b.fetch(ctx, "activity-logs", query, &logs)
		return err
	})
	g.Go(func() (err error) {
		goalsOK, err = b.fetch(ctx, "goals", query, &goals)
		return err
	})
	g.Go(func() (err error) {
		tasksOK, err = b.fetch(ctx, "tasks", query, &tasks)
		return err
	})
	if err := g.Wait(); err != nil {
		b.setComplete(false)
		return err
	}

	if activitiesOK {
		if err := b.stores.Activities.MergeFromServer(ctx, mapAll(activities.Activities, client.ActivityFromServer)); err != nil {
			return err
		}
		if err := b.stores.ActivityKinds.MergeFromServer(ctx, client.KindsFromActivities(activities.Activities)); err != nil {
			return err
		}
	}
	if logsOK {
		if err := b.stores.ActivityLogs.MergeFromServer(ctx, mapAll(logs.ActivityLogs, client.ActivityLogFromServer)); err != nil {
			return err
		}
	}
	if goalsOK {
		if err := b.stores.Goals.MergeFromServer(ctx, mapAll(goals.Goals, client.GoalFromServer)); err != nil {
			return err
		}
	}
	if tasksOK {
		if err := b.stores.Tasks.MergeFromServer(ctx, mapAll(tasks.Tasks, client.TaskFromServer)); err != nil {
			return err
		}
	}

	complete := activitiesOK && logsOK && goalsOK && tasksOK
	b.setComplete(complete)
	if complete {
		if err := b.stores.Meta.Set(ctx, metadata.KeyLastSyncedAt, []byte(timex.FormatTimestamp(startedAt))); err != nil {
			return err
		}
	}

	b.log.Info(ctx, "bootstrap finished",
		"incremental", since != nil, "complete", complete,
		"activities", len(activities.Activities), "activity_logs", len(logs.ActivityLogs),
		"goals", len(goals.Goals), "tasks", len(tasks.Tasks))
	return nil
}

func (b *Bootstrapper) setComplete(v bool) {
	b.mu.Lock()
	b.lastComplete = v
	b.mu.Unlock()
}

// LastRunComplete reports whether the last Run fetched every family.
func (b *Bootstrapper) LastRunComplete() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastComplete
}

func mapAll[S, T any](in []S, f func(S) T) []T {
	out := make([]T, len(in))
	for i, s := range in {
		out[i] = f(s)
	}
	return out
}
