package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tracker/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ErrSyncInProgress is returned by SyncAll while another pass is running.
var ErrSyncInProgress = errors.New("sync already in progress")

// Step is one unit of a sync pass.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Plan lists the steps of a pass. Sequential steps run in order, each
// awaited before the next; Concurrent steps then run together.
type Plan struct {
	Sequential []Step
	Concurrent []Step
}

// Families bundles the per-family sync clients.
type Families struct {
	Icons         *IconSync
	Activities    *ActivitySync
	ActivityKinds *ActivityKindSync
	ActivityLogs  *ActivityLogSync
	Goals         *GoalSync
	Tasks         *TaskSync
}

func pushStep[T Record, P, S any](c *SyncClient[T, P, S]) Step {
	return Step{Name: c.Family(), Run: func(ctx context.Context) error {
		_, err := c.Sync(ctx)
		return err
	}}
}

// DefaultPlan orders the families by dependency: icon deletions, activities,
// their kinds and icon uploads go first; logs, goals and tasks only reference
// activities and run concurrently.
func DefaultPlan(f Families) Plan {
	return Plan{
		Sequential: []Step{
			{Name: "icon_cleanup", Run: f.Icons.Cleanup},
			pushStep(f.Activities),
			pushStep(f.ActivityKinds),
			{Name: "icon_upload", Run: f.Icons.Upload},
		},
		Concurrent: []Step{
			pushStep(f.ActivityLogs),
			pushStep(f.Goals),
			pushStep(f.Tasks),
		},
	}
}

// OnlineSource reports connectivity and announces reconnects.
type OnlineSource interface {
	IsOnline() bool
	OnOnline(fn func()) (remove func())
}

// Options tunes scheduling. Zero values fall back to the defaults.
type Options struct {
	Interval       time.Duration
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

const (
	DefaultInterval       = 5 * time.Minute
	DefaultRetryBaseDelay = 30 * time.Second
	DefaultRetryMaxDelay  = 30 * time.Minute
)

// Orchestrator runs sync passes. At most one pass runs at a time; failed
// passes raise the retry counter, which stretches the auto-sync delay.
type Orchestrator struct {
	plan   Plan
	online OnlineSource
	log    logging.Logger
	now    func() time.Time

	mu          sync.Mutex
	opts        Options
	syncing     bool
	retryCount  int
	lastSuccess time.Time
}

func NewOrchestrator(plan Plan, online OnlineSource, opts Options, log logging.Logger) *Orchestrator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if opts.RetryMaxDelay <= 0 {
		opts.RetryMaxDelay = DefaultRetryMaxDelay
	}
	return &Orchestrator{plan: plan, online: online, opts: opts, log: log, now: time.Now}
}

// SyncAll runs one pass. It returns ErrSyncInProgress at once if a pass is
// already running; it never queues.
func (o *Orchestrator) SyncAll(ctx context.Context) (err error) {
	o.mu.Lock()
	if o.syncing {
		o.mu.Unlock()
		return ErrSyncInProgress
	}
	o.syncing = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.syncing = false
		if err != nil {
			o.retryCount++
			return
		}
		o.retryCount = 0
		o.lastSuccess = o.now()
	}()

	started := o.now()
	o.log.Info(ctx, "sync pass started")
	if err := o.run(ctx); err != nil {
		o.log.Warn(ctx, "sync pass failed", "error", err, "elapsed", o.now().Sub(started))
		return err
	}
	o.log.Info(ctx, "sync pass finished", "elapsed", o.now().Sub(started))
	return nil
}

func (o *Orchestrator) run(ctx context.Context) error {
	for _, s := range o.plan.Sequential {
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("%s sync: %w", s.Name, err)
		}
	}

	var g errgroup.Group
	for _, s := range o.plan.Concurrent {
		g.Go(func() error {
			if err := s.Run(ctx); err != nil {
				return fmt.Errorf("%s sync: %w", s.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// IsSyncing reports whether a pass is running.
func (o *Orchestrator) IsSyncing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.syncing
}

// RetryCount is the number of consecutive failed passes.
func (o *Orchestrator) RetryCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.retryCount
}

// LastSuccess is the completion time of the last successful pass.
func (o *Orchestrator) LastSuccess() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSuccess
}

// NextDelay is the wait before the next scheduled pass: the regular interval
// after a success, otherwise RetryBaseDelay doubled per consecutive failure
// and capped at RetryMaxDelay.
func (o *Orchestrator) NextDelay() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return backoff(o.retryCount, o.opts)
}

func backoff(retries int, opts Options) time.Duration {
	if retries == 0 {
		return opts.Interval
	}
	d := opts.RetryBaseDelay
	for i := 0; i < retries; i++ {
		if d >= opts.RetryMaxDelay/2 {
			return opts.RetryMaxDelay
		}
		d *= 2
	}
	return min(d, opts.RetryMaxDelay)
}

// StartAutoSync syncs now if online, on every reconnect, and on a
// self-rescheduling timer while online. The interval overrides
// Options.Interval when positive. The returned stop func removes the
// reconnect handler, cancels the timer and waits for any pass it started to
// return; it is safe to call more than once.
func (o *Orchestrator) StartAutoSync(ctx context.Context, interval time.Duration) (stop func()) {
	if interval > 0 {
		o.mu.Lock()
		o.opts.Interval = interval
		o.mu.Unlock()
	}

	ctx, cancel := context.WithCancel(ctx)

	var (
		mu      sync.Mutex
		stopped bool
		wg      sync.WaitGroup
	)
	// spawn refuses new goroutines once stop has begun, so wg.Add never races wg.Wait.
	spawn := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	remove := o.online.OnOnline(func() {
		spawn(func() { o.trySync(ctx, "reconnect") })
	})

	if o.online.IsOnline() {
		spawn(func() { o.trySync(ctx, "startup") })
	}
	spawn(func() { o.schedule(ctx) })

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			stopped = true
			mu.Unlock()
			remove()
			cancel()
			wg.Wait()
		})
	}
}

func (o *Orchestrator) schedule(ctx context.Context) {
	for {
		timer := time.NewTimer(o.NextDelay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if o.online.IsOnline() {
				o.trySync(ctx, "timer")
			}
		}
	}
}

func (o *Orchestrator) trySync(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	err := o.SyncAll(ctx)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		o.log.Debug(ctx, "sync skipped", "trigger", trigger, "reason", err)
	case err != nil:
		o.log.Warn(ctx, "auto sync failed", "trigger", trigger, "retry_count", o.RetryCount(), "next_in", o.NextDelay())
	}
}
