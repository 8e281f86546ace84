package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activities"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activitykinds"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activitylogs"
	"github.com/dmitrijs2005/tracker/internal/common"
)

// UnknownName is shown for references to records the store does not have.
const UnknownName = "unknown"

// JournalEntry is an activity log joined with the names it refers to.
type JournalEntry struct {
	Log          models.ActivityLog
	ActivityName string
	Unit         string
	KindName     string
}

// ActivityTotal sums the quantities logged for one activity.
type ActivityTotal struct {
	ActivityID   string
	ActivityName string
	Unit         string
	Quantity     float64
	Entries      int
}

type JournalService struct {
	activities activities.Repository
	kinds      activitykinds.Repository
	logs       activitylogs.Repository
}

func NewJournalService(a activities.Repository, k activitykinds.Repository, l activitylogs.Repository) *JournalService {
	return &JournalService{activities: a, kinds: k, logs: l}
}

// Day returns the live logs of date with their activity and kind names.
// Relationships are not enforced by the store, so a log may point at an
// activity or kind that was never pulled; those resolve to UnknownName.
func (s *JournalService) Day(ctx context.Context, date string) ([]JournalEntry, error) {
	logs, err := s.logs.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	r := newResolver(s)
	out := make([]JournalEntry, 0, len(logs))
	for _, l := range logs {
		a, err := r.activity(ctx, l.ActivityID)
		if err != nil {
			return nil, err
		}
		e := JournalEntry{Log: l, ActivityName: a.Name, Unit: a.Unit}
		if l.ActivityKindID != nil {
			if e.KindName, err = r.kind(ctx, *l.ActivityKindID); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// Totals sums live logs between from and to (inclusive) per activity, in
// order of first appearance.
func (s *JournalService) Totals(ctx context.Context, from, to string) ([]ActivityTotal, error) {
	logs, err := s.logs.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	r := newResolver(s)
	index := make(map[string]int)
	var out []ActivityTotal
	for _, l := range logs {
		i, ok := index[l.ActivityID]
		if !ok {
			a, err := r.activity(ctx, l.ActivityID)
			if err != nil {
				return nil, err
			}
			i = len(out)
			index[l.ActivityID] = i
			out = append(out, ActivityTotal{ActivityID: l.ActivityID, ActivityName: a.Name, Unit: a.Unit})
		}
		out[i].Quantity += l.Quantity
		out[i].Entries++
	}
	return out, nil
}

// resolver caches name lookups for one read.
type resolver struct {
	s          *JournalService
	activities map[string]models.Activity
	kinds      map[string]string
}

func newResolver(s *JournalService) *resolver {
	return &resolver{s: s, activities: map[string]models.Activity{}, kinds: map[string]string{}}
}

func (r *resolver) activity(ctx context.Context, id string) (models.Activity, error) {
	if a, ok := r.activities[id]; ok {
		return a, nil
	}
	a, err := r.s.activities.GetByID(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a = &models.Activity{Name: UnknownName}
	case err != nil:
		return models.Activity{}, err
	}
	r.activities[id] = *a
	return *a, nil
}

func (r *resolver) kind(ctx context.Context, id string) (string, error) {
	if name, ok := r.kinds[id]; ok {
		return name, nil
	}
	k, err := r.s.kinds.GetByID(ctx, id)
	name := UnknownName
	switch {
	case errors.Is(err, common.ErrNotFound):
	case err != nil:
		return "", err
	default:
		name = k.Name
	}
	r.kinds[id] = name
	return name, nil
}
