package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
)

// WireMeta is the part of SyncMeta the server sees.
type WireMeta struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

func toWireMeta(m models.SyncMeta) WireMeta {
	return WireMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt, DeletedAt: m.DeletedAt}
}

// syncMeta builds local metadata for a server record. Server records are
// synced by definition.
func (w WireMeta) syncMeta() models.SyncMeta {
	m := models.SyncMeta{
		ID:         w.ID,
		CreatedAt:  w.CreatedAt.UTC(),
		UpdatedAt:  w.UpdatedAt.UTC(),
		SyncStatus: models.SyncStatusSynced,
	}
	if w.DeletedAt != nil {
		d := w.DeletedAt.UTC()
		m.DeletedAt = &d
	}
	return m
}

type ActivityDTO struct {
	WireMeta
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`

	// Kinds is only filled by GET activities.
	Kinds []ActivityKindDTO `json:"kinds,omitempty"`
}

func ActivityToWire(a models.Activity) ActivityDTO {
	return ActivityDTO{
		WireMeta:    toWireMeta(a.SyncMeta),
		UserID:      a.UserID,
		Name:        a.Name,
		Description: a.Description,
		Unit:        a.Unit,
	}
}

func ActivityFromServer(d ActivityDTO) models.Activity {
	return models.Activity{
		SyncMeta:    d.syncMeta(),
		UserID:      d.UserID,
		Name:        d.Name,
		Description: d.Description,
		Unit:        d.Unit,
	}
}

type ActivityKindDTO struct {
	WireMeta
	UserID     string `json:"userId"`
	ActivityID string `json:"activityId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
}

func ActivityKindToWire(k models.ActivityKind) ActivityKindDTO {
	return ActivityKindDTO{
		WireMeta:   toWireMeta(k.SyncMeta),
		UserID:     k.UserID,
		ActivityID: k.ActivityID,
		Name:       k.Name,
		Color:      k.Color,
	}
}

func ActivityKindFromServer(d ActivityKindDTO) models.ActivityKind {
	return models.ActivityKind{
		SyncMeta:   d.syncMeta(),
		UserID:     d.UserID,
		ActivityID: d.ActivityID,
		Name:       d.Name,
		Color:      d.Color,
	}
}

// KindsFromActivities flattens the kinds embedded in activities. A kind
// without an activity id inherits its parent's.
func KindsFromActivities(list []ActivityDTO) []models.ActivityKind {
	var out []models.ActivityKind
	for _, a := range list {
		for _, k := range a.Kinds {
			if k.ActivityID == "" {
				k.ActivityID = a.ID
			}
			out = append(out, ActivityKindFromServer(k))
		}
	}
	return out
}

type ActivityLogDTO struct {
	WireMeta
	UserID         string  `json:"userId"`
	ActivityID     string  `json:"activityId"`
	ActivityKindID *string `json:"activityKindId"`
	Date           string  `json:"date"`
	Quantity       float64 `json:"quantity"`
	Comment        string  `json:"comment"`
}

func ActivityLogToWire(l models.ActivityLog) ActivityLogDTO {
	return ActivityLogDTO{
		WireMeta:       toWireMeta(l.SyncMeta),
		UserID:         l.UserID,
		ActivityID:     l.ActivityID,
		ActivityKindID: l.ActivityKindID,
		Date:           l.Date,
		Quantity:       l.Quantity,
		Comment:        l.Comment,
	}
}

func ActivityLogFromServer(d ActivityLogDTO) models.ActivityLog {
	return models.ActivityLog{
		SyncMeta:       d.syncMeta(),
		UserID:         d.UserID,
		ActivityID:     d.ActivityID,
		ActivityKindID: d.ActivityKindID,
		Date:           d.Date,
		Quantity:       d.Quantity,
		Comment:        d.Comment,
	}
}

// GoalDTO is the pushed form of a goal. It has no room for the derived
// balance fields.
type GoalDTO struct {
	WireMeta
	UserID         string  `json:"userId"`
	ActivityID     string  `json:"activityId"`
	Title          string  `json:"title"`
	TargetQuantity float64 `json:"targetQuantity"`
	StartDate      string  `json:"startDate"`
	EndDate        *string `json:"endDate"`
}

// ServerGoal is a goal as the server returns it.
type ServerGoal struct {
	GoalDTO
	CurrentBalance float64 `json:"currentBalance"`
	TotalTarget    float64 `json:"totalTarget"`
	TotalActual    float64 `json:"totalActual"`
}

func GoalToWire(g models.Goal) GoalDTO {
	return GoalDTO{
		WireMeta:       toWireMeta(g.SyncMeta),
		UserID:         g.UserID,
		ActivityID:     g.ActivityID,
		Title:          g.Title,
		TargetQuantity: g.TargetQuantity,
		StartDate:      g.StartDate,
		EndDate:        g.EndDate,
	}
}

func GoalFromServer(d ServerGoal) models.Goal {
	return models.Goal{
		SyncMeta:       d.syncMeta(),
		UserID:         d.UserID,
		ActivityID:     d.ActivityID,
		Title:          d.Title,
		TargetQuantity: d.TargetQuantity,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		CurrentBalance: d.CurrentBalance,
		TotalTarget:    d.TotalTarget,
		TotalActual:    d.TotalActual,
	}
}

type TaskDTO struct {
	WireMeta
	UserID     string     `json:"userId"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	StartDate  *string    `json:"startDate"`
	DueDate    *string    `json:"dueDate"`
	Done       bool       `json:"done"`
	ArchivedAt *time.Time `json:"archivedAt"`
}

func TaskToWire(t models.Task) TaskDTO {
	return TaskDTO{
		WireMeta:   toWireMeta(t.SyncMeta),
		UserID:     t.UserID,
		Title:      t.Title,
		Notes:      t.Notes,
		StartDate:  t.StartDate,
		DueDate:    t.DueDate,
		Done:       t.Done,
		ArchivedAt: t.ArchivedAt,
	}
}

func TaskFromServer(d TaskDTO) models.Task {
	t := models.Task{
		SyncMeta:  d.syncMeta(),
		UserID:    d.UserID,
		Title:     d.Title,
		Notes:     d.Notes,
		StartDate: d.StartDate,
		DueDate:   d.DueDate,
		Done:      d.Done,
	}
	if d.ArchivedAt != nil {
		a := d.ArchivedAt.UTC()
		t.ArchivedAt = &a
	}
	return t
}

// SyncResponse is the body of POST <family>/sync.
type SyncResponse[S any] struct {
	SyncedIDs  []string `json:"syncedIds"`
	SkippedIDs []string `json:"skippedIds"`
	ServerWins []S      `json:"serverWins"`
}

type ActivitiesResponse struct {
	Activities []ActivityDTO `json:"activities"`
}

type ActivityLogsResponse struct {
	ActivityLogs []ActivityLogDTO `json:"activityLogs"`
}

type TasksResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// GoalsResponse accepts both {"goals": [...]} and a bare array.
type GoalsResponse struct {
	Goals []ServerGoal `json:"goals"`
}

func (r *GoalsResponse) UnmarshalJSON(b []byte) error {
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '[' {
		return json.Unmarshal(t, &r.Goals)
	}
	type plain GoalsResponse
	return json.Unmarshal(b, (*plain)(r))
}

// IconUpload is the body of PUT activities/{id}/icon.
type IconUpload struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

func IconToWire(i models.ActivityIcon) IconUpload {
	return IconUpload{MimeType: i.MimeType, Data: base64.StdEncoding.EncodeToString(i.Data)}
}

// IconPath is the resource path of an activity's icon.
func IconPath(activityID string) string {
	return fmt.Sprintf("activities/%s/icon", url.PathEscape(activityID))
}
