package models

import "time"

// Task is a to-do item. ArchivedAt is a lifecycle stage independent of
// DeletedAt: active -> archived -> deleted. Deleted tasks are never restored.
type Task struct {
	SyncMeta

	UserID     string
	Title      string
	Notes      string
	StartDate  *string
	DueDate    *string
	Done       bool
	ArchivedAt *time.Time
}

type TaskInput struct {
	Title     string
	Notes     string
	StartDate *string
	DueDate   *string
}

// TaskPatch holds optional changes. A pointer to "" clears StartDate or DueDate.
type TaskPatch struct {
	Title     *string
	Notes     *string
	StartDate *string
	DueDate   *string
	Done      *bool
}
