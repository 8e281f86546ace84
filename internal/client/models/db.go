// Package models defines the client-side records kept in the local store and
// synchronized with the server.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the per-record synchronization tag.
type SyncStatus string

const (
	// SyncStatusPending marks a record with local edits the server has not confirmed.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusSynced marks a record that matches the server as of the last round.
	SyncStatusSynced SyncStatus = "synced"
	// SyncStatusFailed marks a record the server explicitly rejected. It stays
	// failed until the next local edit re-arms it as pending.
	SyncStatusFailed SyncStatus = "failed"
)

// SyncMeta is embedded in every syncable record.
type SyncMeta struct {
	// ID is a client-generated, time-ordered UUID (v7).
	ID string

	// CreatedAt and UpdatedAt are stamped by the local repository on every
	// local mutation.
	CreatedAt time.Time
	UpdatedAt time.Time

	// DeletedAt marks a soft-deleted record. Soft-deleted rows stay in storage.
	DeletedAt *time.Time

	// SyncStatus is the lifecycle tag. Never sent to the server.
	SyncStatus SyncStatus

	// Revision counts local mutations. A status transition from the sync
	// client only applies while the revision it captured is still current.
	// Never sent to the server.
	Revision int64
}

// IsDeleted reports whether the record has been soft-deleted.
func (m SyncMeta) IsDeleted() bool {
	return m.DeletedAt != nil
}

// Mark captures the identity and revision of the record for a later status
// transition.
func (m SyncMeta) Mark() SyncMark {
	return SyncMark{ID: m.ID, Revision: m.Revision}
}

// SyncMark identifies a record version read for a push.
type SyncMark struct {
	ID       string
	Revision int64
}


// NewID returns a new time-ordered record id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return uuid.NewString()
	}
	return id.String()
}

// NewSyncMeta initialises metadata for a locally created record.
func NewSyncMeta(now time.Time) SyncMeta {
	now = now.UTC()
	return SyncMeta{
		ID:         NewID(),
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: SyncStatusPending,
		Revision:   1,
	}
}
