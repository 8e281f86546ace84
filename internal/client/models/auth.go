package models

import "time"

// AuthState is the local "who is logged in" marker written at login. It is
// the source of truth for the current user while offline.
type AuthState struct {
	UserID     string    `json:"userId"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

// ActiveTimer is the single running stopwatch, if any.
type ActiveTimer struct {
	ActivityID     string
	ActivityKindID *string
	StartTime      time.Time
}
