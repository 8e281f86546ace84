package models

// Goal is a daily target for an Activity over a date window.
//
// CurrentBalance, TotalTarget and TotalActual are computed by the server from
// activity logs. Locally they are a cache: they are never pushed and are only
// written by UpsertFromServer.
type Goal struct {
	SyncMeta

	UserID         string
	ActivityID     string
	Title          string
	TargetQuantity float64
	StartDate      string
	EndDate        *string

	CurrentBalance float64
	TotalTarget    float64
	TotalActual    float64
}

type GoalInput struct {
	ActivityID     string
	Title          string
	TargetQuantity float64
	StartDate      string
	EndDate        *string
}

type GoalPatch struct {
	Title          *string
	TargetQuantity *float64
	StartDate      *string
	// A pointer to "" clears EndDate.
	EndDate *string
}
