package models

// Activity is something the user tracks, e.g. "Running" measured in "km".
type Activity struct {
	SyncMeta

	UserID      string
	Name        string
	Description string
	// Unit is the measure used by the activity's logs (e.g. "minutes").
	Unit string
}

// ActivityInput carries the user-supplied fields for a new Activity.
type ActivityInput struct {
	Name        string
	Description string
	Unit        string
}

// ActivityPatch holds optional changes; nil fields are left untouched.
type ActivityPatch struct {
	Name        *string
	Description *string
	Unit        *string
}

// ActivityKind is a sub-category of an Activity, e.g. "Trail" for "Running".
type ActivityKind struct {
	SyncMeta

	UserID     string
	ActivityID string
	Name       string
	Color      string
}

type ActivityKindInput struct {
	ActivityID string
	Name       string
	Color      string
}

type ActivityKindPatch struct {
	Name  *string
	Color *string
}

// ActivityLog records a quantity of an Activity done on a calendar date.
type ActivityLog struct {
	SyncMeta

	UserID         string
	ActivityID     string
	ActivityKindID *string
	// Date is a calendar date in YYYY-MM-DD form.
	Date     string
	Quantity float64
	Comment  string
}

type ActivityLogInput struct {
	ActivityID     string
	ActivityKindID *string
	Date           string
	Quantity       float64
	Comment        string
}

type ActivityLogPatch struct {
	ActivityKindID *string
	Date           *string
	Quantity       *float64
	Comment        *string
}

// ActivityIcon is the image shown for an Activity. It is keyed by the
// activity id and synced by dedicated upload/cleanup steps.
type ActivityIcon struct {
	SyncMeta

	ActivityID string
	MimeType   string
	Data       []byte
}
