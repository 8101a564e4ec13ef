package domain

import "time"

// Thread is a core entity describing one forum thread discovered on the
// patch-notes board. ID is the normalized token taken from the thread URL,
// never a storage surrogate key.
type Thread struct {
	ID      string
	Title   string
	URL     string
	Content string
}

// PatchSummary is the structured result recovered from free-form model
// output. Summary always carries a value; Features preserves source order
// and may be empty.
type PatchSummary struct {
	Summary  string
	Features []string
}

// SeenRecord is the persisted delivery-ledger entry for one thread.
type SeenRecord struct {
	PostID string
	Title  string
	URL    string
	SeenAt time.Time
}
