package dto

import "time"

// AccountResponse is the admin API's read view of a tracked account,
// annotated with a video count the Store doesn't carry on the row
// itself.
type AccountResponse struct {
	ID             uint64    `json:"id"`
	Username       string    `json:"username"`
	ProfileURL     string    `json:"profile_url,omitempty"`
	FollowersCount uint64    `json:"followers_count"`
	VideoCount     int64     `json:"video_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// SeedAccountItem is one entry of the bulk account-seed request body,
// a bare JSON array of these. UserPK is optional: a record that omits
// it is resolved from Username against the Upstream Client before
// insert, and only that record is rejected if resolution fails.
type SeedAccountItem struct {
	Username string  `json:"username" binding:"required"`
	UserPK   *uint64 `json:"user_pk"`
}

// RawPayloadResponse is one archived upstream response, exposed for
// operator diagnostics when the typed Store mapping loses a field.
type RawPayloadResponse struct {
	Kind      string    `json:"kind"`
	Shortcode string    `json:"shortcode,omitempty"`
	Body      string    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}
