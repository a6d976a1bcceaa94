package upstream

import "time"

// MediaSummary is one item of a recent_media listing.
type MediaSummary struct {
	VideoID         uint64
	Shortcode       string
	URL             string
	AudioURL        string
	Caption         string
	DurationSeconds int
	PublishedAt     time.Time
	ViewCount       uint64
	LikeCount       uint64
	CommentCount    uint64
	FollowersCount  uint64
}

// MetricsResult is the response of a media_metrics call.
type MetricsResult struct {
	ViewCount      uint64
	LikeCount      uint64
	CommentCount   uint64
	SaveCount      *uint64
	FollowersCount uint64
}

// Session is the persisted credential/cookie blob the Upstream Client
// reuses across process restarts.
type Session struct {
	Cookies   string    `json:"cookies"`
	CSRFToken string    `json:"csrf_token"`
	UserAgent string    `json:"user_agent"`
	SavedAt   time.Time `json:"saved_at"`
}
