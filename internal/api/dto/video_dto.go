package dto

import "time"

// VideoResponse is the admin API's read view of a video with its most
// recent metric sample attached, if one exists.
type VideoResponse struct {
	ID              uint64          `json:"id"`
	Shortcode       string          `json:"shortcode"`
	Caption         string          `json:"caption,omitempty"`
	DurationSeconds int             `json:"duration_seconds"`
	PublishedAt     time.Time       `json:"published_at"`
	HasTranscript   bool            `json:"has_transcript"`
	LatestMetric    *MetricResponse `json:"latest_metric,omitempty"`
}

type MetricResponse struct {
	ViewCount      uint64    `json:"view_count"`
	LikeCount      uint64    `json:"like_count"`
	CommentCount   uint64    `json:"comment_count"`
	SaveCount      *uint64   `json:"save_count,omitempty"`
	FollowersCount uint64    `json:"followers_count"`
	MeasuredAt     time.Time `json:"measured_at"`
}

// VideoSearchHit is one full-text search result over transcriptions.
type VideoSearchHit struct {
	Shortcode   string `json:"shortcode"`
	AccountID   uint64 `json:"account_id"`
	Username    string `json:"username,omitempty"`
	Caption     string `json:"caption,omitempty"`
	Transcript  string `json:"transcript,omitempty"`
}
