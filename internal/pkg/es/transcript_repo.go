package es

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// TranscriptDocument is the indexed unit for full-text transcript
// search (C12), keyed by the video's shortcode.
type TranscriptDocument struct {
	Shortcode   string `json:"shortcode"`
	AccountID   uint64 `json:"account_id"`
	Username    string `json:"username"`
	Caption     string `json:"caption"`
	Transcript  string `json:"transcript"`
	PublishedAt string `json:"published_at"`
}

// IndexTranscript upserts a video's transcript. A nil Client means the
// integration is disabled; callers treat that as a non-fatal skip.
func IndexTranscript(ctx context.Context, doc TranscriptDocument) error {
	if Client == nil {
		return nil
	}

	_, err := Client.Index(Index).
		Id(doc.Shortcode).
		Document(doc).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index transcript %s: %w", doc.Shortcode, err)
	}
	return nil
}

// SearchTranscripts runs a simple match query over the transcript and
// caption fields. Returns an empty slice, not an error, when the
// integration is disabled — the admin endpoint degrades gracefully.
func SearchTranscripts(ctx context.Context, query string, limit int) ([]TranscriptDocument, error) {
	if Client == nil {
		return nil, nil
	}

	resp, err := Client.Search().
		Index(Index).
		Size(limit).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  query,
				Fields: []string{"transcript", "caption"},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search transcripts: %w", err)
	}

	docs := make([]TranscriptDocument, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc TranscriptDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
