package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RawPayload is an audit copy of an upstream response, kept verbatim
// for later reprocessing or debugging beyond what Store's typed
// columns capture.
type RawPayload struct {
	Kind      string    `bson:"kind"` // "recent_media" or "media_metrics"
	AccountID uint64    `bson:"account_id"`
	Shortcode string    `bson:"shortcode,omitempty"`
	Body      string    `bson:"body"`
	FetchedAt time.Time `bson:"fetched_at"`
}

const rawPayloadsCollection = "raw_payloads"

// ArchiveRawPayload stores a raw upstream response. db is nil when the
// integration is disabled; callers should skip the call entirely in
// that case, but a nil db here is still a safe no-op.
func ArchiveRawPayload(ctx context.Context, db *mongo.Database, payload RawPayload) error {
	if db == nil {
		return nil
	}
	_, err := db.Collection(rawPayloadsCollection).InsertOne(ctx, payload)
	return err
}

// RecentPayloadsForAccount returns the most recently archived raw
// payloads for an account, newest first. Used by supplemental
// diagnostics, not by the core scheduling flow.
func RecentPayloadsForAccount(ctx context.Context, db *mongo.Database, accountID uint64, limit int64) ([]RawPayload, error) {
	if db == nil {
		return nil, nil
	}

	cur, err := db.Collection(rawPayloadsCollection).Find(ctx,
		bson.M{"account_id": accountID},
		options.Find().SetSort(bson.D{{Key: "fetched_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []RawPayload
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
