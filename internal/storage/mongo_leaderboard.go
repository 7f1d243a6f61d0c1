package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig contains connection settings for MongoDB leaderboard.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // e.g. robomaze
	Collection string // e.g. leaderboard
}

// MongoLeaderboard implements Leaderboard on MongoDB backend.
type MongoLeaderboard struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctxTimeout time.Duration
}

// NewMongoLeaderboard establishes connection and returns repository.
func NewMongoLeaderboard(cfg MongoConfig) (*MongoLeaderboard, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "robomaze"
	}
	if cfg.Collection == "" {
		cfg.Collection = "leaderboard"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	// ping
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	lb := &MongoLeaderboard{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		ctxTimeout: 5 * time.Second,
	}

	// Ensure indexes
	if err := lb.ensureIndexes(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return lb, nil
}

func (m *MongoLeaderboard) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.ctxTimeout)
	defer cancel()
	sessionIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("session_unique"),
	}
	scoreIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "score", Value: -1}, {Key: "finished_at", Value: 1}},
		Options: options.Index().SetName("score_desc"),
	}
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{sessionIdx, scoreIdx})
	return err
}

// Save implements Leaderboard (upsert by session_id).
func (m *MongoLeaderboard) Save(ctx context.Context, r Result) error {
	if err := validate(r); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	r.FinishedAt = r.FinishedAt.UTC()
	_, err := m.collection.ReplaceOne(ctx,
		bson.M{"session_id": r.SessionID},
		r,
		options.Replace().SetUpsert(true))
	return err
}

// Top implements Leaderboard.
func (m *MongoLeaderboard) Top(ctx context.Context, n int) ([]Result, error) {
	if n == 0 {
		return []Result{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "score", Value: -1},
		{Key: "finished_at", Value: 1},
		{Key: "session_id", Value: 1},
	})
	if n > 0 {
		opts.SetLimit(int64(n))
	}

	cur, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]Result, 0)
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Close disconnects the client.
func (m *MongoLeaderboard) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.ctxTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}
