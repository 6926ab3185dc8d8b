package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luxtwin/luxtwin/twin"
)

type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func openMongo(ctx context.Context, cfg Config) (*mongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	s := &mongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	logrus.Infof("connected to mongodb database %q collection %q", cfg.Database, cfg.Collection)
	return s, nil
}

// EnsureIndexes creates the two compound ascending indexes every range
// query relies on: (device_id, ts) and (room_id, ts).
func (s *mongoStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "device_id", Value: 1}, {Key: "ts", Value: 1}}},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "ts", Value: 1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}
	return nil
}

func (s *mongoStore) InsertReadings(ctx context.Context, readings []twin.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	docs := make([]interface{}, len(readings))
	for i, r := range readings {
		docs[i] = r
	}
	if _, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("inserting %d readings: %w", len(readings), err)
	}
	logrus.Debugf("inserted %d readings for device %s", len(readings), readings[0].DeviceID)
	return nil
}

func (s *mongoStore) Readings(ctx context.Context, deviceID string, start, end time.Time, limit int64) ([]twin.Reading, error) {
	filter := bson.M{
		"device_id": deviceID,
		"ts":        bson.M{"$gte": start.UTC(), "$lt": end.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "ts", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	var readings []twin.Reading
	if err := cursor.All(ctx, &readings); err != nil {
		return nil, fmt.Errorf("decoding readings: %w", err)
	}
	return readings, nil
}

func (s *mongoStore) LatestReading(ctx context.Context, deviceID string) (*twin.Reading, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "ts", Value: -1}})
	var r twin.Reading
	err := s.collection.FindOne(ctx, bson.M{"device_id": deviceID}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest reading: %w", err)
	}
	return &r, nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
