package repository

import (
	"context"
	"time"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightRepository implements FlightRepository
type MongoFlightRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightRepository creates a new flight snapshot repository
func NewMongoFlightRepository(db *mongo.Database) repository.FlightRepository {
	collection := db.Collection("flights")

	// Index on airline for audit queries
	ctx := context.Background()
	airlineIndex := mongo.IndexModel{
		Keys: bson.M{"airline": 1},
	}
	collection.Indexes().CreateOne(ctx, airlineIndex)

	return &MongoFlightRepository{
		collection: collection,
	}
}

// Upsert writes a committed flight snapshot keyed by the derived flight key
func (r *MongoFlightRepository) Upsert(ctx context.Context, snapshot *repository.FlightSnapshot) error {
	flight := snapshot.Flight
	updateDoc := bson.M{
		"flightId":   flight.FlightID,
		"airline":    flight.Airline,
		"timestamp":  flight.Timestamp,
		"registered": flight.Registered,
		"statusCode": flight.StatusCode,
		"processed":  flight.Processed,
		"insurees":   flight.Insurees,
		"amounts":    snapshot.Amounts,
		"updatedAt":  time.Now(),
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": flight.Key}

	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updateDoc}, opts)
	return err
}

// FindByKey finds a flight snapshot by its derived key
func (r *MongoFlightRepository) FindByKey(ctx context.Context, key string) (*repository.FlightSnapshot, error) {
	var doc flightDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	snapshot := doc.toSnapshot()
	return &snapshot, nil
}

// FindAll returns every flight snapshot
func (r *MongoFlightRepository) FindAll(ctx context.Context) ([]repository.FlightSnapshot, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []flightDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	snapshots := make([]repository.FlightSnapshot, 0, len(docs))
	for _, doc := range docs {
		snapshots = append(snapshots, doc.toSnapshot())
	}
	return snapshots, nil
}

type flightDoc struct {
	Key        string           `bson:"_id"`
	FlightID   string           `bson:"flightId"`
	Airline    string           `bson:"airline"`
	Timestamp  int64            `bson:"timestamp"`
	Registered bool             `bson:"registered"`
	StatusCode uint8            `bson:"statusCode"`
	Processed  bool             `bson:"processed"`
	Insurees   []string         `bson:"insurees"`
	Amounts    map[string]int64 `bson:"amounts"`
	UpdatedAt  time.Time        `bson:"updatedAt"`
}

func (d flightDoc) toSnapshot() repository.FlightSnapshot {
	return repository.FlightSnapshot{
		Flight: entity.Flight{
			Key:        d.Key,
			FlightID:   d.FlightID,
			Airline:    d.Airline,
			Timestamp:  d.Timestamp,
			Registered: d.Registered,
			StatusCode: d.StatusCode,
			Processed:  d.Processed,
			Insurees:   d.Insurees,
			UpdatedAt:  d.UpdatedAt,
		},
		Amounts: d.Amounts,
	}
}
