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

// MongoAirlineRepository implements AirlineRepository
type MongoAirlineRepository struct {
	collection *mongo.Collection
}

// NewMongoAirlineRepository creates a new airline snapshot repository
func NewMongoAirlineRepository(db *mongo.Database) repository.AirlineRepository {
	collection := db.Collection("airlines")

	// Index on state for operational queries
	ctx := context.Background()
	stateIndex := mongo.IndexModel{
		Keys: bson.M{"state": 1},
	}
	collection.Indexes().CreateOne(ctx, stateIndex)

	return &MongoAirlineRepository{
		collection: collection,
	}
}

// Upsert writes a committed airline snapshot keyed by address
func (r *MongoAirlineRepository) Upsert(ctx context.Context, airline *entity.Airline) error {
	updateDoc := bson.M{
		"name":       airline.Name,
		"stakedFund": airline.StakedFund,
		"state":      airline.State.String(),
		"approvals":  airline.Approvals,
		"createdAt":  airline.CreatedAt,
		"updatedAt":  time.Now(),
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": airline.Address}

	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updateDoc}, opts)
	return err
}

// FindByAddress finds an airline snapshot by address
func (r *MongoAirlineRepository) FindByAddress(ctx context.Context, address string) (*entity.Airline, error) {
	var doc airlineDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": address}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	airline := doc.toEntity()
	return &airline, nil
}

// FindAll returns every airline snapshot
func (r *MongoAirlineRepository) FindAll(ctx context.Context) ([]entity.Airline, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []airlineDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	airlines := make([]entity.Airline, 0, len(docs))
	for _, doc := range docs {
		airlines = append(airlines, doc.toEntity())
	}
	return airlines, nil
}

// airlineDoc is the persisted shape; state is stored by name so snapshots
// stay readable
type airlineDoc struct {
	Address    string    `bson:"_id"`
	Name       string    `bson:"name"`
	StakedFund int64     `bson:"stakedFund"`
	State      string    `bson:"state"`
	Approvals  []string  `bson:"approvals"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func (d airlineDoc) toEntity() entity.Airline {
	return entity.Airline{
		Address:    d.Address,
		Name:       d.Name,
		StakedFund: d.StakedFund,
		State:      entity.ParseAirlineState(d.State),
		Approvals:  d.Approvals,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
