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

// MongoCreditRepository implements CreditRepository
type MongoCreditRepository struct {
	collection *mongo.Collection
}

// NewMongoCreditRepository creates a new credit snapshot repository
func NewMongoCreditRepository(db *mongo.Database) repository.CreditRepository {
	return &MongoCreditRepository{
		collection: db.Collection("credits"),
	}
}

// Upsert writes a committed credit balance keyed by principal address
func (r *MongoCreditRepository) Upsert(ctx context.Context, credit *entity.Credit) error {
	updateDoc := bson.M{
		"amount":    credit.Amount,
		"updatedAt": time.Now(),
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": credit.Address}

	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updateDoc}, opts)
	return err
}

// FindAll returns every credit balance
func (r *MongoCreditRepository) FindAll(ctx context.Context) ([]entity.Credit, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var credits []entity.Credit
	if err := cursor.All(ctx, &credits); err != nil {
		return nil, err
	}
	return credits, nil
}
