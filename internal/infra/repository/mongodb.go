package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TestimonialCarousel/internal/domain"
)

// ErrNotFound is returned by Delete when no item has the given id.
var ErrNotFound = errors.New("item not found")

type MongoRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoRepository(client *mongo.Client, dbName, collectionName string) (*MongoRepository, error) {
	db := client.Database(dbName)
	repo := &MongoRepository{
		db:         db,
		collection: db.Collection(collectionName),
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return repo, nil
}

func (r *MongoRepository) createIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order", Value: 1}},
			Options: options.Index().SetName("order_idx"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_idx"),
		},
	}

	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)
	_, err := r.collection.Indexes().CreateMany(ctx, models, opts)
	return err
}

// Name implements domain.CatalogSource.
func (r *MongoRepository) Name() string {
	return "mongo"
}

// Load implements domain.CatalogSource.
func (r *MongoRepository) Load(ctx context.Context) ([]domain.Item, error) {
	return r.List(ctx)
}

// List returns every item sorted by display order.
func (r *MongoRepository) List(ctx context.Context) ([]domain.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			slog.Warn("Failed to close cursor", "error", err)
		}
	}()

	items := make([]domain.Item, 0)
	for cursor.Next(ctx) {
		var item domain.Item
		if err := cursor.Decode(&item); err != nil {
			slog.Warn("Skipping malformed item", "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, cursor.Err()
}

func (r *MongoRepository) Upsert(ctx context.Context, item *domain.Item) error {
	filter := bson.M{"_id": item.ID}
	update := bson.M{"$set": item}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// BulkUpsert writes items in one unordered batch.
func (r *MongoRepository) BulkUpsert(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	var models []mongo.WriteModel
	for _, item := range items {
		filter := bson.M{"_id": item.ID}
		update := bson.M{"$set": item}
		model := mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true)
		models = append(models, model)
	}

	opts := options.BulkWrite().SetOrdered(false)
	_, err := r.collection.BulkWrite(ctx, models, opts)
	if err != nil {
		return fmt.Errorf("failed to bulk upsert items: %w", err)
	}
	return nil
}

// Seed inserts items when the collection is empty. It reports whether it did.
func (r *MongoRepository) Seed(ctx context.Context, items []domain.Item) (bool, error) {
	n, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count items: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := r.BulkUpsert(ctx, items); err != nil {
		return false, err
	}
	slog.Info("Seeded item collection", "items", len(items))
	return true, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
