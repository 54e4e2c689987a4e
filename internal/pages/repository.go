package pages

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Get(ctx context.Context, key string) (Page, error)
	Upsert(ctx context.Context, page Page) (Page, error)
	List(ctx context.Context) ([]Page, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Get(ctx context.Context, key string) (Page, error) {
	var page Page
	if err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&page); err != nil {
		return Page{}, err
	}
	return page, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, page Page) (Page, error) {
	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)

	var stored Page
	if err := r.col.FindOneAndReplace(ctx, bson.M{"_id": page.Key}, page, opts).Decode(&stored); err != nil {
		return Page{}, err
	}
	return stored, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Page, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Page, 0)
	for cursor.Next(ctx) {
		var item Page
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
