package insights

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Insight) error
	Update(ctx context.Context, id string, set bson.M) (Insight, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListPublished(ctx context.Context) ([]Insight, error)
	GetPublishedBySlug(ctx context.Context, slug string) (Insight, error)
	ListAdmin(ctx context.Context, limit, offset int64) ([]Insight, error)
	CountAdmin(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Insight) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Insight, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Insight
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Insight{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListPublished returns published insights newest first. The body is left
// out; list views never show it.
func (r *MongoRepository) ListPublished(ctx context.Context) ([]Insight, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "published_at", Value: -1},
			{Key: "created_at", Value: -1},
		}).
		SetProjection(bson.M{"body": 0})
	return r.find(ctx, bson.M{"is_published": true}, opts)
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, slug string) (Insight, error) {
	var item Insight
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "is_published": true}).Decode(&item); err != nil {
		return Insight{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListAdmin(ctx context.Context, limit, offset int64) ([]Insight, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRepository) CountAdmin(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Insight, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Insight, 0)
	for cursor.Next(ctx) {
		var item Insight
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
