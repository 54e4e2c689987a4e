package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Products        *mongo.Collection
	Projects        *mongo.Collection
	GalleryProjects *mongo.Collection
	Insights        *mongo.Collection
	Pages           *mongo.Collection
	Inquiries       *mongo.Collection
	Users           *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Products:        db.Collection("products"),
		Projects:        db.Collection("projects"),
		GalleryProjects: db.Collection("gallery_projects"),
		Insights:        db.Collection("insights"),
		Pages:           db.Collection("pages"),
		Inquiries:       db.Collection("inquiries"),
		Users:           db.Collection("users"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	uniqueSlug := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	listing := mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "sort_order", Value: 1}},
	}

	if _, err := cols.Products.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{uniqueSlug, listing}); err != nil {
		return err
	}
	if _, err := cols.Projects.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{uniqueSlug, listing}); err != nil {
		return err
	}
	if _, err := cols.GalleryProjects.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{listing}); err != nil {
		return err
	}

	_, err := cols.Insights.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		uniqueSlug,
		{Keys: bson.D{{Key: "is_published", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	if err != nil {
		return err
	}

	// Pages are keyed by _id and need no extra index.

	_, err = cols.Inquiries.Indexes().CreateOne(indexTimeout, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return err
}
