package projects

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectRepository stores detailed projects. Implementations report
// ErrNotFound and ErrSlugExists instead of driver errors.
type ProjectRepository interface {
	Create(ctx context.Context, item Project) error
	Update(ctx context.Context, id string, item Project) (Project, error)
	Delete(ctx context.Context, id string) error
	GetPublishedBySlug(ctx context.Context, slug string) (Project, error)
	ListPublished(ctx context.Context) ([]Project, error)
	ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, error)
	CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error)
}

// GalleryRepository stores showcase-only gallery projects.
type GalleryRepository interface {
	Create(ctx context.Context, item GalleryProject) error
	Update(ctx context.Context, id string, item GalleryProject) (GalleryProject, error)
	Delete(ctx context.Context, id string) error
	ListPublished(ctx context.Context) ([]GalleryProject, error)
	ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]GalleryProject, error)
	CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error)
}

var listSort = bson.D{
	{Key: "sort_order", Value: 1},
	{Key: "created_at", Value: -1},
}

type MongoProjectRepository struct {
	col *mongo.Collection
}

func NewMongoProjectRepository(col *mongo.Collection) *MongoProjectRepository {
	return &MongoProjectRepository{col: col}
}

func (r *MongoProjectRepository) Create(ctx context.Context, item Project) error {
	_, err := r.col.InsertOne(ctx, item)
	return mapMongoError(err)
}

func (r *MongoProjectRepository) Update(ctx context.Context, id string, item Project) (Project, error) {
	set := bson.M{
		"slug":         item.Slug,
		"title":        item.Title,
		"category":     item.Category,
		"client_name":  item.ClientName,
		"value":        item.Value,
		"location":     item.Location,
		"period":       item.Period,
		"summary":      item.Summary,
		"description":  item.Description,
		"cover_image":  item.CoverImage,
		"images":       item.Images,
		"is_published": item.IsPublished,
		"sort_order":   item.SortOrder,
		"updated_at":   item.UpdatedAt,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Project{}, mapMongoError(err)
	}
	return updated, nil
}

func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *MongoProjectRepository) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	var item Project
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "is_published": true}).Decode(&item); err != nil {
		return Project{}, mapMongoError(err)
	}
	return item, nil
}

func (r *MongoProjectRepository) ListPublished(ctx context.Context) ([]Project, error) {
	return findAll[Project](ctx, r.col, bson.M{"is_published": true}, options.Find().SetSort(listSort))
}

func (r *MongoProjectRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, error) {
	opts := options.Find().SetSort(listSort).SetLimit(limit).SetSkip(offset)
	return findAll[Project](ctx, r.col, adminQuery(filter), opts)
}

func (r *MongoProjectRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, adminQuery(filter))
}

type MongoGalleryRepository struct {
	col *mongo.Collection
}

func NewMongoGalleryRepository(col *mongo.Collection) *MongoGalleryRepository {
	return &MongoGalleryRepository{col: col}
}

func (r *MongoGalleryRepository) Create(ctx context.Context, item GalleryProject) error {
	_, err := r.col.InsertOne(ctx, item)
	return mapMongoError(err)
}

func (r *MongoGalleryRepository) Update(ctx context.Context, id string, item GalleryProject) (GalleryProject, error) {
	set := bson.M{
		"title":        item.Title,
		"category":     item.Category,
		"client_name":  item.ClientName,
		"value":        item.Value,
		"image":        item.Image,
		"start_date":   item.StartDate,
		"end_date":     item.EndDate,
		"is_published": item.IsPublished,
		"sort_order":   item.SortOrder,
		"updated_at":   item.UpdatedAt,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated GalleryProject
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return GalleryProject{}, mapMongoError(err)
	}
	return updated, nil
}

func (r *MongoGalleryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *MongoGalleryRepository) ListPublished(ctx context.Context) ([]GalleryProject, error) {
	return findAll[GalleryProject](ctx, r.col, bson.M{"is_published": true}, options.Find().SetSort(listSort))
}

func (r *MongoGalleryRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]GalleryProject, error) {
	opts := options.Find().SetSort(listSort).SetLimit(limit).SetSkip(offset)
	return findAll[GalleryProject](ctx, r.col, adminQuery(filter), opts)
}

func (r *MongoGalleryRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, adminQuery(filter))
}

func adminQuery(filter AdminListFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	return query
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, query bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
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

func mapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrSlugExists
	default:
		return err
	}
}
