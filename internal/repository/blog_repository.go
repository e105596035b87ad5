package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estatehub/api/internal/models"
)

type BlogRepository struct {
	collection *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{collection: db.Collection("blogs")}
}

func (r *BlogRepository) Create(ctx context.Context, blog models.Blog) (models.Blog, error) {
	blog.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	blog.Metadata.DatePosted = now
	blog.Metadata.DateUpdated = now

	if _, err := r.collection.InsertOne(ctx, blog); err != nil {
		return models.Blog{}, err
	}
	return blog, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Blog{}, ErrNotFound
		}
		return models.Blog{}, err
	}
	return blog, nil
}

func (r *BlogRepository) Find(ctx context.Context, filter bson.M) ([]models.Blog, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *BlogRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, updates bson.M) (models.Blog, error) {
	updates["metadata.dateUpdated"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var blog models.Blog
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Blog{}, ErrNotFound
		}
		return models.Blog{}, err
	}
	return blog, nil
}

func (r *BlogRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"metadata.views": 1}})
	return err
}
