package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"estatehub/api/internal/models"
)

type RequestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{collection: db.Collection("userRequests")}
}

func (r *RequestRepository) Create(ctx context.Context, request models.UserRequest) (models.UserRequest, error) {
	request.ID = primitive.NewObjectID()
	if request.Date.IsZero() {
		request.Date = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, request); err != nil {
		return models.UserRequest{}, err
	}
	return request, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.UserRequest, error) {
	var request models.UserRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.UserRequest{}, ErrNotFound
		}
		return models.UserRequest{}, err
	}
	return request, nil
}

func (r *RequestRepository) FindAll(ctx context.Context) ([]models.UserRequest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	requests := []models.UserRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
