package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estatehub/api/internal/models"
)

// SearchPageSize caps free-text search results.
const SearchPageSize = 10

// PropertySearch carries the free-text term and the optional numeric range
// narrowing filters of the property search endpoint.
type PropertySearch struct {
	Term           string
	MinPrice       *float64
	MaxPrice       *float64
	MinYield       *float64
	MaxYield       *float64
	MinArea        *float64
	MaxArea        *float64
	MinIndex       *float64
	MaxIndex       *float64
	CompletionDate *time.Time
}

type PropertyRepository struct {
	collection *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{collection: db.Collection("properties")}
}

func (r *PropertyRepository) Create(ctx context.Context, property models.Property) (models.Property, error) {
	property.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	property.Metadata.DatePosted = now
	property.Metadata.DateUpdated = now

	if _, err := r.collection.InsertOne(ctx, property); err != nil {
		return models.Property{}, err
	}
	return property, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	var property models.Property
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Property{}, ErrNotFound
		}
		return models.Property{}, err
	}
	return property, nil
}

func (r *PropertyRepository) Find(ctx context.Context, filter bson.M) ([]models.Property, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, updates bson.M) (models.Property, error) {
	updates["metadata.dateUpdated"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var property models.Property
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Property{}, ErrNotFound
		}
		return models.Property{}, err
	}
	return property, nil
}

func (r *PropertyRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter; callers treat failures as non-fatal.
func (r *PropertyRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"metadata.views": 1}})
	return err
}

func (r *PropertyRepository) Search(ctx context.Context, search PropertySearch) ([]models.Property, error) {
	query := buildSearchQuery(search)

	opts := options.Find().SetLimit(SearchPageSize)
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// buildSearchQuery turns a PropertySearch into a mongo filter: the term is a
// case-insensitive substring match across the name and address fields, the
// ranges narrow it, and completionDate matches exactly.
func buildSearchQuery(search PropertySearch) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search.Term), Options: "i"}
	query := bson.M{
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"location.address": pattern},
			bson.M{"location.city": pattern},
			bson.M{"location.district": pattern},
			bson.M{"location.state": pattern},
		},
	}

	addRange(query, "price.value", search.MinPrice, search.MaxPrice)
	addRange(query, "finance.yield", search.MinYield, search.MaxYield)
	addRange(query, "layout.size.value", search.MinArea, search.MaxArea)
	addRange(query, "finance.index", search.MinIndex, search.MaxIndex)

	if search.CompletionDate != nil {
		query["metadata.completionDate"] = *search.CompletionDate
	}

	return query
}

func addRange(query bson.M, field string, min, max *float64) {
	if min == nil && max == nil {
		return
	}
	bounds := bson.M{}
	if min != nil {
		bounds["$gte"] = *min
	}
	if max != nil {
		bounds["$lte"] = *max
	}
	query[field] = bounds
}
