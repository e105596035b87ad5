package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildSearchQueryTermOnly(t *testing.T) {
	query := buildSearchQuery(PropertySearch{Term: "downtown"})

	or, ok := query["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 5)

	first, ok := or[0].(bson.M)
	require.True(t, ok)
	pattern, ok := first["name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "downtown", pattern.Pattern)
	assert.Equal(t, "i", pattern.Options)

	// no range keys without bounds
	assert.NotContains(t, query, "price.value")
	assert.NotContains(t, query, "finance.yield")
	assert.NotContains(t, query, "metadata.completionDate")
}

func TestBuildSearchQueryEscapesRegexMeta(t *testing.T) {
	query := buildSearchQuery(PropertySearch{Term: "a+b (west)"})

	or := query["$or"].(bson.A)
	pattern := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `a\+b \(west\)`, pattern.Pattern)
}

func TestBuildSearchQueryRanges(t *testing.T) {
	query := buildSearchQuery(PropertySearch{
		Term:     "lakeside",
		MinPrice: floatPtr(100000),
		MaxPrice: floatPtr(500000),
		MinYield: floatPtr(4.5),
		MaxArea:  floatPtr(120),
	})

	assert.Equal(t, bson.M{"$gte": 100000.0, "$lte": 500000.0}, query["price.value"])
	assert.Equal(t, bson.M{"$gte": 4.5}, query["finance.yield"])
	assert.Equal(t, bson.M{"$lte": 120.0}, query["layout.size.value"])
	assert.NotContains(t, query, "finance.index")
}

func TestBuildSearchQueryCompletionDate(t *testing.T) {
	date := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	query := buildSearchQuery(PropertySearch{Term: "tower", CompletionDate: &date})

	assert.Equal(t, date, query["metadata.completionDate"])
}
