package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterAlwaysConstrainsAvailability(t *testing.T) {
	f := SearchQuery{}.Filter()
	assert.Equal(t, bson.M{"available": true}, f)
}

func TestFilterEqualityFields(t *testing.T) {
	f := SearchQuery{Type: "pg", City: "Pune", Gender: "female"}.Filter()

	assert.Equal(t, "pg", f["type"])
	assert.Equal(t, "pune", f["city"], "city filter is matched lowercase")
	assert.Equal(t, "female", f["gender"])
}

func TestFilterPriceBounds(t *testing.T) {
	f := SearchQuery{MinPrice: "5000", MaxPrice: "12000.50"}.Filter()
	require.Contains(t, f, "price")
	price := f["price"].(bson.M)
	assert.Equal(t, 5000.0, price["$gte"])
	assert.Equal(t, 12000.5, price["$lte"])

	// One-sided bounds produce one-sided predicates.
	f = SearchQuery{MinPrice: "3000"}.Filter()
	price = f["price"].(bson.M)
	assert.Equal(t, 3000.0, price["$gte"])
	assert.NotContains(t, price, "$lte")

	// Junk bounds impose no price constraint at all.
	f = SearchQuery{MinPrice: "cheap", MaxPrice: ""}.Filter()
	assert.NotContains(t, f, "price")
}

func TestFilterAmenitiesAreConjunctive(t *testing.T) {
	f := SearchQuery{Amenities: "wifi, ac , ,laundry"}.Filter()
	require.Contains(t, f, "amenities")
	assert.Equal(t, bson.M{"$all": bson.A{"wifi", "ac", "laundry"}}, f["amenities"])
}

func TestFilterSearchEscapesRegexMeta(t *testing.T) {
	f := SearchQuery{Search: "MG Road (East)"}.Filter()
	require.Contains(t, f, "$or")
	or := f["$or"].(bson.A)
	require.Len(t, or, 3)

	re := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, "i", re.Options)
	assert.Equal(t, `MG Road \(East\)`, re.Pattern, "user input is a literal, not a pattern")
}

func TestFilterIsIdempotent(t *testing.T) {
	q := SearchQuery{Type: "hostel", City: "Delhi", MinPrice: "100", Amenities: "wifi", Search: "near metro"}
	assert.Equal(t, q.Filter(), q.Filter())
}

func TestPaginationDefaultsAndSkip(t *testing.T) {
	page, limit, skip := SearchQuery{}.Pagination()
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(12), limit)
	assert.Equal(t, int64(0), skip)

	page, limit, skip = SearchQuery{Page: 3, Limit: 20}.Pagination()
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(20), limit)
	assert.Equal(t, int64(40), skip)

	// Nonsense values fall back to defaults rather than erroring.
	page, limit, skip = SearchQuery{Page: -5, Limit: 0}.Pagination()
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(12), limit)
	assert.Equal(t, int64(0), skip)
}

func TestSortSpec(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, SearchQuery{}.SortSpec())
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, SearchQuery{Sort: "price"}.SortSpec())
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, SearchQuery{Sort: "-price"}.SortSpec())
	// A bare "-" degrades to the default ordering.
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, SearchQuery{Sort: "-"}.SortSpec())
}

func TestNearFilterRadiusConversion(t *testing.T) {
	f := NearQuery{Lat: 18.52, Lng: 73.85, RadiusKm: 5}.Filter()

	assert.Equal(t, true, f["available"])
	loc := f["location"].(bson.M)["$geoWithin"].(bson.M)["$centerSphere"].(bson.A)
	assert.Equal(t, bson.A{73.85, 18.52}, loc[0], "center is [lng, lat]")
	assert.InDelta(t, 5/6378.1, loc[1].(float64), 1e-12)
	assert.NotContains(t, f, "type")
}

func TestNearFilterOptionalType(t *testing.T) {
	f := NearQuery{Lat: 1, Lng: 2, RadiusKm: 3, Type: "dormitory"}.Filter()
	assert.Equal(t, "dormitory", f["type"])
}
