package repository

import (
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// earthRadiusKm is Earth's mean radius, used to convert a kilometre
// radius into the angular radius $centerSphere expects.
const earthRadiusKm = 6378.1

// NearResultCap bounds geo search results; the near path has no
// pagination.
const NearResultCap = 50

// Search defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 12
	DefaultSort  = "-createdAt"
)

// SearchQuery carries the optional public-search filters. Empty fields
// impose no constraint. Building a query is a pure transformation; the
// same input always yields the same predicate and pagination.
type SearchQuery struct {
	Type      string // exact category match: pg | hostel | dormitory
	City      string // matched lowercase
	Gender    string // exact policy match: male | female | unisex
	MinPrice  string // inclusive lower price bound, numeric string
	MaxPrice  string // inclusive upper price bound, numeric string
	Amenities string // comma-separated; listing must have every one
	Search    string // case-insensitive substring over title/address/city
	Page      int
	Limit     int
	Sort      string
}

// Filter translates the query into a Mongo predicate. Public search is
// always constrained to available listings; callers cannot override that.
func (q SearchQuery) Filter() bson.M {
	filter := bson.M{"available": true}

	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.City != "" {
		filter["city"] = strings.ToLower(q.City)
	}
	if q.Gender != "" {
		filter["gender"] = q.Gender
	}

	if q.MinPrice != "" || q.MaxPrice != "" {
		price := bson.M{}
		if min, ok := parseNumber(q.MinPrice); ok {
			price["$gte"] = min
		}
		if max, ok := parseNumber(q.MaxPrice); ok {
			price["$lte"] = max
		}
		if len(price) > 0 {
			filter["price"] = price
		}
	}

	if q.Amenities != "" {
		all := bson.A{}
		for _, a := range strings.Split(q.Amenities, ",") {
			if a = strings.TrimSpace(a); a != "" {
				all = append(all, a)
			}
		}
		if len(all) > 0 {
			filter["amenities"] = bson.M{"$all": all}
		}
	}

	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"address": re},
			bson.M{"city": re},
		}
	}

	return filter
}

// Pagination computes the 1-based page, page size and skip offset with
// defaults applied.
func (q SearchQuery) Pagination() (page, limit, skip int64) {
	page = int64(q.Page)
	if page < 1 {
		page = DefaultPage
	}
	limit = int64(q.Limit)
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit, (page - 1) * limit
}

// SortSpec parses the single sort parameter ("field" ascending,
// "-field" descending, default newest first) into a Mongo sort document.
func (q SearchQuery) SortSpec() bson.D {
	spec := q.Sort
	if spec == "" {
		spec = DefaultSort
	}
	dir := 1
	if strings.HasPrefix(spec, "-") {
		dir = -1
		spec = spec[1:]
	}
	if spec == "" {
		spec = "createdAt"
		dir = -1
	}
	return bson.D{{Key: spec, Value: dir}}
}

// NearQuery is the geo-radius variant. Lat/Lng are required; RadiusKm
// defaults to 5 at the handler. Results are capped at NearResultCap and
// never paginated.
type NearQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	Type     string // optional category constraint
}

// Filter builds a spherical-cap containment predicate around the center
// point. The radius is converted from kilometres to radians by dividing
// by Earth's mean radius.
func (q NearQuery) Filter() bson.M {
	filter := bson.M{
		"available": true,
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{q.Lng, q.Lat},
					q.RadiusKm / earthRadiusKm,
				},
			},
		},
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	return filter
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return n, err == nil
}
