package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property categories and gender policies form closed enums; anything else
// is rejected at the handler layer.
const (
	CategoryPG        = "pg"
	CategoryHostel    = "hostel"
	CategoryDormitory = "dormitory"

	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"
)

// ValidCategory reports whether t is one of pg/hostel/dormitory.
func ValidCategory(t string) bool {
	return t == CategoryPG || t == CategoryHostel || t == CategoryDormitory
}

// ValidGender reports whether g is one of male/female/unisex.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderUnisex
}

// GeoPoint is a GeoJSON point, coordinates ordered [lng, lat]. The
// properties collection carries a 2dsphere index on it.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// DefaultLocation is the placeholder point for listings created without
// coordinates.
func DefaultLocation() GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{0, 0}}
}

// Property is a rentable listing (PG / hostel / dormitory).
type Property struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title          string             `bson:"title" json:"title"`
	Type           string             `bson:"type" json:"type"`
	Price          float64            `bson:"price" json:"price"`
	Deposit        float64            `bson:"deposit" json:"deposit"`
	Gender         string             `bson:"gender" json:"gender"`
	Amenities      []string           `bson:"amenities" json:"amenities"`
	Images         []string           `bson:"images" json:"images"`
	Location       GeoPoint           `bson:"location" json:"location"`
	Address        string             `bson:"address" json:"address"`
	City           string             `bson:"city" json:"city"` // stored lowercase
	Description    string             `bson:"description" json:"description"`
	Owner          primitive.ObjectID `bson:"owner" json:"owner"`
	ContactNumber  string             `bson:"contactNumber" json:"contactNumber"`
	GoogleMapLink  string             `bson:"googleMapLink" json:"googleMapLink"`
	Available      bool               `bson:"available" json:"available"`
	ViewsCount     int64              `bson:"viewsCount" json:"viewsCount"`
	InquiriesCount int64              `bson:"inquiriesCount" json:"inquiriesCount"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
