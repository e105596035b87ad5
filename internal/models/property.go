package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyType string

const (
	PropertyTypeResidential PropertyType = "residential"
	PropertyTypeCommercial  PropertyType = "commercial"
	PropertyTypeVilla       PropertyType = "villa"
	PropertyTypeApartment   PropertyType = "apartment"
)

type Occupancy string

const (
	OccupancyVacant Occupancy = "vacant"
	OccupancyTenant Occupancy = "tenant"
	OccupancyOwned  Occupancy = "owned"
)

type PropertyImages struct {
	HeroImg  string   `bson:"heroImg,omitempty" json:"heroImg,omitempty"`
	Gallery  []string `bson:"gallery,omitempty" json:"gallery,omitempty"`
	FloorMap string   `bson:"floorMap,omitempty" json:"floorMap,omitempty"`
}

type AmenityDistance struct {
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit" json:"unit"`
}

type NearbyAmenity struct {
	Name     string          `bson:"name" json:"name"`
	Distance AmenityDistance `bson:"distance" json:"distance"`
}

// Location always carries lat, long and address; the rest is optional.
type Location struct {
	Lat       *float64        `bson:"lat" json:"lat"`
	Long      *float64        `bson:"long" json:"long"`
	Address   string          `bson:"address" json:"address"`
	City      string          `bson:"city,omitempty" json:"city,omitempty"`
	District  string          `bson:"district,omitempty" json:"district,omitempty"`
	State     string          `bson:"state,omitempty" json:"state,omitempty"`
	Country   string          `bson:"country,omitempty" json:"country,omitempty"`
	Amenities []NearbyAmenity `bson:"amenities,omitempty" json:"amenities,omitempty"`
}

type PropertyFeatures struct {
	Amenities     []string `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Renovations   []string `bson:"renovations,omitempty" json:"renovations,omitempty"`
	EnergyRating  string   `bson:"energyRating,omitempty" json:"energyRating,omitempty"`
	SmartFeatures []string `bson:"smartFeatures,omitempty" json:"smartFeatures,omitempty"`
	Views         []string `bson:"views,omitempty" json:"views,omitempty"`
}

type Measure struct {
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit" json:"unit"`
}

type Layout struct {
	Size      Measure `bson:"size,omitempty" json:"size,omitempty"`
	Bedrooms  int     `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Kitchen   int     `bson:"kitchen,omitempty" json:"kitchen,omitempty"`
	Bathrooms int     `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
}

type ListedBy struct {
	Name    string   `bson:"name,omitempty" json:"name,omitempty"`
	Link    string   `bson:"link,omitempty" json:"link,omitempty"`
	Contact []string `bson:"contact,omitempty" json:"contact,omitempty"`
}

// Finance carries the investment metrics the search endpoint filters on.
type Finance struct {
	Yield float64 `bson:"yield,omitempty" json:"yield,omitempty"`
	Index float64 `bson:"index,omitempty" json:"index,omitempty"`
}

type PropertyMetadata struct {
	MLS            int        `bson:"mls,omitempty" json:"mls,omitempty"`
	DatePosted     time.Time  `bson:"datePosted" json:"datePosted"`
	DateUpdated    time.Time  `bson:"dateUpdated" json:"dateUpdated"`
	Views          int64      `bson:"views" json:"views"`
	Likes          int64      `bson:"likes" json:"likes"`
	CompletionDate *time.Time `bson:"completionDate,omitempty" json:"completionDate,omitempty"`
}

type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Images      PropertyImages     `bson:"images,omitempty" json:"images,omitempty"`
	Type        PropertyType       `bson:"type,omitempty" json:"type,omitempty"`
	Location    Location           `bson:"location" json:"location"`
	Features    PropertyFeatures   `bson:"features,omitempty" json:"features,omitempty"`
	Layout      Layout             `bson:"layout,omitempty" json:"layout,omitempty"`
	ListedBy    ListedBy           `bson:"listedBy,omitempty" json:"listedBy,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Occupancy   Occupancy          `bson:"occupancy,omitempty" json:"occupancy,omitempty"`
	Price       Measure            `bson:"price,omitempty" json:"price,omitempty"`
	Finance     Finance            `bson:"finance,omitempty" json:"finance,omitempty"`
	Metadata    PropertyMetadata   `bson:"metadata" json:"metadata"`
}

func (p *Property) Validate() error {
	if p.Name == "" {
		return errors.New("property name missing")
	}
	if p.Location.Lat == nil {
		return errors.New("latitude is required")
	}
	if p.Location.Long == nil {
		return errors.New("longitude is required")
	}
	if p.Location.Address == "" {
		return errors.New("address is required")
	}
	if p.Type != "" {
		switch p.Type {
		case PropertyTypeResidential, PropertyTypeCommercial, PropertyTypeVilla, PropertyTypeApartment:
		default:
			return errors.New("invalid property type")
		}
	}
	if p.Occupancy != "" {
		switch p.Occupancy {
		case OccupancyVacant, OccupancyTenant, OccupancyOwned:
		default:
			return errors.New("invalid occupancy")
		}
	}
	return nil
}
