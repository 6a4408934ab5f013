package model

import (
	"time"
)

// Listing is a stored property listing (listing_info table)
type Listing struct {
	ID          int64     `json:"id" db:"id"`
	ListingID   int64     `json:"listing_id" db:"listing_id"`
	Title       *string   `json:"title,omitempty" db:"title"`
	Price       *float64  `json:"price,omitempty" db:"price"`
	Bedrooms    *int      `json:"bedrooms,omitempty" db:"bedrooms"`
	AreaSqft    *float64  `json:"area_sqft,omitempty" db:"area_sqft"`
	UnitType    *string   `json:"unit_type,omitempty" db:"unit_type"`
	Location    *string   `json:"location,omitempty" db:"location"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ToProperty converts a stored listing into the raw property shape the
// advisor normalizes. Missing columns stay nil so normalization can decide.
func (l *Listing) ToProperty() Property {
	p := Property{}
	if l.Location != nil {
		p.City = *l.Location
	}
	if l.Price != nil {
		p.Price = *l.Price
	}
	if l.Bedrooms != nil {
		p.Bedroom = *l.Bedrooms
	}
	return p
}
