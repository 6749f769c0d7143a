package models

import (
	"time"
)

// Property is a single residential listing under evaluation.
// Records arrive from data-source collaborators (listing feeds, the mock
// generator) and are treated as immutable inputs by the analysis core.
type Property struct {
	ID           string    `json:"id"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zip_code"`
	MarketName   string    `json:"market_name"`
	PropertyType string    `json:"property_type"` // 'single_family', 'duplex', 'condo', etc.
	Price        float64   `json:"price"`
	EstimatedRent float64  `json:"estimated_rent"` // Monthly
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	SquareFeet   int       `json:"square_feet"`
	YearBuilt    int       `json:"year_built"`
	DaysOnMarket *int      `json:"days_on_market,omitempty"`
	ListingDate  time.Time `json:"listing_date"`
	URL          string    `json:"url,omitempty"`
}

// PricePerSquareFoot returns price / sqft, or 0 when square footage is unknown.
func (p *Property) PricePerSquareFoot() float64 {
	if p.SquareFeet <= 0 {
		return 0
	}
	return p.Price / float64(p.SquareFeet)
}
