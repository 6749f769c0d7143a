package dataprovider

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"rei_analyzer/pkg/models"
)

var streetNames = []string{
	"Maple St", "Oak Ave", "Elm Dr", "Cedar Ln", "Walnut Ct",
	"Birch Rd", "Chestnut Blvd", "Sycamore Way", "Willow Pl", "Hickory Ter",
}

var propertyTypes = []string{"single_family", "single_family", "single_family", "duplex", "condo", "townhouse"}

// MockListingGenerator produces synthetic listings seeded from a market's
// price and rent levels. A fixed seed reproduces an identical batch, which
// keeps demos and tests deterministic.
type MockListingGenerator struct {
	rng     *rand.Rand
	markets MarketDataProvider
}

// NewMockListingGenerator builds a generator over the given market table.
func NewMockListingGenerator(seed int64, markets MarketDataProvider) *MockListingGenerator {
	return &MockListingGenerator{
		rng:     rand.New(rand.NewSource(seed)),
		markets: markets,
	}
}

// Listings generates count synthetic properties for the named market.
// Prices scatter around the market median; rents track price with noise so
// the batch contains both attractive and mediocre deals.
func (g *MockListingGenerator) Listings(marketName string, count int) ([]*models.Property, error) {
	m, err := g.markets.Market(marketName)
	if err != nil {
		return nil, err
	}
	medianPrice := 250000.0
	if m.MedianHomePrice != nil {
		medianPrice = *m.MedianHomePrice
	}
	medianRent := 1500.0
	if m.MedianRent != nil {
		medianRent = *m.MedianRent
	}

	out := make([]*models.Property, 0, count)
	for i := 0; i < count; i++ {
		priceFactor := 0.65 + g.rng.Float64()*0.80 // 0.65x .. 1.45x of median
		price := roundTo(medianPrice*priceFactor, 1000)

		// Rent correlates with price but with its own spread, so smaller
		// properties can out-earn their price tier.
		rentFactor := 0.80 + g.rng.Float64()*0.45
		rent := roundTo(medianRent*priceFactor*rentFactor/1.0, 25)

		dom := g.rng.Intn(110) + 3
		beds := 2 + g.rng.Intn(4)
		sqft := 850 + g.rng.Intn(1600)

		out = append(out, &models.Property{
			ID:            uuid.New().String(),
			Address:       fmt.Sprintf("%d %s", 100+g.rng.Intn(9000), streetNames[g.rng.Intn(len(streetNames))]),
			City:          m.Name,
			State:         m.State,
			MarketName:    m.Name,
			PropertyType:  propertyTypes[g.rng.Intn(len(propertyTypes))],
			Price:         price,
			EstimatedRent: rent,
			Bedrooms:      beds,
			Bathrooms:     1 + float64(g.rng.Intn(4))*0.5,
			SquareFeet:    sqft,
			YearBuilt:     1925 + g.rng.Intn(100),
			DaysOnMarket:  &dom,
			ListingDate:   time.Now().AddDate(0, 0, -dom),
		})
	}
	return out, nil
}

func roundTo(v, unit float64) float64 {
	return float64(int(v/unit+0.5)) * unit
}
