package models

// Market holds demographic and housing statistics for a metro area.
// It is immutable reference data for a given analysis run; fields that a data
// provider could not supply are nil and count against data completeness when
// the market is scored.
type Market struct {
	Name  string `json:"name"`
	State string `json:"state"`

	// Demographics
	Population             *float64 `json:"population,omitempty"`
	PopulationGrowthRate   *float64 `json:"population_growth_rate,omitempty"` // Annual fraction
	JobGrowthRate          *float64 `json:"job_growth_rate,omitempty"`
	UnemploymentRate       *float64 `json:"unemployment_rate,omitempty"`
	MedianHouseholdIncome  *float64 `json:"median_household_income,omitempty"`

	// Housing
	MedianHomePrice   *float64 `json:"median_home_price,omitempty"`
	MedianRent        *float64 `json:"median_rent,omitempty"` // Monthly
	PriceGrowth1Yr    *float64 `json:"price_growth_1yr,omitempty"`
	RentGrowth1Yr     *float64 `json:"rent_growth_1yr,omitempty"`
	PriceVolatility   *float64 `json:"price_volatility,omitempty"` // Std dev of annual price changes
	DaysOnMarket      *float64 `json:"days_on_market,omitempty"`
	MonthsOfInventory *float64 `json:"months_of_inventory,omitempty"`

	// Operating environment
	PropertyTaxRate  *float64 `json:"property_tax_rate,omitempty"` // Annual fraction of value
	InsuranceRate    *float64 `json:"insurance_rate,omitempty"`    // Annual fraction of value
	LandlordFriendly *bool    `json:"landlord_friendly,omitempty"`
	StateIncomeTax   *bool    `json:"state_income_tax,omitempty"`
}

// RentToPriceRatio returns median monthly rent / median home price as a raw
// fraction (e.g. 0.0072), or nil when either input is missing. All threshold
// comparisons across the codebase use this fraction convention, never a
// percent-scaled value.
func (m *Market) RentToPriceRatio() *float64 {
	if m.MedianRent == nil || m.MedianHomePrice == nil || *m.MedianHomePrice <= 0 {
		return nil
	}
	ratio := *m.MedianRent / *m.MedianHomePrice
	return &ratio
}
