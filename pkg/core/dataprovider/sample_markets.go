package dataprovider

import (
	"rei_analyzer/pkg/models"
)

func fp(v float64) *float64 { return &v }
func bp(v bool) *bool       { return &v }

// BuiltinMarkets returns the bundled sample market table covering a spread
// of cash-flow, hybrid, and appreciation metros. Figures are representative
// sample data for demos and tests, not live feeds.
func BuiltinMarkets() []*models.Market {
	return []*models.Market{
		{
			Name: "Cleveland", State: "OH",
			Population:            fp(1_780_000),
			PopulationGrowthRate:  fp(0.001),
			JobGrowthRate:         fp(0.010),
			UnemploymentRate:      fp(0.046),
			MedianHouseholdIncome: fp(58_000),
			MedianHomePrice:       fp(145_000),
			MedianRent:            fp(1_250),
			PriceGrowth1Yr:        fp(0.045),
			RentGrowth1Yr:         fp(0.038),
			PriceVolatility:       fp(0.045),
			DaysOnMarket:          fp(34),
			MonthsOfInventory:     fp(2.6),
			PropertyTaxRate:       fp(0.021),
			InsuranceRate:         fp(0.004),
			LandlordFriendly:      bp(true),
			StateIncomeTax:        bp(true),
		},
		{
			Name: "Memphis", State: "TN",
			Population:            fp(1_340_000),
			PopulationGrowthRate:  fp(0.002),
			JobGrowthRate:         fp(0.012),
			UnemploymentRate:      fp(0.052),
			MedianHouseholdIncome: fp(54_000),
			MedianHomePrice:       fp(165_000),
			MedianRent:            fp(1_350),
			PriceGrowth1Yr:        fp(0.030),
			RentGrowth1Yr:         fp(0.030),
			PriceVolatility:       fp(0.050),
			DaysOnMarket:          fp(38),
			MonthsOfInventory:     fp(3.1),
			PropertyTaxRate:       fp(0.013),
			InsuranceRate:         fp(0.006),
			LandlordFriendly:      bp(true),
			StateIncomeTax:        bp(false),
		},
		{
			Name: "Indianapolis", State: "IN",
			Population:            fp(2_110_000),
			PopulationGrowthRate:  fp(0.009),
			JobGrowthRate:         fp(0.016),
			UnemploymentRate:      fp(0.038),
			MedianHouseholdIncome: fp(64_000),
			MedianHomePrice:       fp(225_000),
			MedianRent:            fp(1_550),
			PriceGrowth1Yr:        fp(0.050),
			RentGrowth1Yr:         fp(0.042),
			PriceVolatility:       fp(0.040),
			DaysOnMarket:          fp(29),
			MonthsOfInventory:     fp(2.2),
			PropertyTaxRate:       fp(0.009),
			InsuranceRate:         fp(0.004),
			LandlordFriendly:      bp(true),
			StateIncomeTax:        bp(true),
		},
		{
			Name: "Kansas City", State: "MO",
			Population:            fp(2_200_000),
			PopulationGrowthRate:  fp(0.007),
			JobGrowthRate:         fp(0.014),
			UnemploymentRate:      fp(0.037),
			MedianHouseholdIncome: fp(67_000),
			MedianHomePrice:       fp(250_000),
			MedianRent:            fp(1_500),
			PriceGrowth1Yr:        fp(0.042),
			RentGrowth1Yr:         fp(0.035),
			PriceVolatility:       fp(0.042),
			DaysOnMarket:          fp(31),
			MonthsOfInventory:     fp(2.4),
			PropertyTaxRate:       fp(0.012),
			InsuranceRate:         fp(0.005),
			LandlordFriendly:      bp(true),
			StateIncomeTax:        bp(true),
		},
		{
			Name: "Tampa", State: "FL",
			Population:            fp(3_240_000),
			PopulationGrowthRate:  fp(0.016),
			JobGrowthRate:         fp(0.024),
			UnemploymentRate:      fp(0.033),
			MedianHouseholdIncome: fp(69_000),
			MedianHomePrice:       fp(385_000),
			MedianRent:            fp(2_150),
			PriceGrowth1Yr:        fp(0.020),
			RentGrowth1Yr:         fp(0.015),
			PriceVolatility:       fp(0.075),
			DaysOnMarket:          fp(45),
			MonthsOfInventory:     fp(3.8),
			PropertyTaxRate:       fp(0.009),
			InsuranceRate:         fp(0.012),
			LandlordFriendly:      bp(true),
			StateIncomeTax:        bp(false),
		},
		{
			Name: "Austin", State: "TX",
			Population:            fp(2_470_000),
			PopulationGrowthRate:  fp(0.021),
			JobGrowthRate:         fp(0.028),
			UnemploymentRate:      fp(0.034),
			MedianHouseholdIncome: fp(86_000),
			MedianHomePrice:       fp(450_000),
			MedianRent:            fp(1_950),
			PriceGrowth1Yr:        fp(-0.015),
			RentGrowth1Yr:         fp(-0.005),
			PriceVolatility:       fp(0.095),
			DaysOnMarket:          fp(58),
			MonthsOfInventory:     fp(4.6),
			PropertyTaxRate:       fp(0.018),
			InsuranceRate:         fp(0.007),
			LandlordFriendly:      bp(true),
			StateIncomeTax:        bp(false),
		},
	}
}
