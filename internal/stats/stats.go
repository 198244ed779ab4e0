// Package stats computes cross-provider summary statistics for listing and
// registry result sets. All functions are pure: they never mutate their
// input, so recomputing over the same records yields identical summaries.
package stats

import (
	"math"

	"propertydash/server/internal/models"
	"propertydash/server/internal/normalize"
)

// Compute summarizes a listing result set. Records without a platform or
// type are counted under "unknown". The price range only considers records
// with a positive price; when none qualify all three fields stay nil, which
// is the "no data" sentinel as opposed to a legitimate zero.
func Compute(records []models.PropertyRecord) models.StatsSummary {
	summary := models.StatsSummary{
		ByPlatform: make(map[string]int),
		ByType:     make(map[string]int),
	}

	var prices []int
	for _, rec := range records {
		platform := rec.Platform
		if platform == "" {
			platform = "unknown"
		}
		summary.ByPlatform[platform]++

		propType := rec.Type
		if propType == "" {
			propType = "unknown"
		}
		summary.ByType[propType]++

		if rec.Price > 0 {
			prices = append(prices, rec.Price)
		}
	}

	if len(prices) > 0 {
		min, max, avg := rangeOf(prices)
		summary.PriceRange = models.PriceRange{Min: &min, Max: &max, Avg: &avg}
	}
	return summary
}

// ComputeTradeStats summarizes closed sale transactions. Amounts are manwon;
// the formatted strings render in eok for the dashboard header.
func ComputeTradeStats(records []models.TradeRecord) models.TradeStatsSummary {
	var amounts []int
	for _, rec := range records {
		if rec.DealAmount > 0 {
			amounts = append(amounts, rec.DealAmount)
		}
	}
	if len(amounts) == 0 {
		return models.TradeStatsSummary{}
	}

	min, max, avg := rangeOf(amounts)
	return models.TradeStatsSummary{
		Average:       avg,
		Min:           min,
		Max:           max,
		Count:         len(records),
		AverageString: normalize.FormatManwon(avg),
		MinString:     normalize.FormatManwon(min),
		MaxString:     normalize.FormatManwon(max),
	}
}

// ComputeRentStats summarizes jeonse/월세 contracts, splitting the monthly
// rent average over the subset that actually carries a monthly rent.
func ComputeRentStats(records []models.TradeRecord) models.RentStatsSummary {
	var deposits, rents []int
	for _, rec := range records {
		if rec.DepositAmount > 0 {
			deposits = append(deposits, rec.DepositAmount)
		}
		if rec.MonthlyRent > 0 {
			rents = append(rents, rec.MonthlyRent)
		}
	}
	if len(deposits) == 0 {
		return models.RentStatsSummary{}
	}

	minDep, maxDep, avgDep := rangeOf(deposits)
	summary := models.RentStatsSummary{
		AverageDeposit: avgDep,
		MinDeposit:     minDep,
		MaxDeposit:     maxDep,
		Count:          len(records),
		RentCount:      len(rents),
	}
	if len(rents) > 0 {
		_, _, summary.AverageRent = rangeOf(rents)
	}
	return summary
}

func rangeOf(values []int) (min, max, avg int) {
	min, max = values[0], values[0]
	sum := 0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	avg = int(math.Round(float64(sum) / float64(len(values))))
	return min, max, avg
}
