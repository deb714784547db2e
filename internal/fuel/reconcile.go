// Package fuel implements the daily tank reconciliation: liters sold from
// matched pump readings, the evaporation model, and the variance between
// actual and expected remaining stock.
package fuel

import (
	"fmt"
	"math"
	"time"
)

// DefaultEvaporationRate is the assumed fractional volume loss per day.
const DefaultEvaporationRate = 0.001 // 0.1%/day

// Reading is one pump observation. The pump totalizers in this business
// count DOWN as fuel is dispensed, so a closing meter is lower than its
// opening meter.
type Reading struct {
	PumpNumber   string
	FuelType     string
	Date         string // YYYY-MM-DD
	MeterReading float64
	Dipstick     float64
}

// Pair is a matched opening/closing reading for one (pump, fuel type, date).
type Pair struct {
	PumpNumber string
	FuelType   string
	Date       string
	LitersSold float64
	Dipstick   float64 // closing dipstick, surfaced as a cross-check only
}

// Stock is the active delivery record for one fuel type.
type Stock struct {
	FuelType     string
	Liters       float64
	DeliveryDate time.Time
}

// Report is the reconciliation result for one fuel type.
type Report struct {
	FuelType            string  `json:"fuel_type"`
	TotalSales          float64 `json:"total_sales"`        // liters
	CurrentLevel        float64 `json:"current_level"`      // initial - sales, the "actual" figure
	ExpectedEvaporation float64 `json:"expected_evaporation"`
	ExpectedRemaining   float64 `json:"expected_remaining"`
	Variance            float64 `json:"variance"` // actual - expected; negative means losses beyond the model
	Revenue             float64 `json:"revenue"`
	DaysSinceDelivery   int     `json:"days_since_delivery"`
	LowStock            bool    `json:"low_stock"`
}

// ValidateClosing enforces the count-down invariant before a closing reading
// is persisted: for the matching opening on the same pump, fuel type and
// date, the closing meter may not exceed the opening meter. This is a hard
// error, unlike the zero-floor applied later during matching.
func ValidateClosing(opening, closing Reading) error {
	if closing.MeterReading > opening.MeterReading {
		return fmt.Errorf("closing meter %.2f exceeds opening meter %.2f for pump %s (%s, %s)",
			closing.MeterReading, opening.MeterReading, closing.PumpNumber, closing.FuelType, closing.Date)
	}
	return nil
}

type pairKey struct {
	pump, fuelType, date string
}

// MatchPairs joins openings and closings on (pump, fuel type, date) and
// derives liters sold per pair. A pair that computes to a non-positive
// figure contributes zero - defensive floor, not an error, since validation
// already happened at submission time.
func MatchPairs(openings, closings []Reading) []Pair {
	opens := make(map[pairKey]Reading, len(openings))
	for _, r := range openings {
		opens[pairKey{r.PumpNumber, r.FuelType, r.Date}] = r
	}

	var pairs []Pair
	for _, c := range closings {
		o, ok := opens[pairKey{c.PumpNumber, c.FuelType, c.Date}]
		if !ok {
			continue // unmatched closing, nothing to derive
		}
		liters := o.MeterReading - c.MeterReading
		if liters < 0 {
			liters = 0
		}
		pairs = append(pairs, Pair{
			PumpNumber: c.PumpNumber,
			FuelType:   c.FuelType,
			Date:       c.Date,
			LitersSold: liters,
			Dipstick:   c.Dipstick,
		})
	}
	return pairs
}

// DaysSince is the evaporation clock: elapsed time since delivery rounded up
// to whole days.
func DaysSince(delivery, now time.Time) int {
	if !now.After(delivery) {
		return 0
	}
	return int(math.Ceil(now.Sub(delivery).Hours() / 24))
}

// Reconcile runs the closed-form batch computation for one fuel type. Pairs
// of other fuel types are ignored so callers can pass the full day's pairs.
func Reconcile(stock Stock, pairs []Pair, pricePerLiter, evaporationRate, lowStockThreshold float64, now time.Time) Report {
	r := Report{FuelType: stock.FuelType}

	for _, p := range pairs {
		if p.FuelType != stock.FuelType {
			continue
		}
		r.TotalSales += p.LitersSold
		r.Revenue += p.LitersSold * pricePerLiter
	}

	r.DaysSinceDelivery = DaysSince(stock.DeliveryDate, now)
	r.CurrentLevel = stock.Liters - r.TotalSales
	r.ExpectedEvaporation = stock.Liters * evaporationRate * float64(r.DaysSinceDelivery)
	r.ExpectedRemaining = stock.Liters - r.ExpectedEvaporation - r.TotalSales
	r.Variance = r.CurrentLevel - r.ExpectedRemaining
	r.LowStock = r.CurrentLevel <= lowStockThreshold

	return r
}
