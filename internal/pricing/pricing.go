package pricing

import (
	"math"

	"github.com/washdesk/backend/internal/models"
)

// TaxRate is applied to every order subtotal.
const TaxRate = 0.18

// LinePrice is the priced breakdown of a single line item.
type LinePrice struct {
	UnitPrice   float64
	AddOnsTotal float64
	LineTotal   float64
}

// PriceLineItem resolves the price of one booked service.
//
// One-time bookings are priced at the service base price. Package bookings
// use the matching package tier total when one exists for the requested
// occurrence count; otherwise the price degrades to basePrice * times.
// The second return value reports whether a package tier lookup missed.
func PriceLineItem(svc models.Service, pkg models.PackageType, times int, addOns []models.AddOn) (LinePrice, bool) {
	unit := svc.BasePrice
	fellBack := false

	if pkg != models.PackageOneTime && pkg != "" {
		unit = svc.BasePrice * float64(times)
		fellBack = true
		for _, opt := range svc.Packages {
			if opt.Tier == pkg && opt.Times == times {
				unit = opt.Price
				fellBack = false
				break
			}
		}
	}

	var addOnsTotal float64
	for _, a := range addOns {
		addOnsTotal += a.Price
	}

	return LinePrice{
		UnitPrice:   Round2(unit),
		AddOnsTotal: Round2(addOnsTotal),
		LineTotal:   Round2(unit + addOnsTotal),
	}, fellBack
}

// Aggregate combines priced line items into order totals.
func Aggregate(items []models.OrderLineItem) (subtotal, tax, total float64, err error) {
	if len(items) == 0 {
		return 0, 0, 0, models.ErrEmptyOrder
	}

	for _, item := range items {
		subtotal += item.LineTotal
	}

	subtotal = Round2(subtotal)
	tax = Round2(subtotal * TaxRate)
	total = Round2(subtotal + tax)

	return subtotal, tax, total, nil
}

// Round2 rounds a money amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
