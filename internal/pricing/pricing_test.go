package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/washdesk/backend/internal/models"
)

func TestPriceLineItem(t *testing.T) {
	exterior := models.Service{
		ID:        "SRV-EXT",
		Name:      "Exterior Wash",
		BasePrice: 299,
		Active:    true,
		Packages: []models.PackageOption{
			{Tier: models.PackageMonthly, Times: 4, Price: 999},
			{Tier: models.PackageQuarterly, Times: 12, Price: 2799},
		},
	}

	tests := []struct {
		name         string
		pkg          models.PackageType
		times        int
		addOns       []models.AddOn
		wantUnit     float64
		wantAddOns   float64
		wantLine     float64
		wantFellBack bool
	}{
		{
			name:     "one_time_uses_base_price",
			pkg:      models.PackageOneTime,
			wantUnit: 299,
			wantLine: 299,
		},
		{
			name:     "absent_package_type_is_one_time",
			pkg:      "",
			wantUnit: 299,
			wantLine: 299,
		},
		{
			name:     "package_tier_match_uses_tier_total",
			pkg:      models.PackageMonthly,
			times:    4,
			wantUnit: 999,
			wantLine: 999,
		},
		{
			name:         "package_tier_miss_falls_back_to_base_times",
			pkg:          models.PackageMonthly,
			times:        6,
			wantUnit:     1794,
			wantLine:     1794,
			wantFellBack: true,
		},
		{
			name:         "unlisted_tier_falls_back",
			pkg:          models.PackageYearly,
			times:        48,
			wantUnit:     14352,
			wantLine:     14352,
			wantFellBack: true,
		},
		{
			name: "add_ons_are_summed_on_top",
			pkg:  models.PackageOneTime,
			addOns: []models.AddOn{
				{ID: "ADD-WAX", Price: 149},
				{ID: "ADD-VAC", Price: 99.5},
			},
			wantUnit:   299,
			wantAddOns: 248.5,
			wantLine:   547.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fellBack := PriceLineItem(exterior, tt.pkg, tt.times, tt.addOns)

			assert.Equal(t, tt.wantUnit, got.UnitPrice)
			assert.Equal(t, tt.wantAddOns, got.AddOnsTotal)
			assert.Equal(t, tt.wantLine, got.LineTotal)
			assert.Equal(t, tt.wantFellBack, fellBack)
		})
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.OrderLineItem
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
		wantErr      error
	}{
		{
			name:         "single_one_time_item",
			items:        []models.OrderLineItem{{LineTotal: 299}},
			wantSubtotal: 299,
			wantTax:      53.82,
			wantTotal:    352.82,
		},
		{
			name: "multiple_items",
			items: []models.OrderLineItem{
				{LineTotal: 299},
				{LineTotal: 547.5},
			},
			wantSubtotal: 846.5,
			wantTax:      152.37,
			wantTotal:    998.87,
		},
		{
			name:    "empty_order",
			items:   nil,
			wantErr: models.ErrEmptyOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, tax, total, err := Aggregate(tt.items)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantSubtotal, subtotal)
			assert.Equal(t, tt.wantTax, tax)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 53.82, Round2(299*0.18))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 2.68, Round2(2.675000001))
}
