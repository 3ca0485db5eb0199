package domain

import (
	"testing"

	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTier(t *testing.T) {
	tests := []struct {
		raw  string
		want PriceTier
	}{
		{"budget", TierBudget},
		{"  Budget ", TierBudget},
		{"under 4000", TierBudget},
		{"mid_range", TierMidRange},
		{"mid-range", TierMidRange},
		{"4000-10000", TierMidRange},
		{"premium", TierPremium},
		{"above 10000", TierPremium},
		// Сырые числа: <=5000 budget, <=10000 mid_range, дальше premium.
		{"3000", TierBudget},
		{"5000", TierBudget},
		{"5000.01", TierMidRange},
		{"10000", TierMidRange},
		{"10000.01", TierPremium},
		{"25000", TierPremium},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeTier(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, raw := range []string{"", "  ", "cheap", "-100", "10k"} {
		t.Run("invalid "+raw, func(t *testing.T) {
			_, err := NormalizeTier(raw)
			assert.ErrorIs(t, err, e.ErrInvalidPriceTier)
		})
	}
}

func TestPriceTier_Contains(t *testing.T) {
	tests := []struct {
		name  string
		tier  PriceTier
		price int64
		want  bool
	}{
		{"budget lower edge", TierBudget, 1, true},
		{"budget below upper bound", TierBudget, 3999_99, true},
		{"budget excludes boundary", TierBudget, 4000_00, false},
		{"mid_range includes boundary", TierMidRange, 4000_00, true},
		{"mid_range below upper bound", TierMidRange, 9999_99, true},
		{"mid_range excludes boundary", TierMidRange, 10000_00, false},
		{"premium includes boundary", TierPremium, 10000_00, true},
		{"premium unbounded", TierPremium, 1_000_000_00, true},
		{"unparsed price never matches", TierBudget, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tier.Contains(tt.price))
		})
	}
}

func TestPreference_FacetValues(t *testing.T) {
	p := &Preference{Tier: TierBudget, SkinTone: "warm", ProductType: "shirt"}

	values := p.FacetValues()
	assert.Equal(t, map[Facet]string{
		FacetSkinTone:    "warm",
		FacetProductType: "shirt",
	}, values)
}
