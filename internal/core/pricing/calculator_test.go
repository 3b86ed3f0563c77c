package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateM2WithDimensions(t *testing.T) {
	res := Calculate(Input{
		UnitPrice: 1500,
		Unit:      UnitM2,
		Quantity:  1,
		WidthM:    2,
		HeightM:   3,
	})

	assert.Equal(t, 6.0, res.BaseQuantity)
	assert.Equal(t, 6.0, res.QuantityWithWaste)
	assert.Equal(t, 9000.0, res.Subtotal)
	assert.Equal(t, 9000.0, res.Total)
	assert.Equal(t, "2m × 3m = 6.00m² × $1500.00 = $9000.00", res.Breakdown)
}

func TestCalculateM2MultiplePieces(t *testing.T) {
	res := Calculate(Input{
		UnitPrice: 1000,
		Unit:      UnitM2,
		Quantity:  3,
		WidthM:    1.5,
		HeightM:   2,
	})

	assert.Equal(t, 9.0, res.BaseQuantity)
	assert.Equal(t, 9000.0, res.Total)
	assert.Contains(t, res.Breakdown, "1.5m × 2m = 3.00m²")
	assert.Contains(t, res.Breakdown, "× 3 = 9.00m²")
}

func TestCalculateM2WithoutDimensions(t *testing.T) {
	res := Calculate(Input{UnitPrice: 500, Unit: UnitM2, Quantity: 4})

	assert.Equal(t, 4.0, res.BaseQuantity)
	assert.Equal(t, 2000.0, res.Total)
	assert.Equal(t, "4m² × $500.00 = $2000.00", res.Breakdown)
}

func TestCalculateKgFromGrams(t *testing.T) {
	res := Calculate(Input{
		UnitPrice: 8000,
		Unit:      UnitKg,
		Quantity:  5, // overridden by grams
		Grams:     750,
	})

	assert.Equal(t, 0.75, res.BaseQuantity)
	assert.Equal(t, 6000.0, res.Total)
	assert.Equal(t, "750g = 0.75kg × $8000.00 = $6000.00", res.Breakdown)
}

func TestCalculateDocenaPricePerDozen(t *testing.T) {
	// A dozen is priced per dozen: 2 docenas at $3000 is $6000, never ×12.
	res := Calculate(Input{UnitPrice: 3000, Unit: UnitDocena, Quantity: 2})

	assert.Equal(t, 2.0, res.BaseQuantity)
	assert.Equal(t, 6000.0, res.Total)
	assert.Equal(t, "2 docena(s) (24 unidades) × $3000.00 = $6000.00", res.Breakdown)
}

func TestCalculateWasteInflatesChargedQuantityOnly(t *testing.T) {
	res := Calculate(Input{
		UnitPrice:       1200,
		Unit:            UnitM2,
		Quantity:        1,
		WidthM:          2,
		HeightM:         2.5,
		WastePercentage: 10,
	})

	assert.Equal(t, 5.0, res.BaseQuantity)
	assert.Equal(t, 5.5, res.QuantityWithWaste)
	assert.Equal(t, 6000.0, res.Subtotal)
	assert.Equal(t, 6600.0, res.Total)
	assert.Contains(t, res.Breakdown, "+ 10% desperdicio = 5.5000 m2")
}

func TestCalculateZeroWasteLeavesQuantityAlone(t *testing.T) {
	res := Calculate(Input{UnitPrice: 100, Unit: UnitUnidad, Quantity: 3, WastePercentage: 0})

	assert.Equal(t, res.BaseQuantity, res.QuantityWithWaste)
	assert.NotContains(t, res.Breakdown, "desperdicio")
}

func TestCalculateDefaultsQuantityToOne(t *testing.T) {
	res := Calculate(Input{UnitPrice: 250, Unit: UnitLitro})

	assert.Equal(t, 1.0, res.BaseQuantity)
	assert.Equal(t, 250.0, res.Total)

	res = Calculate(Input{UnitPrice: 250, Unit: UnitLitro, Quantity: -2})
	assert.Equal(t, 1.0, res.BaseQuantity)
}

func TestCalculateUnknownUnitFallsBackToUnidad(t *testing.T) {
	res := Calculate(Input{UnitPrice: 100, Unit: Unit("cajón"), Quantity: 2})

	assert.Equal(t, UnitUnidad, res.Unit)
	assert.Equal(t, 200.0, res.Total)
	assert.Equal(t, "2 unidad(es) × $100.00 = $200.00", res.Breakdown)
}

func TestCalculateRounding(t *testing.T) {
	res := Calculate(Input{
		UnitPrice:       999.99,
		Unit:            UnitKg,
		Grams:           333,
		WastePercentage: 5,
	})

	require.InDelta(t, 0.333, res.BaseQuantity, 1e-9)
	require.InDelta(t, 0.3497, res.QuantityWithWaste, 1e-9)
	require.InDelta(t, 333.0, res.Subtotal, 0.005)
	require.InDelta(t, 349.65, res.Total, 0.005)
}

func TestParseUnit(t *testing.T) {
	assert.Equal(t, UnitKg, ParseUnit("kg"))
	assert.Equal(t, UnitDocena, ParseUnit("docena"))
	assert.Equal(t, UnitUnidad, ParseUnit(""))
	assert.Equal(t, UnitUnidad, ParseUnit("tonelada"))
}
