package pricing

import (
	"fmt"
	"math"
	"strconv"
)

// Unit is the selling unit of a catalog product.
type Unit string

const (
	UnitUnidad  Unit = "unidad"
	UnitKg      Unit = "kg"
	UnitM2      Unit = "m2"
	UnitMLineal Unit = "m_lineal"
	UnitLitro   Unit = "litro"
	UnitDocena  Unit = "docena"
	UnitCombo   Unit = "combo"
)

// ParseUnit normalizes a unit string. Anything unrecognized falls back to unidad.
func ParseUnit(s string) Unit {
	switch Unit(s) {
	case UnitUnidad, UnitKg, UnitM2, UnitMLineal, UnitLitro, UnitDocena, UnitCombo:
		return Unit(s)
	default:
		return UnitUnidad
	}
}

// Input holds everything needed to price a line item.
type Input struct {
	UnitPrice       float64
	Unit            Unit
	Quantity        float64
	WastePercentage float64

	// Dimensions for m2 products
	WidthM  float64
	HeightM float64

	// Weight in grams for kg products (overrides Quantity when set)
	Grams float64
}

// Result is the outcome of a price calculation.
type Result struct {
	BaseQuantity      float64 `json:"base_quantity"`
	QuantityWithWaste float64 `json:"quantity_with_waste"`
	WastePercentage   float64 `json:"waste_percentage"`
	UnitPrice         float64 `json:"unit_price"`
	Unit              Unit    `json:"unit"`
	Subtotal          float64 `json:"subtotal"`
	Total             float64 `json:"total"`
	Breakdown         string  `json:"breakdown"`
}

// Calculate prices a line item according to the product's selling unit.
//
// m2 products accept width/height in meters and multiply the area by the
// quantity of pieces. kg products accept grams, which override the quantity.
// docena is priced per dozen: the quantity passes through untouched and the
// ×12 conversion is informational only. Waste percentage inflates the charged
// quantity, never the displayed base quantity.
func Calculate(in Input) Result {
	unit := ParseUnit(string(in.Unit))

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	baseQuantity := quantity

	var breakdown string

	switch unit {
	case UnitM2:
		if in.WidthM > 0 && in.HeightM > 0 {
			area := in.WidthM * in.HeightM
			baseQuantity = area * quantity
			breakdown = fmt.Sprintf("%sm × %sm = %.2fm²", fnum(in.WidthM), fnum(in.HeightM), area)
			if in.Quantity > 1 {
				breakdown += fmt.Sprintf(" × %s = %.2fm²", fnum(in.Quantity), baseQuantity)
			}
		} else {
			breakdown = fnum(baseQuantity) + "m²"
		}

	case UnitKg:
		if in.Grams > 0 {
			baseQuantity = in.Grams / 1000
			breakdown = fnum(in.Grams) + "g = " + fnum(baseQuantity) + "kg"
		} else {
			breakdown = fnum(baseQuantity) + "kg"
		}

	case UnitDocena:
		breakdown = fmt.Sprintf("%s docena(s) (%s unidades)", fnum(baseQuantity), fnum(baseQuantity*12))

	case UnitMLineal:
		breakdown = fnum(baseQuantity) + "m lineal"

	case UnitLitro:
		breakdown = fnum(baseQuantity) + " litro(s)"

	case UnitCombo:
		breakdown = fnum(baseQuantity) + " combo(s)"

	default:
		breakdown = fnum(baseQuantity) + " unidad(es)"
	}

	quantityWithWaste := baseQuantity
	if in.WastePercentage > 0 {
		quantityWithWaste = baseQuantity * (1 + in.WastePercentage/100)
		breakdown += fmt.Sprintf(" + %s%% desperdicio = %.4f %s", fnum(in.WastePercentage), quantityWithWaste, unit)
	}

	subtotal := baseQuantity * in.UnitPrice
	total := quantityWithWaste * in.UnitPrice

	breakdown += fmt.Sprintf(" × $%.2f = $%.2f", in.UnitPrice, total)

	return Result{
		BaseQuantity:      roundTo(baseQuantity, 4),
		QuantityWithWaste: roundTo(quantityWithWaste, 4),
		WastePercentage:   in.WastePercentage,
		UnitPrice:         in.UnitPrice,
		Unit:              unit,
		Subtotal:          roundTo(subtotal, 2),
		Total:             roundTo(total, 2),
		Breakdown:         breakdown,
	}
}

// fnum formats a float the short way: no trailing zeros, no exponent.
func fnum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func roundTo(n float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(n*factor) / factor
}
