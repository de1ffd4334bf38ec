// Package inventory reglas de valoración del inventario.
package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado después de una entrada:
//
//	((stock * costo) + (cantEntrada * costoEntrada)) / (stock + cantEntrada)
//
// Un stock negativo no aporta valor: se toma como cero.
func WeightedAverageCost(stock int64, cost decimal.Decimal, qtyIn int64, costIn decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	total := stock + qtyIn
	if total <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(stock).Mul(cost).Add(decimal.NewFromInt(qtyIn).Mul(costIn))
	return num.DivRound(decimal.NewFromInt(total), 4)
}
