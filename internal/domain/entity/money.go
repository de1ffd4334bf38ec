package entity

import "github.com/shopspring/decimal"

// MoneyScale decimales con que se almacenan precios, costos y totales (NUMERIC(p, 2)).
const MoneyScale = 2

var (
	// precio/costo unitario: NUMERIC(14, 2) admite hasta 12 dígitos enteros
	maxUnitAmount = decimal.New(1, 12)
	// total de un movimiento: NUMERIC(16, 2)
	maxTotalAmount = decimal.New(1, 14)
)

// ValidUnitAmount informa si d es un precio o costo unitario almacenable sin redondeo:
// no negativo, a lo sumo MoneyScale decimales y dentro del rango de la columna.
func ValidUnitAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(MoneyScale)) && d.LessThan(maxUnitAmount)
}

// ValidTotalAmount informa si d cabe en la columna de total de un movimiento.
func ValidTotalAmount(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxTotalAmount)
}
