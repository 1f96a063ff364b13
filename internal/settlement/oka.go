package settlement

import (
	"github.com/shopspring/decimal"
)

var okaUnit = decimal.New(1, -1)

// DistributeOka splits the oka pool among rank-1 seats. Every winner gets
// the pool share floored to 0.1; the leftover is handed out 0.1 at a time
// in seat order.
func DistributeOka(positions []int, pool float64) []float64 {
	oka := make([]float64, len(positions))
	if pool == 0 {
		return oka
	}

	winners := make([]int, 0, len(positions))
	for i, p := range positions {
		if p == 1 {
			winners = append(winners, i)
		}
	}
	if len(winners) == 0 {
		return oka
	}

	total := decimal.NewFromFloat(pool)
	count := decimal.NewFromInt(int64(len(winners)))
	base := total.Div(count).RoundFloor(1)

	shares := make([]decimal.Decimal, len(winners))
	for i := range shares {
		shares[i] = base
	}

	units := total.Sub(base.Mul(count)).Div(okaUnit).Floor().IntPart()
	for i := int64(0); i < units; i++ {
		w := int(i % int64(len(winners)))
		shares[w] = shares[w].Add(okaUnit)
	}

	for i, seat := range winners {
		oka[seat] = shares[i].InexactFloat64()
	}
	return oka
}
