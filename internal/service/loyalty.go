package service

import (
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/model"
)

// DefaultLoyaltyRate earns 1 point per 10 currency units.
var DefaultLoyaltyRate = decimal.New(1, -1)

// AddPointsForOrder returns c with floor(total × rate) points added and the
// number of points earned. Non-positive accruals leave c unchanged.
func AddPointsForOrder(c model.Customer, total, rate decimal.Decimal) (model.Customer, int64) {
	earned := total.Mul(rate).Floor().IntPart()
	if earned <= 0 {
		return c, 0
	}
	c.LoyaltyPoints += earned
	return c, earned
}
