// Package checkout computes the order total after points redemption.
package checkout

import (
	"fmt"
	"math"

	"github.com/wimpyapp/ordering/internal/cart"
	"github.com/wimpyapp/ordering/internal/models"
)

type Quote struct {
	Subtotal        int64   `json:"subtotal"`
	PointsRequested int64   `json:"pointsRequested"`
	PointsApplied   int64   `json:"pointsApplied"`
	PointsAvailable int64   `json:"pointsAvailable"`
	Rate            float64 `json:"rate"`
	Discount        int64   `json:"discount"`
	Total           int64   `json:"total"`
	Clamped         bool    `json:"clamped"`
}

// Warning is the text shown when the request was clamped, empty otherwise.
func (q Quote) Warning() string {
	if !q.Clamped {
		return ""
	}
	return InsufficientPoints(q.PointsAvailable)
}

func InsufficientPoints(available int64) string {
	return fmt.Sprintf("No tienes suficientes puntos. Disponibles: %d", available)
}

// Calculate never redeems more than available and never returns a negative
// total.
func Calculate(lines []models.CartLine, requested, available int64, rate float64) Quote {
	if requested < 0 {
		requested = 0
	}
	if available < 0 {
		available = 0
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		rate = models.DefaultRedemptionRate
	}

	q := Quote{
		Subtotal:        cart.Subtotal(lines),
		PointsRequested: requested,
		PointsApplied:   requested,
		PointsAvailable: available,
		Rate:            rate,
	}
	if requested > available {
		q.PointsApplied = available
		q.Clamped = true
	}

	q.Discount = int64(math.Round(float64(q.PointsApplied) * rate))
	q.Total = q.Subtotal - q.Discount
	if q.Total < 0 {
		q.Total = 0
	}
	return q
}
