package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wimpyapp/ordering/internal/models"
)

func twentyThousand() []models.CartLine {
	return []models.CartLine{
		{ProductID: "1", UnitPrice: 15000, Quantity: 1},
		{ProductID: "5", UnitPrice: 5000, Quantity: 1},
	}
}

func TestCalculate_ClampsToAvailable(t *testing.T) {
	t.Parallel()

	q := Calculate(twentyThousand(), 80, 50, 10)
	assert.Equal(t, int64(20000), q.Subtotal)
	assert.Equal(t, int64(50), q.PointsApplied)
	assert.Equal(t, int64(500), q.Discount)
	assert.Equal(t, int64(19500), q.Total)
	assert.True(t, q.Clamped)
	assert.Equal(t, "No tienes suficientes puntos. Disponibles: 50", q.Warning())
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		requested    int64
		available    int64
		rate         float64
		wantApplied  int64
		wantDiscount int64
		wantTotal    int64
		wantClamped  bool
	}{
		{name: "no points", requested: 0, available: 100, rate: 10, wantTotal: 20000},
		{name: "within available", requested: 30, available: 100, rate: 10, wantApplied: 30, wantDiscount: 300, wantTotal: 19700},
		{name: "exactly available", requested: 100, available: 100, rate: 1, wantApplied: 100, wantDiscount: 100, wantTotal: 19900},
		{name: "negative request", requested: -5, available: 100, rate: 10, wantTotal: 20000},
		{name: "zero rate uses default", requested: 40, available: 100, rate: 0, wantApplied: 40, wantDiscount: 40, wantTotal: 19960},
		{name: "negative rate uses default", requested: 40, available: 100, rate: -2, wantApplied: 40, wantDiscount: 40, wantTotal: 19960},
		{name: "fractional rate rounds", requested: 3, available: 10, rate: 2.5, wantApplied: 3, wantDiscount: 8, wantTotal: 19992},
		{name: "discount beyond subtotal floors", requested: 5000, available: 5000, rate: 10, wantApplied: 5000, wantDiscount: 50000, wantTotal: 0},
		{name: "nothing available", requested: 10, available: 0, rate: 10, wantClamped: true, wantTotal: 20000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := Calculate(twentyThousand(), tt.requested, tt.available, tt.rate)
			assert.Equal(t, tt.wantApplied, q.PointsApplied)
			assert.Equal(t, tt.wantDiscount, q.Discount)
			assert.Equal(t, tt.wantTotal, q.Total)
			assert.Equal(t, tt.wantClamped, q.Clamped)
			assert.LessOrEqual(t, q.PointsApplied, tt.available)
		})
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	t.Parallel()

	a := Calculate(twentyThousand(), 12, 40, 7)
	b := Calculate(twentyThousand(), 12, 40, 7)
	assert.Equal(t, a, b)
	assert.Empty(t, a.Warning())
}

func TestCalculate_EmptyCart(t *testing.T) {
	t.Parallel()

	q := Calculate(nil, 0, 0, 1)
	assert.Equal(t, int64(0), q.Subtotal)
	assert.Equal(t, int64(0), q.Total)
}
