package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal_Basic(t *testing.T) {
	// 3 strips of Paracetamol at 20.00 with 10% off.
	assert.InDelta(t, 54.0, LineTotal(3, 20.0, 10.0), 1e-9)
}

func TestLineTotal_NoDiscount(t *testing.T) {
	assert.InDelta(t, 100.0, LineTotal(4, 25.0, 0), 1e-9)
}

func TestLineTotal_FullDiscount(t *testing.T) {
	assert.Equal(t, 0.0, LineTotal(2, 50.0, 100.0))
}

func TestLineTotal_InvalidInputsContributeZero(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		price    float64
		discount float64
		want     float64
	}{
		{"negative quantity", -1, 20.0, 0, 0},
		{"zero quantity", 0, 20.0, 0, 0},
		{"negative price", 3, -5.0, 0, 0},
		{"NaN price", 3, math.NaN(), 0, 0},
		{"infinite price", 3, math.Inf(1), 0, 0},
		{"discount above 100 treated as none", 2, 10.0, 150.0, 20.0},
		{"negative discount treated as none", 2, 10.0, -10.0, 20.0},
		{"NaN discount treated as none", 2, 10.0, math.NaN(), 20.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LineTotal(tt.quantity, tt.price, tt.discount), 1e-9)
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -2.35, Round2(-2.346))
}
