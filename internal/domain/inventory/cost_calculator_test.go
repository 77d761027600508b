package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Manufactura-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 unidades a $2 + 10 unidades a $4 → promedio $3
	got := inventory.CostCalculator(d("10"), d("2"), d("10"), d("4"))
	assert.True(t, d("3").Equal(got), "esperado 3, obtenido %s", got)
}

func TestCostCalculator_StockInicialCero(t *testing.T) {
	// Primera compra: el costo del artículo es el costo de entrada
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, d("25"), d("1.5"))
	assert.True(t, d("1.5").Equal(got))
}

func TestCostCalculator_EntradasDesiguales(t *testing.T) {
	// 30 a $1 + 10 a $5 → (30 + 50) / 40 = 2
	got := inventory.CostCalculator(d("30"), d("1"), d("10"), d("5"))
	assert.True(t, d("2").Equal(got))
}

func TestCostCalculator_SumaNoPositivaDevuelveCero(t *testing.T) {
	// Stock negativo por ajustes que la entrada no alcanza a cubrir
	got := inventory.CostCalculator(d("-10"), d("2"), d("5"), d("3"))
	assert.True(t, got.IsZero(), "con suma no positiva el costo se resetea a cero")
}
