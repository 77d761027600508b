package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActorID = "00000000-0000-0000-0000-000000000001"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

// newFixture arma el caso de uso sobre el Store en memoria.
func newFixture() (*ledger.UseCase, *memory.Store) {
	store := memory.NewStore()
	uc := ledger.New(
		memory.NewTxRunner(store),
		memory.NewInventoryItemRepository(store),
		memory.NewItemStockRepository(store),
		memory.NewStockMovementRepository(store),
	)
	return uc, store
}

// seedItem registra un artículo activo y su stock inicial.
func seedItem(t *testing.T, store *memory.Store, id, code string, stock decimal.Decimal) {
	t.Helper()
	store.Items[id] = entity.InventoryItem{
		ID:            id,
		Code:          code,
		Name:          "artículo " + code,
		UnitOfMeasure: entity.UnitKilogram,
		IsRawMaterial: true,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if !stock.IsZero() {
		store.Stocks[id] = entity.ItemStock{ItemID: id, Quantity: stock, UpdatedAt: time.Now()}
	}
}

func currentStock(store *memory.Store, itemID string) decimal.Decimal {
	return store.Stocks[itemID].Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_CompraSumaStock(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", decimal.Zero)

	movID, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:    "item-1",
		Kind:      entity.MovementPurchase,
		Quantity:  d("10"),
		UnitPrice: dp("2.5"),
		ActorID:   testActorID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, movID)

	assert.True(t, d("10").Equal(currentStock(store, "item-1")))
	require.Len(t, store.Movements, 1)
	mov := store.Movements[0]
	assert.Equal(t, entity.MovementPurchase, mov.Kind)
	assert.True(t, d("10").Equal(mov.Quantity), "las entradas se persisten positivas")
	assert.Equal(t, testActorID, mov.PerformedBy)
}

func TestRecordMovement_VentaRestaStock(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "PT-001", d("20"))

	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementSales,
		Quantity: d("8"),
		ActorID:  testActorID,
	})
	require.NoError(t, err)

	assert.True(t, d("12").Equal(currentStock(store, "item-1")))
	require.Len(t, store.Movements, 1)
	assert.True(t, d("-8").Equal(store.Movements[0].Quantity), "las salidas se persisten negativas")
}

func TestRecordMovement_StockInsuficienteNoEscribeNada(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "PT-001", d("5"))

	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementSales,
		Quantity: d("8"),
		ActorID:  testActorID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "PT-001", stockErr.Shortages[0].Code)
	assert.True(t, d("3").Equal(stockErr.Shortages[0].Shortfall))

	// La transacción se revierte completa: ni movimiento ni cambio de stock
	assert.Empty(t, store.Movements)
	assert.True(t, d("5").Equal(currentStock(store, "item-1")))
}

func TestRecordMovement_AjustePuedeDejarStockNegativo(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", d("5"))

	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementAdjustment,
		Quantity: d("-8"),
		Notes:    "merma detectada en conteo físico",
		ActorID:  testActorID,
	})
	require.NoError(t, err)

	assert.True(t, d("-3").Equal(currentStock(store, "item-1")),
		"el ajuste explícito es el único tipo que admite stock negativo")
}

func TestRecordMovement_CompraRecalculaCostoPromedio(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", d("10"))
	item := store.Items["item-1"]
	item.CostPrice = d("2")
	store.Items["item-1"] = item

	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:    "item-1",
		Kind:      entity.MovementPurchase,
		Quantity:  d("10"),
		UnitPrice: dp("4"),
		ActorID:   testActorID,
	})
	require.NoError(t, err)

	// (10*2 + 10*4) / 20 = 3
	assert.True(t, d("3").Equal(store.Items["item-1"].CostPrice))
}

func TestRecordMovement_CompraSinPrecioNoTocaCosto(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", decimal.Zero)

	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementPurchase,
		Quantity: d("10"),
		ActorID:  testActorID,
	})
	require.NoError(t, err)
	assert.True(t, store.Items["item-1"].CostPrice.IsZero())
}

func TestRecordMovement_ValidacionRechazaEntradas(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", d("100"))

	cases := []struct {
		name  string
		input ledger.MovementInput
	}{
		{"sin item", ledger.MovementInput{Kind: entity.MovementPurchase, Quantity: d("1"), ActorID: testActorID}},
		{"sin actor", ledger.MovementInput{ItemID: "item-1", Kind: entity.MovementPurchase, Quantity: d("1")}},
		{"tipo inválido", ledger.MovementInput{ItemID: "item-1", Kind: "transfer", Quantity: d("1"), ActorID: testActorID}},
		{"cantidad cero", ledger.MovementInput{ItemID: "item-1", Kind: entity.MovementPurchase, Quantity: decimal.Zero, ActorID: testActorID}},
		{"compra negativa", ledger.MovementInput{ItemID: "item-1", Kind: entity.MovementPurchase, Quantity: d("-5"), ActorID: testActorID}},
		{"venta negativa", ledger.MovementInput{ItemID: "item-1", Kind: entity.MovementSales, Quantity: d("-5"), ActorID: testActorID}},
		{"precio negativo", ledger.MovementInput{ItemID: "item-1", Kind: entity.MovementPurchase, Quantity: d("5"), UnitPrice: dp("-1"), ActorID: testActorID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordMovement(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.Movements, "ninguna entrada rechazada debe escribir en el libro")
}

func TestRecordMovement_ArticuloInexistente(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:   "no-existe",
		Kind:     entity.MovementPurchase,
		Quantity: d("1"),
		ActorID:  testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_ArticuloInactivo(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", decimal.Zero)
	item := store.Items["item-1"]
	item.IsActive = false
	store.Items["item-1"] = item

	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementPurchase,
		Quantity: d("1"),
		ActorID:  testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y reconstrucción
// ──────────────────────────────────────────────────────────────────────────────

func TestGetCurrentStock_SinMovimientosEsCero(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", decimal.Zero)

	qty, err := uc.GetCurrentStock(context.Background(), "item-1")
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestGetStockStatus_CompararUmbrales(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", d("7"))
	item := store.Items["item-1"]
	item.MinStockLevel = d("5")
	item.ReorderLevel = d("10")
	store.Items["item-1"] = item

	status, err := uc.GetStockStatus(context.Background(), "item-1")
	require.NoError(t, err)
	assert.True(t, status.BelowReorder, "7 < 10 debe marcar bajo reorden")
	assert.False(t, status.BelowMin, "7 >= 5 no está bajo mínimo")
	assert.True(t, d("7").Equal(status.Current))
}

func TestListMovements_FiltraPorArticulo(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", decimal.Zero)
	seedItem(t, store, "item-2", "MP-002", decimal.Zero)

	for i := 0; i < 3; i++ {
		_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
			ItemID:   "item-1",
			Kind:     entity.MovementPurchase,
			Quantity: d("1"),
			ActorID:  testActorID,
		})
		require.NoError(t, err)
	}
	_, err := uc.RecordMovement(context.Background(), ledger.MovementInput{
		ItemID:   "item-2",
		Kind:     entity.MovementPurchase,
		Quantity: d("1"),
		ActorID:  testActorID,
	})
	require.NoError(t, err)

	movs, err := uc.ListMovements(context.Background(), "item-1", nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 3)
	for _, m := range movs {
		assert.Equal(t, "item-1", m.ItemID)
	}
}

func TestRebuildStock_RecalculaDesdeElLibro(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "item-1", "MP-001", decimal.Zero)

	// Libro con entradas y salidas; el agregado se deja adrede desfasado
	store.Movements = append(store.Movements,
		entity.StockMovement{ID: "m1", ItemID: "item-1", Kind: entity.MovementPurchase, Quantity: d("30"), PerformedBy: testActorID, PerformedAt: time.Now()},
		entity.StockMovement{ID: "m2", ItemID: "item-1", Kind: entity.MovementSales, Quantity: d("-12"), PerformedBy: testActorID, PerformedAt: time.Now()},
		entity.StockMovement{ID: "m3", ItemID: "item-1", Kind: entity.MovementAdjustment, Quantity: d("-3"), PerformedBy: testActorID, PerformedAt: time.Now()},
	)
	store.Stocks["item-1"] = entity.ItemStock{ItemID: "item-1", Quantity: d("999")}

	rebuilt, err := uc.RebuildStock(context.Background(), "item-1")
	require.NoError(t, err)
	assert.True(t, d("15").Equal(rebuilt))
	assert.True(t, d("15").Equal(currentStock(store, "item-1")),
		"el agregado debe quedar alineado con la suma con signo del libro")
}
