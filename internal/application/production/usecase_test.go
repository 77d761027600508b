package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActorID = "00000000-0000-0000-0000-000000000001"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture arma el caso de uso de producción con el escenario típico:
// producto "prod" con receta activa 0.5 raw-a + 0.2 raw-b por unidad, y dos
// presentaciones empacadas (pack-1 → fg-1, pack-2 → fg-2).
type fixture struct {
	uc    *production.UseCase
	store *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	ledgerUC := ledger.New(
		txRunner,
		memory.NewInventoryItemRepository(store),
		memory.NewItemStockRepository(store),
		memory.NewStockMovementRepository(store),
	)
	uc := production.New(
		txRunner,
		ledgerUC,
		memory.NewProductionBatchRepository(store),
		memory.NewBOMRepository(store),
		memory.NewInventoryItemRepository(store),
		memory.NewPackagedProductRepository(store),
	)
	f := &fixture{uc: uc, store: store}

	f.seedItem("prod", "PT-001", false)
	f.seedItem("raw-a", "MP-001", true)
	f.seedItem("raw-b", "MP-002", true)
	f.seedItem("fg-1", "PTE-001", false)
	f.seedItem("fg-2", "PTE-002", false)

	store.BOMs["bom-1"] = entity.BillOfMaterial{
		ID:            "bom-1",
		ProductItemID: "prod",
		Name:          "receta prod",
		Version:       "1.0",
		IsActive:      true,
		Items: []entity.BOMItem{
			{ID: "bi-1", BOMID: "bom-1", ItemID: "raw-a", Quantity: d("0.5"), UnitOfMeasure: entity.UnitKilogram},
			{ID: "bi-2", BOMID: "bom-1", ItemID: "raw-b", Quantity: d("0.2"), UnitOfMeasure: entity.UnitKilogram},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	store.Packaged["pack-1"] = entity.PackagedProduct{
		ID: "pack-1", ProductItemID: "prod", StockItemID: "fg-1",
		PackagingSize: entity.Packaging500G, WeightValue: d("500"), WeightUnit: entity.UnitGram,
		ItemsPerPackage: 1, IsActive: true,
	}
	store.Packaged["pack-2"] = entity.PackagedProduct{
		ID: "pack-2", ProductItemID: "prod", StockItemID: "fg-2",
		PackagingSize: entity.Packaging1KG, WeightValue: d("1"), WeightUnit: entity.UnitKilogram,
		ItemsPerPackage: 1, IsActive: true,
	}
	return f
}

func (f *fixture) seedItem(id, code string, rawMaterial bool) {
	f.store.Items[id] = entity.InventoryItem{
		ID:            id,
		Code:          code,
		Name:          "artículo " + code,
		UnitOfMeasure: entity.UnitKilogram,
		IsRawMaterial: rawMaterial,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func (f *fixture) seedStock(itemID, qty string) {
	f.store.Stocks[itemID] = entity.ItemStock{ItemID: itemID, Quantity: d(qty), UpdatedAt: time.Now()}
}

func (f *fixture) stock(itemID string) decimal.Decimal {
	return f.store.Stocks[itemID].Quantity
}

// createBatch planea un lote de la cantidad dada.
func (f *fixture) createBatch(t *testing.T, qty string) *entity.ProductionBatch {
	t.Helper()
	batch, err := f.uc.CreateBatch(context.Background(), production.CreateBatchInput{
		ProductItemID:   "prod",
		PlannedQuantity: d(qty),
		ActorID:         testActorID,
	})
	require.NoError(t, err)
	return batch
}

// movementsByKind filtra el libro por tipo de movimiento.
func (f *fixture) movementsByKind(kind string) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range f.store.Movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBatch_QuedaEnPlanned(t *testing.T) {
	f := newFixture(t)

	batch := f.createBatch(t, "100")

	assert.Equal(t, entity.BatchPlanned, batch.Status)
	assert.Equal(t, "BATCH000001", batch.BatchNumber)
	assert.Equal(t, "bom-1", batch.BOMID)
	assert.True(t, batch.ProducedQuantity.IsZero())
	assert.Empty(t, f.store.Movements, "planear no toca el stock")
}

func TestCreateBatch_NumeracionSecuencial(t *testing.T) {
	f := newFixture(t)

	f.createBatch(t, "10")
	second := f.createBatch(t, "20")

	assert.Equal(t, "BATCH000002", second.BatchNumber)
}

func TestCreateBatch_SinRecetaActiva(t *testing.T) {
	f := newFixture(t)
	bom := f.store.BOMs["bom-1"]
	bom.IsActive = false
	f.store.BOMs["bom-1"] = bom

	_, err := f.uc.CreateBatch(context.Background(), production.CreateBatchInput{
		ProductItemID:   "prod",
		PlannedQuantity: d("10"),
		ActorID:         testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBatch_CantidadNoPositiva(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateBatch(context.Background(), production.CreateBatchInput{
		ProductItemID:   "prod",
		PlannedQuantity: d("-5"),
		ActorID:         testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateBatch_PlanDeOtroProductoRechazado(t *testing.T) {
	f := newFixture(t)
	f.seedItem("otro", "PT-099", false)
	f.store.Packaged["pack-ajeno"] = entity.PackagedProduct{
		ID: "pack-ajeno", ProductItemID: "otro", StockItemID: "fg-1",
		PackagingSize: entity.Packaging500G, IsActive: true,
	}

	_, err := f.uc.CreateBatch(context.Background(), production.CreateBatchInput{
		ProductItemID:   "prod",
		PlannedQuantity: d("10"),
		Plan:            []production.AllocationInput{{PackagedProductID: "pack-ajeno", Quantity: d("10")}},
		ActorID:         testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Start — consumo de materias primas
// ──────────────────────────────────────────────────────────────────────────────

func TestStart_ConsumeInsumosYPasaAInProgress(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")
	batch := f.createBatch(t, "100")

	started, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	assert.Equal(t, entity.BatchInProgress, started.Status)
	require.NotNil(t, started.StartedAt)

	// 100 * 0.5 = 50 de raw-a, 100 * 0.2 = 20 de raw-b
	assert.True(t, d("50").Equal(f.stock("raw-a")))
	assert.True(t, d("80").Equal(f.stock("raw-b")))

	consumos := f.movementsByKind(entity.MovementConsumption)
	require.Len(t, consumos, 2, "un movimiento de consumo por insumo")
	for _, m := range consumos {
		assert.True(t, m.Quantity.IsNegative(), "el consumo se persiste con signo negativo")
		assert.Equal(t, entity.RefProductionBatch, m.ReferenceType)
		assert.Equal(t, batch.ID, m.ReferenceID)
	}
}

func TestStart_CongelaLaVersionDeReceta(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")
	batch := f.createBatch(t, "10")

	// Entre planear e iniciar se publica una nueva versión de la receta
	old := f.store.BOMs["bom-1"]
	old.IsActive = false
	f.store.BOMs["bom-1"] = old
	f.store.BOMs["bom-2"] = entity.BillOfMaterial{
		ID: "bom-2", ProductItemID: "prod", Name: "receta v2", Version: "2.0", IsActive: true,
		Items: []entity.BOMItem{
			{ID: "bi-3", BOMID: "bom-2", ItemID: "raw-a", Quantity: d("1"), UnitOfMeasure: entity.UnitKilogram},
		},
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	started, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	assert.Equal(t, "bom-2", started.BOMID, "al iniciar se congela la versión vigente en ese momento")
	assert.True(t, d("90").Equal(f.stock("raw-a")), "consume según la receta congelada: 10 * 1")
	assert.True(t, d("100").Equal(f.stock("raw-b")), "la v2 ya no usa raw-b")
}

func TestStart_StockInsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "10") // se requieren 50
	f.seedStock("raw-b", "100")
	batch := f.createBatch(t, "100")

	_, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "MP-001", stockErr.Shortages[0].Code)
	assert.True(t, d("50").Equal(stockErr.Shortages[0].Required))
	assert.True(t, d("10").Equal(stockErr.Shortages[0].Available))
	assert.True(t, d("40").Equal(stockErr.Shortages[0].Shortfall))

	// Todo-o-nada: ningún insumo se consumió y el lote sigue planeado
	assert.Empty(t, f.store.Movements)
	assert.True(t, d("10").Equal(f.stock("raw-a")))
	assert.True(t, d("100").Equal(f.stock("raw-b")))
	assert.Equal(t, entity.BatchPlanned, f.store.Batches[batch.ID].Status)
}

func TestStart_ReportaTodosLosFaltantesJuntos(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "1")
	f.seedStock("raw-b", "1")
	batch := f.createBatch(t, "100")

	_, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Len(t, stockErr.Shortages, 2, "se verifican todos los insumos antes de fallar")
}

func TestStart_DobleInicioRechazado(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")
	batch := f.createBatch(t, "10")

	_, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	_, err = f.uc.Start(context.Background(), batch.ID, testActorID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	consumos := f.movementsByKind(entity.MovementConsumption)
	assert.Len(t, consumos, 2, "el segundo intento no debe consumir de nuevo")
}

func TestStart_LoteInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Start(context.Background(), "no-existe", testActorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete — salida de producto empacado
// ──────────────────────────────────────────────────────────────────────────────

func TestComplete_EmiteSalidasPorPresentacion(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")
	batch := f.createBatch(t, "100")
	_, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	// Se producen 95 (varianza de -5 frente a lo planeado), repartidas 60/35
	completed, err := f.uc.Complete(context.Background(), batch.ID, d("95"), []production.AllocationInput{
		{PackagedProductID: "pack-1", Quantity: d("60")},
		{PackagedProductID: "pack-2", Quantity: d("35")},
	}, testActorID)
	require.NoError(t, err)

	assert.Equal(t, entity.BatchCompleted, completed.Status)
	assert.True(t, d("95").Equal(completed.ProducedQuantity))
	assert.True(t, d("100").Equal(completed.PlannedQuantity), "la varianza queda observable")
	require.NotNil(t, completed.CompletedAt)

	salidas := f.movementsByKind(entity.MovementOutput)
	require.Len(t, salidas, 2, "un movimiento de salida por artículo de stock")
	assert.True(t, d("60").Equal(f.stock("fg-1")))
	assert.True(t, d("35").Equal(f.stock("fg-2")))

	require.Len(t, completed.Allocations, 2)
}

func TestComplete_AgregaPresentacionesQueCompartenArticulo(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")
	// pack-3 comparte artículo de stock con pack-1
	f.store.Packaged["pack-3"] = entity.PackagedProduct{
		ID: "pack-3", ProductItemID: "prod", StockItemID: "fg-1",
		PackagingSize: entity.Packaging100G, IsActive: true,
	}
	batch := f.createBatch(t, "100")
	_, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), batch.ID, d("100"), []production.AllocationInput{
		{PackagedProductID: "pack-1", Quantity: d("70")},
		{PackagedProductID: "pack-3", Quantity: d("30")},
	}, testActorID)
	require.NoError(t, err)

	salidas := f.movementsByKind(entity.MovementOutput)
	require.Len(t, salidas, 1, "presentaciones del mismo artículo se agregan en un solo movimiento")
	assert.True(t, d("100").Equal(f.stock("fg-1")))
}

func TestComplete_SumaEmpacadaDebeIgualarLoProducido(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")
	batch := f.createBatch(t, "100")
	_, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), batch.ID, d("95"), []production.AllocationInput{
		{PackagedProductID: "pack-1", Quantity: d("60")},
		{PackagedProductID: "pack-2", Quantity: d("30")}, // 90 ≠ 95
	}, testActorID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.movementsByKind(entity.MovementOutput))
	assert.Equal(t, entity.BatchInProgress, f.store.Batches[batch.ID].Status)
	assert.True(t, f.stock("fg-1").IsZero())
}

func TestComplete_DesdePlannedRechazado(t *testing.T) {
	f := newFixture(t)
	batch := f.createBatch(t, "10")

	_, err := f.uc.Complete(context.Background(), batch.ID, d("10"), []production.AllocationInput{
		{PackagedProductID: "pack-1", Quantity: d("10")},
	}, testActorID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestComplete_ReemplazaElPlanDeEmpaque(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")

	// Lote planeado con un plan de empaque inicial
	batch, err := f.uc.CreateBatch(context.Background(), production.CreateBatchInput{
		ProductItemID:   "prod",
		PlannedQuantity: d("100"),
		Plan: []production.AllocationInput{
			{PackagedProductID: "pack-1", Quantity: d("100")},
		},
		ActorID: testActorID,
	})
	require.NoError(t, err)
	_, err = f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	completed, err := f.uc.Complete(context.Background(), batch.ID, d("100"), []production.AllocationInput{
		{PackagedProductID: "pack-1", Quantity: d("40")},
		{PackagedProductID: "pack-2", Quantity: d("60")},
	}, testActorID)
	require.NoError(t, err)

	require.Len(t, completed.Allocations, 2, "lo real reemplaza al plan")
	saved := f.store.Batches[batch.ID]
	assert.Len(t, saved.Allocations, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_SoloDesdePlanned(t *testing.T) {
	f := newFixture(t)
	batch := f.createBatch(t, "10")

	cancelled, err := f.uc.Cancel(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
}

func TestCancel_EnProgresoRechazado(t *testing.T) {
	f := newFixture(t)
	f.seedStock("raw-a", "100")
	f.seedStock("raw-b", "100")
	batch := f.createBatch(t, "10")
	_, err := f.uc.Start(context.Background(), batch.ID, testActorID)
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), batch.ID, testActorID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, entity.BatchInProgress, f.store.Batches[batch.ID].Status)
	assert.True(t, d("95").Equal(f.stock("raw-a")), "cancelar rechazado no revierte el consumo")
}
