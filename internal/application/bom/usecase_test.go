package bom_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActorID = "00000000-0000-0000-0000-000000000001"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture() (*bom.UseCase, *memory.Store) {
	store := memory.NewStore()
	uc := bom.New(
		memory.NewTxRunner(store),
		memory.NewBOMRepository(store),
		memory.NewInventoryItemRepository(store),
	)
	return uc, store
}

func seedItem(t *testing.T, store *memory.Store, id, code string, rawMaterial bool) {
	t.Helper()
	store.Items[id] = entity.InventoryItem{
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

// createBOM crea y activa una receta vía caso de uso, fallando el test si hay error.
func createBOM(t *testing.T, uc *bom.UseCase, productID string, components ...bom.ComponentInput) string {
	t.Helper()
	id, err := uc.CreateBOM(context.Background(), bom.CreateBOMInput{
		ProductItemID: productID,
		Name:          "receta " + productID,
		Components:    components,
		ActorID:       testActorID,
	})
	require.NoError(t, err)
	return id
}

func comp(itemID, qty string) bom.ComponentInput {
	return bom.ComponentInput{ItemID: itemID, Quantity: d(qty), UnitOfMeasure: entity.UnitKilogram}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBOM — versionado y activación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBOM_ActivaLaReceta(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)
	seedItem(t, store, "raw-a", "MP-001", true)

	id := createBOM(t, uc, "prod", comp("raw-a", "0.5"))

	saved := store.BOMs[id]
	assert.True(t, saved.IsActive)
	assert.Equal(t, "prod", saved.ProductItemID)
	assert.Equal(t, "1.0", saved.Version, "sin versión explícita se asume 1.0")
	require.Len(t, saved.Items, 1)
	assert.True(t, d("0.5").Equal(saved.Items[0].Quantity))
}

func TestCreateBOM_NuevaVersionDesactivaLaAnterior(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)
	seedItem(t, store, "raw-a", "MP-001", true)
	seedItem(t, store, "raw-b", "MP-002", true)

	v1 := createBOM(t, uc, "prod", comp("raw-a", "0.5"))
	v2 := createBOM(t, uc, "prod", comp("raw-a", "0.4"), comp("raw-b", "0.1"))

	assert.False(t, store.BOMs[v1].IsActive, "la versión anterior queda desactivada")
	assert.True(t, store.BOMs[v2].IsActive)

	active, err := memory.NewBOMRepository(store).GetActiveByProduct("prod")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, v2, active.ID, "a lo sumo una receta activa por producto")
}

func TestCreateBOM_RechazaEntradasInvalidas(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)
	seedItem(t, store, "raw-a", "MP-001", true)

	cases := []struct {
		name  string
		input bom.CreateBOMInput
	}{
		{"sin componentes", bom.CreateBOMInput{ProductItemID: "prod", ActorID: testActorID}},
		{"cantidad cero", bom.CreateBOMInput{ProductItemID: "prod", ActorID: testActorID,
			Components: []bom.ComponentInput{{ItemID: "raw-a", Quantity: decimal.Zero}}}},
		{"producto como su propio componente", bom.CreateBOMInput{ProductItemID: "prod", ActorID: testActorID,
			Components: []bom.ComponentInput{comp("prod", "1")}}},
		{"componente duplicado", bom.CreateBOMInput{ProductItemID: "prod", ActorID: testActorID,
			Components: []bom.ComponentInput{comp("raw-a", "1"), comp("raw-a", "2")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateBOM(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.BOMs)
}

func TestCreateBOM_ComponenteInexistente(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)

	_, err := uc.CreateBOM(context.Background(), bom.CreateBOMInput{
		ProductItemID: "prod",
		Components:    []bom.ComponentInput{comp("fantasma", "1")},
		ActorID:       testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Detección de ciclos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBOM_DetectaCicloDirecto(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod-a", "PT-A", false)
	seedItem(t, store, "prod-b", "PT-B", false)

	// B requiere A (válido por ahora)
	createBOM(t, uc, "prod-b", comp("prod-a", "1"))

	// A requiere B cerraría A → B → A
	_, err := uc.CreateBOM(context.Background(), bom.CreateBOMInput{
		ProductItemID: "prod-a",
		Components:    []bom.ComponentInput{comp("prod-b", "1")},
		ActorID:       testActorID,
	})
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	var cycleErr *domain.CycleDetectedError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"prod-a", "prod-b", "prod-a"}, cycleErr.Path)
}

func TestCreateBOM_DetectaCicloIndirecto(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod-a", "PT-A", false)
	seedItem(t, store, "prod-b", "PT-B", false)
	seedItem(t, store, "prod-c", "PT-C", false)

	createBOM(t, uc, "prod-b", comp("prod-c", "1"))
	createBOM(t, uc, "prod-c", comp("prod-a", "1"))

	// A → B → C → A
	_, err := uc.CreateBOM(context.Background(), bom.CreateBOMInput{
		ProductItemID: "prod-a",
		Components:    []bom.ComponentInput{comp("prod-b", "1")},
		ActorID:       testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestCreateBOM_CicloNoDesactivaLaRecetaVigente(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod-a", "PT-A", false)
	seedItem(t, store, "prod-b", "PT-B", false)
	seedItem(t, store, "raw", "MP-001", true)

	vigente := createBOM(t, uc, "prod-a", comp("raw", "2"))
	createBOM(t, uc, "prod-b", comp("prod-a", "1"))

	_, err := uc.CreateBOM(context.Background(), bom.CreateBOMInput{
		ProductItemID: "prod-a",
		Components:    []bom.ComponentInput{comp("prod-b", "1")},
		ActorID:       testActorID,
	})
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	assert.True(t, store.BOMs[vigente].IsActive,
		"un intento fallido de reemplazo debe dejar intacta la receta activa")
}

func TestCreateBOM_ReemplazoNoEsCicloContraSiMisma(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)
	seedItem(t, store, "inter", "PT-INT", false)
	seedItem(t, store, "raw", "MP-001", true)

	// prod usa inter; inter usa raw
	createBOM(t, uc, "inter", comp("raw", "1"))
	createBOM(t, uc, "prod", comp("inter", "2"))

	// Nueva versión de prod con los mismos componentes: la receta activa que
	// se reemplaza no participa del chequeo
	_, err := uc.CreateBOM(context.Background(), bom.CreateBOMInput{
		ProductItemID: "prod",
		Components:    []bom.ComponentInput{comp("inter", "3")},
		ActorID:       testActorID,
	})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Explosión de materiales
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeMaterialRequirements_UnNivel(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)
	seedItem(t, store, "raw-a", "MP-001", true)
	seedItem(t, store, "raw-b", "MP-002", true)

	// 0.5 de A y 0.2 de B por unidad
	createBOM(t, uc, "prod", comp("raw-a", "0.5"), comp("raw-b", "0.2"))

	req, err := uc.ComputeMaterialRequirements(context.Background(), "prod", d("100"))
	require.NoError(t, err)
	require.Len(t, req, 2)
	assert.True(t, d("50").Equal(req["raw-a"]))
	assert.True(t, d("20").Equal(req["raw-b"]))
}

func TestComputeMaterialRequirements_MultiNivelSumaCaminos(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "final", "PT-FIN", false)
	seedItem(t, store, "inter", "PT-INT", false)
	seedItem(t, store, "raw-a", "MP-001", true)
	seedItem(t, store, "raw-b", "MP-002", true)

	// inter = 3 raw-a + 0.5 raw-b; final = 2 inter + 1 raw-b
	createBOM(t, uc, "inter", comp("raw-a", "3"), comp("raw-b", "0.5"))
	createBOM(t, uc, "final", comp("inter", "2"), comp("raw-b", "1"))

	req, err := uc.ComputeMaterialRequirements(context.Background(), "final", d("10"))
	require.NoError(t, err)
	require.Len(t, req, 2, "el intermedio se explota, no aparece como hoja")

	// raw-a: 10 * 2 * 3 = 60; raw-b: 10*1 directo + 10*2*0.5 vía inter = 20
	assert.True(t, d("60").Equal(req["raw-a"]))
	assert.True(t, d("20").Equal(req["raw-b"]))
}

func TestComputeMaterialRequirements_SinRecetaActiva(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)

	_, err := uc.ComputeMaterialRequirements(context.Background(), "prod", d("10"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComputeMaterialRequirements_CantidadNoPositiva(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.ComputeMaterialRequirements(context.Background(), "prod", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ComputeMaterialRequirements(context.Background(), "prod", d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByProduct_DevuelveHistorialDeVersiones(t *testing.T) {
	uc, store := newFixture()
	seedItem(t, store, "prod", "PT-001", false)
	seedItem(t, store, "raw", "MP-001", true)

	createBOM(t, uc, "prod", comp("raw", "1"))
	createBOM(t, uc, "prod", comp("raw", "2"))

	versions, err := uc.ListByProduct(context.Background(), "prod", 50, 0)
	require.NoError(t, err)
	assert.Len(t, versions, 2, "las versiones reemplazadas se conservan")
}
