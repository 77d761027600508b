package bom

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UseCase es el motor de recetas: versiones activas por producto y explosión
// recursiva de materiales. Es el único dueño de la activación de versiones.
type UseCase struct {
	txRunner TxRunner
	bomRepo  repository.BOMRepository
	itemRepo repository.InventoryItemRepository
}

// New construye el motor de BOM.
func New(txRunner TxRunner, bomRepo repository.BOMRepository, itemRepo repository.InventoryItemRepository) *UseCase {
	return &UseCase{txRunner: txRunner, bomRepo: bomRepo, itemRepo: itemRepo}
}

// ComponentInput línea de receta a crear.
type ComponentInput struct {
	ItemID        string
	Quantity      decimal.Decimal // por unidad producida
	UnitOfMeasure string
	Notes         string
}

// CreateBOMInput entrada para crear una receta.
type CreateBOMInput struct {
	ProductItemID string
	Name          string
	Description   string
	Version       string
	Components    []ComponentInput
	ActorID       string
}

// CreateBOM valida componentes y aciclicidad del grafo producto→componente y,
// en una sola transacción, desactiva la receta activa anterior del producto y
// activa la nueva. Si el chequeo de ciclos falla, la receta anterior queda
// intacta (la desactivación ocurre después de validar).
func (uc *UseCase) CreateBOM(ctx context.Context, input CreateBOMInput) (string, error) {
	if input.ProductItemID == "" || input.ActorID == "" || len(input.Components) == 0 {
		return "", domain.ErrInvalidInput
	}

	product, err := uc.itemRepo.GetByID(input.ProductItemID)
	if err != nil {
		return "", err
	}
	if product == nil || !product.IsActive {
		return "", domain.ErrNotFound
	}

	seen := make(map[string]bool, len(input.Components))
	for _, c := range input.Components {
		if c.ItemID == "" || !c.Quantity.IsPositive() {
			return "", domain.ErrInvalidInput
		}
		if c.ItemID == input.ProductItemID || seen[c.ItemID] {
			return "", domain.ErrInvalidInput
		}
		seen[c.ItemID] = true

		item, err := uc.itemRepo.GetByID(c.ItemID)
		if err != nil {
			return "", err
		}
		if item == nil || !item.IsActive {
			return "", domain.ErrNotFound
		}
	}

	if err := uc.checkAcyclic(input.ProductItemID, input.Components); err != nil {
		return "", err
	}

	now := time.Now()
	version := input.Version
	if version == "" {
		version = "1.0"
	}
	newBOM := &entity.BillOfMaterial{
		ProductItemID: input.ProductItemID,
		Name:          input.Name,
		Description:   input.Description,
		Version:       version,
		IsActive:      true,
		CreatedBy:     input.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, c := range input.Components {
		newBOM.Items = append(newBOM.Items, entity.BOMItem{
			ItemID:        c.ItemID,
			Quantity:      c.Quantity,
			UnitOfMeasure: c.UnitOfMeasure,
			Notes:         c.Notes,
		})
	}

	err = uc.txRunner.RunBOM(ctx, func(
		bomRepo repository.BOMRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		if err := bomRepo.DeactivateActiveForProduct(input.ProductItemID); err != nil {
			return err
		}
		return bomRepo.Create(newBOM)
	})
	if err != nil {
		return "", err
	}
	return newBOM.ID, nil
}

// checkAcyclic recorre en profundidad el grafo de recetas activas con las
// aristas nuevas del producto ya sustituidas; reentrar a un nodo del camino
// actual es un ciclo. El grafo se indexa por ID de artículo, no por punteros.
func (uc *UseCase) checkAcyclic(productItemID string, components []ComponentInput) error {
	active, err := uc.bomRepo.ListActive()
	if err != nil {
		return err
	}
	edges := make(map[string][]string, len(active)+1)
	for _, b := range active {
		if b.ProductItemID == productItemID {
			continue // la nueva receta reemplaza a la activa actual
		}
		for _, line := range b.Items {
			edges[b.ProductItemID] = append(edges[b.ProductItemID], line.ItemID)
		}
	}
	for _, c := range components {
		edges[productItemID] = append(edges[productItemID], c.ItemID)
	}

	onPath := make(map[string]bool)
	var path []string
	var visit func(node string) error
	visit = func(node string) error {
		if onPath[node] {
			return &domain.CycleDetectedError{Path: append(append([]string{}, path...), node)}
		}
		onPath[node] = true
		path = append(path, node)
		for _, next := range edges[node] {
			if err := visit(next); err != nil {
				return err
			}
		}
		delete(onPath, node)
		path = path[:len(path)-1]
		return nil
	}
	return visit(productItemID)
}

// ComputeMaterialRequirements explota la receta activa del producto para la
// cantidad dada: si un componente es a su vez producible con receta activa se
// recurre con su requerimiento, acumulando las hojas (materias primas); los
// aportes de varios caminos al mismo insumo se SUMAN. Termina porque el grafo
// es acíclico por construcción.
func (uc *UseCase) ComputeMaterialRequirements(ctx context.Context, productItemID string, quantity decimal.Decimal) (map[string]decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	active, err := uc.bomRepo.GetActiveByProduct(productItemID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, domain.ErrNotFound
	}
	acc := make(map[string]decimal.Decimal)
	if err := Explode(uc.bomRepo, active, quantity, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Explode acumula en acc los requerimientos de materia prima de una receta
// para quantity unidades. Exportada para que producción la reutilice con el
// repositorio atado a su propia transacción.
func Explode(bomRepo repository.BOMRepository, b *entity.BillOfMaterial, quantity decimal.Decimal, acc map[string]decimal.Decimal) error {
	for _, line := range b.Items {
		required := quantity.Mul(line.Quantity)
		child, err := bomRepo.GetActiveByProduct(line.ItemID)
		if err != nil {
			return err
		}
		if child != nil {
			// Componente producible: explotar su propia receta en lugar de
			// tratarlo como materia prima
			if err := Explode(bomRepo, child, required, acc); err != nil {
				return err
			}
			continue
		}
		acc[line.ItemID] = acc[line.ItemID].Add(required)
	}
	return nil
}

// GetBOM devuelve una receta por ID.
func (uc *UseCase) GetBOM(ctx context.Context, id string) (*entity.BillOfMaterial, error) {
	b, err := uc.bomRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// ListByProduct devuelve el historial de versiones de receta de un producto.
func (uc *UseCase) ListByProduct(ctx context.Context, productItemID string, limit, offset int) ([]*entity.BillOfMaterial, error) {
	return uc.bomRepo.ListByProduct(productItemID, limit, offset)
}
