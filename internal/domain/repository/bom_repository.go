package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// BOMRepository define el puerto de persistencia para recetas (BOM).
// La activación de versiones es propiedad exclusiva del motor de BOM:
// DeactivateActiveForProduct + Create ocurren en una sola transacción.
type BOMRepository interface {
	Create(bom *entity.BillOfMaterial) error
	GetByID(id string) (*entity.BillOfMaterial, error)
	// GetActiveByProduct devuelve la receta activa del producto o nil si no hay.
	GetActiveByProduct(productItemID string) (*entity.BillOfMaterial, error)
	DeactivateActiveForProduct(productItemID string) error
	ListByProduct(productItemID string, limit, offset int) ([]*entity.BillOfMaterial, error)
	// ListActive devuelve todas las recetas activas con sus líneas (para el
	// chequeo de ciclos sobre el grafo producto→componente).
	ListActive() ([]*entity.BillOfMaterial, error)
}
