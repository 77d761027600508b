package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// PackagedProductRepository define el puerto de persistencia para presentaciones empacadas.
type PackagedProductRepository interface {
	Create(pp *entity.PackagedProduct) error
	GetByID(id string) (*entity.PackagedProduct, error)
	ListByProduct(productItemID string) ([]*entity.PackagedProduct, error)
	List(limit, offset int) ([]*entity.PackagedProduct, error)
}
