package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillOfMaterial es la receta versionada de un producto: cantidades de cada
// componente por UNA unidad producida. A lo sumo una versión activa por
// producto; activar una nueva desactiva la anterior en la misma transacción.
type BillOfMaterial struct {
	ID            string
	ProductItemID string // artículo producible (producto terminado o intermedio)
	Name          string
	Description   string
	Version       string
	IsActive      bool
	Items         []BOMItem
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BOMItem es una línea de la receta: componente y cantidad por unidad de salida.
// El componente puede ser a su vez un producible con su propia receta activa;
// la explosión de materiales recurre hasta las materias primas.
type BOMItem struct {
	ID            string
	BOMID         string
	ItemID        string
	Quantity      decimal.Decimal // por unidad producida
	UnitOfMeasure string
	Notes         string
}
