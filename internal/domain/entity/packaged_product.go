package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentaciones de empaque estándar.
const (
	Packaging50G    = "50g"
	Packaging100G   = "100g"
	Packaging500G   = "500g"
	Packaging1KG    = "1kg"
	PackagingCustom = "custom"
)

// PackagedProduct es una presentación empacada de un producto terminado.
// StockItemID apunta al artículo del catálogo cuyo libro de movimientos
// registra el stock de esta presentación (las salidas de producción escriben
// movimientos production_output contra ese artículo).
type PackagedProduct struct {
	ID              string
	ProductItemID   string // producto a granel al que pertenece
	StockItemID     string // artículo (producto terminado) que lleva el stock en el ledger
	PackagingSize   string
	CustomSize      string // descripción cuando PackagingSize = custom
	WeightValue     decimal.Decimal
	WeightUnit      string
	ItemsPerPackage int
	Barcode         string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
