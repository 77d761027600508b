// Package memory implementa los puertos de repositorio sobre mapas en
// memoria. Se usa en tests de casos de uso; no es apto para producción
// (sin locking, la "transacción" es snapshot + restore del Store completo).
package memory

import (
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// Store contiene todas las colecciones. Los valores se guardan por copia; los
// repos devuelven punteros a copias para que el caller no mute el estado
// interno sin pasar por Create/Update.
type Store struct {
	Items        map[string]entity.InventoryItem
	Stocks       map[string]entity.ItemStock
	Movements    []entity.StockMovement
	BOMs         map[string]entity.BillOfMaterial
	Batches      map[string]entity.ProductionBatch
	Packaged     map[string]entity.PackagedProduct
	ReceiptLines map[string]entity.PurchaseReceiptLine
	Users        map[string]entity.User
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		Items:        make(map[string]entity.InventoryItem),
		Stocks:       make(map[string]entity.ItemStock),
		BOMs:         make(map[string]entity.BillOfMaterial),
		Batches:      make(map[string]entity.ProductionBatch),
		Packaged:     make(map[string]entity.PackagedProduct),
		ReceiptLines: make(map[string]entity.PurchaseReceiptLine),
		Users:        make(map[string]entity.User),
	}
}

// snapshot devuelve una copia profunda del Store para soportar rollback.
func (s *Store) snapshot() *Store {
	cp := &Store{
		Items:        make(map[string]entity.InventoryItem, len(s.Items)),
		Stocks:       make(map[string]entity.ItemStock, len(s.Stocks)),
		Movements:    make([]entity.StockMovement, len(s.Movements)),
		BOMs:         make(map[string]entity.BillOfMaterial, len(s.BOMs)),
		Batches:      make(map[string]entity.ProductionBatch, len(s.Batches)),
		Packaged:     make(map[string]entity.PackagedProduct, len(s.Packaged)),
		ReceiptLines: make(map[string]entity.PurchaseReceiptLine, len(s.ReceiptLines)),
		Users:        make(map[string]entity.User, len(s.Users)),
	}
	for k, v := range s.Items {
		cp.Items[k] = v
	}
	for k, v := range s.Stocks {
		cp.Stocks[k] = v
	}
	copy(cp.Movements, s.Movements)
	for k, v := range s.BOMs {
		v.Items = append([]entity.BOMItem(nil), v.Items...)
		cp.BOMs[k] = v
	}
	for k, v := range s.Batches {
		v.Allocations = append([]entity.BatchAllocation(nil), v.Allocations...)
		cp.Batches[k] = v
	}
	for k, v := range s.Packaged {
		cp.Packaged[k] = v
	}
	for k, v := range s.ReceiptLines {
		cp.ReceiptLines[k] = v
	}
	for k, v := range s.Users {
		cp.Users[k] = v
	}
	return cp
}

// restore reemplaza el contenido del Store por el del snapshot.
func (s *Store) restore(snap *Store) {
	s.Items = snap.Items
	s.Stocks = snap.Stocks
	s.Movements = snap.Movements
	s.BOMs = snap.BOMs
	s.Batches = snap.Batches
	s.Packaged = snap.Packaged
	s.ReceiptLines = snap.ReceiptLines
	s.Users = snap.Users
}

func cloneBOM(b entity.BillOfMaterial) *entity.BillOfMaterial {
	b.Items = append([]entity.BOMItem(nil), b.Items...)
	return &b
}

func cloneBatch(b entity.ProductionBatch) *entity.ProductionBatch {
	b.Allocations = append([]entity.BatchAllocation(nil), b.Allocations...)
	return &b
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
