package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ─── InventoryItemRepository ────────────────────────────────────────────────

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

type InventoryItemRepo struct{ s *Store }

func NewInventoryItemRepository(s *Store) *InventoryItemRepo { return &InventoryItemRepo{s: s} }

func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	for _, existing := range r.s.Items {
		if existing.Code == item.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.Items[item.ID] = *item
	return nil
}

func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	item, ok := r.s.Items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (r *InventoryItemRepo) GetByCode(code string) (*entity.InventoryItem, error) {
	for _, item := range r.s.Items {
		if item.Code == code {
			it := item
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *InventoryItemRepo) Update(item *entity.InventoryItem) error {
	if _, ok := r.s.Items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Items[item.ID] = *item
	return nil
}

func (r *InventoryItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	item, ok := r.s.Items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.CostPrice = cost
	item.UpdatedAt = time.Now()
	r.s.Items[itemID] = item
	return nil
}

func (r *InventoryItemRepo) Deactivate(id string) error {
	item, ok := r.s.Items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.IsActive = false
	r.s.Items[id] = item
	return nil
}

func (r *InventoryItemRepo) List(onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, id := range sortedKeys(r.s.Items) {
		item := r.s.Items[id]
		if onlyActive && !item.IsActive {
			continue
		}
		it := item
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, limit, offset), nil
}

// ─── ItemStockRepository ────────────────────────────────────────────────────

var _ repository.ItemStockRepository = (*ItemStockRepo)(nil)

type ItemStockRepo struct{ s *Store }

func NewItemStockRepository(s *Store) *ItemStockRepo { return &ItemStockRepo{s: s} }

func (r *ItemStockRepo) Get(itemID string) (*entity.ItemStock, error) {
	stock, ok := r.s.Stocks[itemID]
	if !ok {
		return &entity.ItemStock{ItemID: itemID, Quantity: decimal.Zero}, nil
	}
	return &stock, nil
}

// GetForUpdate no bloquea nada: el Store no es concurrente.
func (r *ItemStockRepo) GetForUpdate(itemID string) (*entity.ItemStock, error) {
	return r.Get(itemID)
}

func (r *ItemStockRepo) Upsert(stock *entity.ItemStock) error {
	s := *stock
	s.UpdatedAt = time.Now()
	r.s.Stocks[s.ItemID] = s
	return nil
}

func (r *ItemStockRepo) ListBelowReorder(ctx context.Context) ([]repository.LowStockItem, error) {
	var out []repository.LowStockItem
	for _, id := range sortedKeys(r.s.Items) {
		item := r.s.Items[id]
		if !item.IsActive {
			continue
		}
		current := decimal.Zero
		if stock, ok := r.s.Stocks[id]; ok {
			current = stock.Quantity
		}
		if current.GreaterThanOrEqual(item.ReorderLevel) {
			continue
		}
		out = append(out, repository.LowStockItem{
			ItemID:        item.ID,
			Code:          item.Code,
			Name:          item.Name,
			UnitOfMeasure: item.UnitOfMeasure,
			Current:       current,
			MinStockLevel: item.MinStockLevel,
			ReorderLevel:  item.ReorderLevel,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		di := out[i].ReorderLevel.Sub(out[i].Current)
		dj := out[j].ReorderLevel.Sub(out[j].Current)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// ─── StockMovementRepository ────────────────────────────────────────────────

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

type StockMovementRepo struct{ s *Store }

func NewStockMovementRepository(s *Store) *StockMovementRepo { return &StockMovementRepo{s: s} }

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.s.Movements = append(r.s.Movements, *movement)
	return nil
}

func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			mv := m
			return &mv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *StockMovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.Movements) - 1; i >= 0; i-- {
		m := r.s.Movements[i]
		if m.ItemID != itemID {
			continue
		}
		if from != nil && m.PerformedAt.Before(*from) {
			continue
		}
		if to != nil && m.PerformedAt.After(*to) {
			continue
		}
		mv := m
		out = append(out, &mv)
	}
	return paginate(out, limit, offset), nil
}

func (r *StockMovementRepo) ListByReference(refType, refID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.ReferenceType == refType && m.ReferenceID == refID {
			mv := m
			out = append(out, &mv)
		}
	}
	return out, nil
}

func (r *StockMovementRepo) SumByItem(itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.Movements {
		if m.ItemID == itemID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

// ─── BOMRepository ──────────────────────────────────────────────────────────

var _ repository.BOMRepository = (*BOMRepo)(nil)

type BOMRepo struct{ s *Store }

func NewBOMRepository(s *Store) *BOMRepo { return &BOMRepo{s: s} }

func (r *BOMRepo) Create(bom *entity.BillOfMaterial) error {
	if bom.ID == "" {
		bom.ID = uuid.New().String()
	}
	for i := range bom.Items {
		if bom.Items[i].ID == "" {
			bom.Items[i].ID = uuid.New().String()
		}
		bom.Items[i].BOMID = bom.ID
	}
	r.s.BOMs[bom.ID] = *cloneBOM(*bom)
	return nil
}

func (r *BOMRepo) GetByID(id string) (*entity.BillOfMaterial, error) {
	bom, ok := r.s.BOMs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneBOM(bom), nil
}

func (r *BOMRepo) GetActiveByProduct(productItemID string) (*entity.BillOfMaterial, error) {
	for _, id := range sortedKeys(r.s.BOMs) {
		bom := r.s.BOMs[id]
		if bom.ProductItemID == productItemID && bom.IsActive {
			return cloneBOM(bom), nil
		}
	}
	return nil, nil
}

func (r *BOMRepo) DeactivateActiveForProduct(productItemID string) error {
	for id, bom := range r.s.BOMs {
		if bom.ProductItemID == productItemID && bom.IsActive {
			bom.IsActive = false
			r.s.BOMs[id] = bom
		}
	}
	return nil
}

func (r *BOMRepo) ListByProduct(productItemID string, limit, offset int) ([]*entity.BillOfMaterial, error) {
	var out []*entity.BillOfMaterial
	for _, id := range sortedKeys(r.s.BOMs) {
		bom := r.s.BOMs[id]
		if bom.ProductItemID == productItemID {
			out = append(out, cloneBOM(bom))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *BOMRepo) ListActive() ([]*entity.BillOfMaterial, error) {
	var out []*entity.BillOfMaterial
	for _, id := range sortedKeys(r.s.BOMs) {
		bom := r.s.BOMs[id]
		if bom.IsActive {
			out = append(out, cloneBOM(bom))
		}
	}
	return out, nil
}

// ─── ProductionBatchRepository ──────────────────────────────────────────────

var _ repository.ProductionBatchRepository = (*ProductionBatchRepo)(nil)

type ProductionBatchRepo struct{ s *Store }

func NewProductionBatchRepository(s *Store) *ProductionBatchRepo { return &ProductionBatchRepo{s: s} }

func (r *ProductionBatchRepo) Create(batch *entity.ProductionBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	for i := range batch.Allocations {
		if batch.Allocations[i].ID == "" {
			batch.Allocations[i].ID = uuid.New().String()
		}
		batch.Allocations[i].BatchID = batch.ID
	}
	r.s.Batches[batch.ID] = *cloneBatch(*batch)
	return nil
}

func (r *ProductionBatchRepo) GetByID(id string) (*entity.ProductionBatch, error) {
	batch, ok := r.s.Batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneBatch(batch), nil
}

func (r *ProductionBatchRepo) GetForUpdate(id string) (*entity.ProductionBatch, error) {
	return r.GetByID(id)
}

func (r *ProductionBatchRepo) Update(batch *entity.ProductionBatch) error {
	existing, ok := r.s.Batches[batch.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *cloneBatch(*batch)
	updated.Allocations = existing.Allocations // las asignaciones van por ReplaceAllocations
	r.s.Batches[batch.ID] = updated
	return nil
}

func (r *ProductionBatchRepo) ReplaceAllocations(batchID string, allocations []entity.BatchAllocation) error {
	batch, ok := r.s.Batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	batch.Allocations = nil
	for _, a := range allocations {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		a.BatchID = batchID
		batch.Allocations = append(batch.Allocations, a)
	}
	r.s.Batches[batchID] = batch
	return nil
}

func (r *ProductionBatchRepo) List(status string, limit, offset int) ([]*entity.ProductionBatch, error) {
	var out []*entity.ProductionBatch
	for _, id := range sortedKeys(r.s.Batches) {
		batch := r.s.Batches[id]
		if status != "" && batch.Status != status {
			continue
		}
		out = append(out, cloneBatch(batch))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *ProductionBatchRepo) Count() (int64, error) {
	return int64(len(r.s.Batches)), nil
}

// ─── PackagedProductRepository ──────────────────────────────────────────────

var _ repository.PackagedProductRepository = (*PackagedProductRepo)(nil)

type PackagedProductRepo struct{ s *Store }

func NewPackagedProductRepository(s *Store) *PackagedProductRepo { return &PackagedProductRepo{s: s} }

func (r *PackagedProductRepo) Create(pp *entity.PackagedProduct) error {
	if pp.ID == "" {
		pp.ID = uuid.New().String()
	}
	r.s.Packaged[pp.ID] = *pp
	return nil
}

func (r *PackagedProductRepo) GetByID(id string) (*entity.PackagedProduct, error) {
	pp, ok := r.s.Packaged[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &pp, nil
}

func (r *PackagedProductRepo) ListByProduct(productItemID string) ([]*entity.PackagedProduct, error) {
	var out []*entity.PackagedProduct
	for _, id := range sortedKeys(r.s.Packaged) {
		pp := r.s.Packaged[id]
		if pp.ProductItemID == productItemID {
			p := pp
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *PackagedProductRepo) List(limit, offset int) ([]*entity.PackagedProduct, error) {
	var out []*entity.PackagedProduct
	for _, id := range sortedKeys(r.s.Packaged) {
		pp := r.s.Packaged[id]
		p := pp
		out = append(out, &p)
	}
	return paginate(out, limit, offset), nil
}

// ─── ReceiptLineRepository ──────────────────────────────────────────────────

var _ repository.ReceiptLineRepository = (*ReceiptLineRepo)(nil)

type ReceiptLineRepo struct{ s *Store }

func NewReceiptLineRepository(s *Store) *ReceiptLineRepo { return &ReceiptLineRepo{s: s} }

func (r *ReceiptLineRepo) Create(line *entity.PurchaseReceiptLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	r.s.ReceiptLines[line.ID] = *line
	return nil
}

func (r *ReceiptLineRepo) GetByID(id string) (*entity.PurchaseReceiptLine, error) {
	line, ok := r.s.ReceiptLines[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &line, nil
}

func (r *ReceiptLineRepo) GetForUpdate(id string) (*entity.PurchaseReceiptLine, error) {
	return r.GetByID(id)
}

func (r *ReceiptLineRepo) MarkProcessed(id string, at time.Time) error {
	line, ok := r.s.ReceiptLines[id]
	if !ok {
		return domain.ErrNotFound
	}
	if line.Processed {
		return domain.ErrConflict
	}
	line.Processed = true
	line.ProcessedAt = &at
	r.s.ReceiptLines[id] = line
	return nil
}

func (r *ReceiptLineRepo) ListPending(limit, offset int) ([]*entity.PurchaseReceiptLine, error) {
	var out []*entity.PurchaseReceiptLine
	for _, id := range sortedKeys(r.s.ReceiptLines) {
		line := r.s.ReceiptLines[id]
		if line.Processed {
			continue
		}
		l := line
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ─── UserRepository ─────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct{ s *Store }

func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(user *entity.User) error {
	for _, existing := range r.s.Users {
		if existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.Users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	user, ok := r.s.Users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, user := range r.s.Users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}
