package finance

import (
	"context"

	"github.com/google/uuid"

	"github.com/structura/backend/internal/domain/shared"
)

// CashflowItemLookup is an immutable in-memory index over a company's
// cashflow items. It is built once per operation from the repository and
// passed explicitly to whoever needs code or ID resolution. There is no
// process-wide cache and no per-transaction database round trip.
type CashflowItemLookup struct {
	byID   map[uuid.UUID]*CashflowItem
	byCode map[string]*CashflowItem
}

// BuildCashflowItemLookup loads every item for the scope and indexes it
func BuildCashflowItemLookup(ctx context.Context, repo CashflowItemRepository, scope shared.Scope) (*CashflowItemLookup, error) {
	items, err := repo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return NewCashflowItemLookup(items), nil
}

// NewCashflowItemLookup indexes an already-loaded item set
func NewCashflowItemLookup(items []CashflowItem) *CashflowItemLookup {
	l := &CashflowItemLookup{
		byID:   make(map[uuid.UUID]*CashflowItem, len(items)),
		byCode: make(map[string]*CashflowItem, len(items)),
	}
	for i := range items {
		item := &items[i]
		l.byID[item.ID] = item
		l.byCode[item.Code] = item
	}
	return l
}

// ByID resolves an item by ID
func (l *CashflowItemLookup) ByID(id uuid.UUID) (*CashflowItem, bool) {
	item, ok := l.byID[id]
	return item, ok
}

// ByCode resolves an item by its code
func (l *CashflowItemLookup) ByCode(code string) (*CashflowItem, bool) {
	item, ok := l.byCode[code]
	return item, ok
}

// Len returns the number of indexed items
func (l *CashflowItemLookup) Len() int {
	return len(l.byID)
}
