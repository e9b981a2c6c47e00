package quote

import (
	"context"

	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// Manager owns the canonical quote state for one session. It is the only
// writer to the snapshot store; every mutation persists the resulting state
// before returning. Persistence is best-effort: a failed save is logged and
// the in-memory state stands for the rest of the session.
type Manager struct {
	store     SnapshotStore
	logg      *logger.Logger
	sessionID string
	items     []LineItem
}

// NewManager materializes the session's quote from the snapshot store.
// A missing or unreadable snapshot yields an empty quote.
func NewManager(ctx context.Context, store SnapshotStore, logg *logger.Logger, sessionID string) *Manager {
	m := &Manager{
		store:     store,
		logg:      logg,
		sessionID: sessionID,
	}
	if store != nil {
		m.items = store.Load(ctx, sessionID)
	}
	return m
}

// Add merges the product into the quote. An existing line gains delta
// (minimum 1); a new line always starts at exactly quantity 1 and appends at
// the end, so insertion order is display order.
func (m *Manager) Add(ctx context.Context, product LineItem, delta int) {
	if product.ID == "" {
		return
	}
	if delta < 1 {
		delta = 1
	}
	for i := range m.items {
		if m.items[i].ID == product.ID {
			m.items[i].Quantity += delta
			m.persist(ctx)
			return
		}
	}
	product.Quantity = 1
	m.items = append(m.items, product)
	m.persist(ctx)
}

// Remove decrements the line by one and deletes it when the quantity would
// drop below 1. Unknown ids are a no-op.
func (m *Manager) Remove(ctx context.Context, id string) {
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if m.items[i].Quantity > 1 {
			m.items[i].Quantity--
		} else {
			m.items = append(m.items[:i], m.items[i+1:]...)
		}
		m.persist(ctx)
		return
	}
}

// SetQuantity pins the line to the given quantity; anything below 1 deletes
// the line. Unknown ids are a no-op.
func (m *Manager) SetQuantity(ctx context.Context, id string, quantity int) {
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if quantity < 1 {
			m.items = append(m.items[:i], m.items[i+1:]...)
		} else {
			m.items[i].Quantity = quantity
		}
		m.persist(ctx)
		return
	}
}

// Clear empties the quote.
func (m *Manager) Clear(ctx context.Context) {
	m.items = nil
	m.persist(ctx)
}

// Count is the badge count: the sum of quantities across all lines, not the
// number of distinct lines.
func (m *Manager) Count() int {
	total := 0
	for _, item := range m.items {
		total += item.Quantity
	}
	return total
}

// ItemQuantity reports the quantity for a product, 0 when absent.
func (m *Manager) ItemQuantity(id string) int {
	for _, item := range m.items {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}

// Items returns a stable copy of the quote lines in insertion order.
func (m *Manager) Items() []LineItem {
	return cloneItems(m.items)
}

// Subtotal sums unit price times quantity across the quote.
func (m *Manager) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (m *Manager) persist(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, m.sessionID, m.items); err != nil {
		if m.logg != nil {
			ctx = m.logg.WithSessionID(ctx, m.sessionID)
			m.logg.Warn(ctx, "quote snapshot save failed: "+err.Error())
		}
	}
}
