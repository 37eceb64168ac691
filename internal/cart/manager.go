package cart

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Manager owns the cart list for a session. Every successful mutation is
// written through to Persistence before the call returns; if the write
// fails the in-memory list is restored and the error returned.
type Manager struct {
	mu       sync.Mutex
	store    *Persistence
	log      *zap.Logger
	items    []LineItem
	pos      map[int64]int
	onChange []func([]LineItem)
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// OnChange registers a hook called with a copy of the list after every
// successful mutation. Hooks run outside the manager's lock.
func OnChange(fn func([]LineItem)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.onChange = append(m.onChange, fn)
		}
	}
}

func NewManager(store *Persistence, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   zap.NewNop(),
		items: []LineItem{},
		pos:   map[int64]int{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Load replaces the in-memory list with the persisted one. Unreadable data
// yields an empty cart; the failure is logged, not returned.
func (m *Manager) Load(ctx context.Context) []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.store.Read(ctx)
	if err != nil {
		m.log.Warn("cart load failed, starting empty", zap.String("key", m.store.Key()), zap.Error(err))
		items = []LineItem{}
	}

	// Entries written by hand or by older pages may repeat an id; fold them.
	m.items = make([]LineItem, 0, len(items))
	m.pos = make(map[int64]int, len(items))
	for _, it := range items {
		it.Quantity = ClampQuantity(it.Quantity)
		if i, ok := m.pos[it.ID]; ok {
			m.items[i].Quantity += it.Quantity
			continue
		}
		m.pos[it.ID] = len(m.items)
		m.items = append(m.items, it)
	}
	return cloneItems(m.items)
}

// Add puts one unit of p into the cart. availableStock bounds the
// resulting quantity; a rejected add returns a *StockError and leaves the
// cart and the persisted copy untouched.
func (m *Manager) Add(ctx context.Context, p Product, availableStock int) (LineItem, error) {
	var added LineItem
	err := m.mutate(ctx, func() error {
		if i, ok := m.pos[p.ID]; ok {
			cur := m.items[i]
			if cur.Quantity >= availableStock {
				return &StockError{Kind: ErrStockExceeded, Name: cur.Name, InCart: cur.Quantity, Available: availableStock}
			}
			m.items[i].Quantity++
			added = m.items[i]
			return nil
		}
		if availableStock <= 0 {
			return &StockError{Kind: ErrOutOfStock, Name: p.Name, Available: availableStock}
		}
		added = LineItem{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice, Image: p.Image, Quantity: 1}
		m.pos[p.ID] = len(m.items)
		m.items = append(m.items, added)
		return nil
	})
	if err != nil {
		return LineItem{}, err
	}
	return added, nil
}

func (m *Manager) Remove(ctx context.Context, id int64) error {
	return m.mutate(ctx, func() error {
		i, ok := m.pos[id]
		if !ok {
			return errors.Wrapf(ErrItemNotFound, "remove %d", id)
		}
		m.deleteAt(i)
		return nil
	})
}

// RemoveAt removes by display position. Positions come from a rendered
// page and may be stale; out-of-range is a no-op returning ErrIndexOutOfRange.
func (m *Manager) RemoveAt(ctx context.Context, index int) error {
	return m.mutate(ctx, func() error {
		if index < 0 || index >= len(m.items) {
			return errors.Wrapf(ErrIndexOutOfRange, "remove at %d of %d", index, len(m.items))
		}
		m.deleteAt(index)
		return nil
	})
}

// UpdateQuantity sets the quantity of id, clamped to at least 1. Stock is
// not consulted here; the server validates it when the order is placed.
func (m *Manager) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return m.mutate(ctx, func() error {
		i, ok := m.pos[id]
		if !ok {
			return errors.Wrapf(ErrItemNotFound, "update %d", id)
		}
		m.items[i].Quantity = ClampQuantity(quantity)
		return nil
	})
}

func (m *Manager) UpdateQuantityAt(ctx context.Context, index, quantity int) error {
	return m.mutate(ctx, func() error {
		if index < 0 || index >= len(m.items) {
			return errors.Wrapf(ErrIndexOutOfRange, "update at %d of %d", index, len(m.items))
		}
		m.items[index].Quantity = ClampQuantity(quantity)
		return nil
	})
}

// Clear empties the cart and persists "[]" immediately.
func (m *Manager) Clear(ctx context.Context) error {
	return m.mutate(ctx, func() error {
		m.items = []LineItem{}
		m.pos = map[int64]int{}
		return nil
	})
}

// Total is recomputed from the line items on every call.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return totalOf(m.items)
}

// Snapshot returns the list and its total under one lock.
func (m *Manager) Snapshot() ([]LineItem, decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneItems(m.items), totalOf(m.items)
}

func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneItems(m.items)
}

// Len is the number of distinct line items, which is what the header
// counter badge shows.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Count is the sum of all quantities.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		n += it.Quantity
	}
	return n
}

func (m *Manager) Lookup(id int64) (LineItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.pos[id]
	if !ok {
		return LineItem{}, false
	}
	return m.items[i], true
}

func (m *Manager) mutate(ctx context.Context, apply func() error) error {
	m.mu.Lock()
	prev := cloneItems(m.items)
	if err := apply(); err != nil {
		m.restore(prev)
		m.mu.Unlock()
		return err
	}
	if err := m.store.Write(ctx, m.items); err != nil {
		m.restore(prev)
		m.mu.Unlock()
		m.log.Error("cart persist failed, change rolled back", zap.String("key", m.store.Key()), zap.Error(err))
		return err
	}
	snapshot := cloneItems(m.items)
	hooks := m.onChange
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(snapshot)
	}
	return nil
}

func (m *Manager) restore(items []LineItem) {
	m.items = items
	m.reindex()
}

func (m *Manager) deleteAt(i int) {
	m.items = append(m.items[:i], m.items[i+1:]...)
	m.reindex()
}

func (m *Manager) reindex() {
	m.pos = make(map[int64]int, len(m.items))
	for i, it := range m.items {
		m.pos[it.ID] = i
	}
}

func totalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
