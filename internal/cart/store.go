// Package cart keeps a shopper's cart in a single persisted text slot.
//
// Every operation is an independent load, mutate, persist cycle over the
// whole cart. Storage failures never reach the caller: a failed read yields an
// empty cart and a failed write is logged and dropped.
package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/drstein77/cartfolio/internal/models"
	"github.com/drstein77/cartfolio/internal/storage"
	"go.uber.org/zap"
)

// DefaultKey is the namespaced slot the cart is persisted under.
const DefaultKey = "cartfolio_cart"

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Log is the subset of the logger the store writes to.
type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Store is the cart over a storage slot.
type Store struct {
	slot storage.Slot
	key  string
	log  Log
	now  func() time.Time

	// mu serializes one load-mutate-persist cycle within the process.
	mu sync.Mutex

	lmu       sync.RWMutex
	listeners []*subscription
}

// Option configures a Store.
type Option func(*Store)

// WithKey persists the cart under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock replaces the clock used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store over slot.
func NewStore(slot storage.Slot, log Log, opts ...Option) *Store {
	s := &Store{
		slot: slot,
		key:  DefaultKey,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key the cart lives under.
func (s *Store) Key() string {
	return s.key
}

// Load reads the persisted cart. Missing or malformed data yields an empty cart.
func (s *Store) Load(ctx context.Context) models.Cart {
	raw, found, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.log.Error("Error getting cart from storage", zap.String("key", s.key), zap.Error(err))
		return models.Cart{}
	}
	if !found || raw == "" {
		return models.Cart{}
	}

	var c models.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.log.Error("Error decoding persisted cart", zap.String("key", s.key), zap.Error(err))
		return models.Cart{}
	}
	return sanitize(c)
}

// Persist writes the whole cart. Write failures are logged and ignored.
func (s *Store) Persist(ctx context.Context, c models.Cart) {
	if c == nil {
		c = models.Cart{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		s.log.Error("Error encoding cart", zap.Error(err))
		return
	}
	if err := s.slot.Set(ctx, s.key, string(data)); err != nil {
		s.log.Error("Error saving cart to storage", zap.String("key", s.key), zap.Error(err))
	}
}

// Add increments the quantity of productID, appending a new entry if absent.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) {
	if quantity < 1 {
		s.log.Warn("Ignoring non-positive add", zap.Int64("id", productID), zap.Int("quantity", quantity))
		return
	}

	s.mu.Lock()
	c := s.Load(ctx)
	if i := indexOf(c, productID); i >= 0 {
		c[i].Quantity += quantity
	} else {
		c = append(c, models.CartEntry{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   s.now().UTC().Format(timestampLayout),
		})
	}
	s.Persist(ctx, c)
	s.mu.Unlock()

	s.emit(ctx, Event{Kind: Added, ProductID: productID, Quantity: quantity})
}

// Remove drops every entry for productID.
func (s *Store) Remove(ctx context.Context, productID int64) {
	s.mu.Lock()
	c := s.Load(ctx)
	kept := c[:0]
	for _, e := range c {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	s.Persist(ctx, kept)
	s.mu.Unlock()

	s.emit(ctx, Event{Kind: Removed, ProductID: productID})
}

// SetQuantity overwrites the quantity of productID. A quantity of zero or
// less removes the entry. An absent productID leaves the cart unchanged.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID)
		return
	}

	s.mu.Lock()
	c := s.Load(ctx)
	if i := indexOf(c, productID); i >= 0 {
		c[i].Quantity = quantity
	}
	s.Persist(ctx, c)
	s.mu.Unlock()

	s.emit(ctx, Event{Kind: QuantityChanged, ProductID: productID, Quantity: quantity})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.Persist(ctx, models.Cart{})
	s.mu.Unlock()
	s.log.Info("Cart cleared", zap.String("key", s.key))

	s.emit(ctx, Event{Kind: Cleared})
}

// Replace overwrites the whole cart with c. Non-positive quantities are
// dropped and duplicate ids folded before anything is written.
func (s *Store) Replace(ctx context.Context, c models.Cart) models.Cart {
	s.mu.Lock()
	c = sanitize(c)
	s.Persist(ctx, c)
	s.mu.Unlock()
	s.log.Info("Cart replaced", zap.String("key", s.key), zap.Int("entries", len(c)))

	s.emit(ctx, Event{Kind: Replaced})
	return c
}

// Total sums price times quantity in minor units. Entries whose product is
// missing from the catalog contribute nothing.
func (s *Store) Total(ctx context.Context, catalog []models.Product) int64 {
	var total int64
	for _, e := range s.Load(ctx) {
		for _, p := range catalog {
			if p.ID == e.ProductID {
				total += p.Price * int64(e.Quantity)
				break
			}
		}
	}
	return total
}

// ItemCount is the sum of quantities across all entries.
func (s *Store) ItemCount(ctx context.Context) int {
	n := 0
	for _, e := range s.Load(ctx) {
		n += e.Quantity
	}
	return n
}

// Contains reports whether productID has an entry.
func (s *Store) Contains(ctx context.Context, productID int64) bool {
	return indexOf(s.Load(ctx), productID) >= 0
}

// QuantityOf returns the quantity of productID, or 0 when absent.
func (s *Store) QuantityOf(ctx context.Context, productID int64) int {
	c := s.Load(ctx)
	if i := indexOf(c, productID); i >= 0 {
		return c[i].Quantity
	}
	return 0
}

// sanitize drops non-positive quantities and folds duplicate ids into the
// first-added entry.
func sanitize(c models.Cart) models.Cart {
	out := make(models.Cart, 0, len(c))
	for _, e := range c {
		if e.Quantity <= 0 {
			continue
		}
		if i := indexOf(out, e.ProductID); i >= 0 {
			out[i].Quantity += e.Quantity
			continue
		}
		out = append(out, e)
	}
	return out
}

func indexOf(c models.Cart, productID int64) int {
	for i, e := range c {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}
