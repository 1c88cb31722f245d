package cart

import "context"

type EventKind int

const (
	Added EventKind = iota + 1
	Removed
	QuantityChanged
	Cleared
	Replaced
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case QuantityChanged:
		return "quantity_changed"
	case Cleared:
		return "cleared"
	case Replaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Event describes a completed mutation. It is emitted after the cart has
// been written back, so listeners reading the store observe the new state.
type Event struct {
	Kind      EventKind
	ProductID int64
	Quantity  int
}

// Listener reacts to cart mutations. Listeners run synchronously on the
// mutating goroutine in subscription order.
type Listener interface {
	CartChanged(ctx context.Context, ev Event)
}

type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) CartChanged(ctx context.Context, ev Event) {
	f(ctx, ev)
}

type subscription struct {
	l Listener
}

// Subscribe registers l and returns a function that removes it again.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	sub := &subscription{l: l}

	s.lmu.Lock()
	s.listeners = append(s.listeners, sub)
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		for i, cur := range s.listeners {
			if cur == sub {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(ctx context.Context, ev Event) {
	s.lmu.RLock()
	subs := make([]*subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.lmu.RUnlock()

	for _, sub := range subs {
		sub.l.CartChanged(ctx, ev)
	}
}
