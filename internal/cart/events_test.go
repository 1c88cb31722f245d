package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
	counts []int
	store  *Store
}

func (r *recorder) CartChanged(ctx context.Context, ev Event) {
	r.events = append(r.events, ev)
	r.counts = append(r.counts, r.store.ItemCount(ctx))
}

func TestStore_EmitsAfterPersist(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	rec := &recorder{store: s}
	s.Subscribe(rec)

	s.Add(ctx, 1, 2)
	s.SetQuantity(ctx, 1, 5)
	s.Remove(ctx, 1)
	s.Add(ctx, 2, 1)
	s.Clear(ctx)

	require.Len(t, rec.events, 5)
	assert.Equal(t, []EventKind{Added, QuantityChanged, Removed, Added, Cleared}, kinds(rec.events))
	// listeners read the stored state, so they can call back into the store
	assert.Equal(t, []int{2, 5, 0, 1, 0}, rec.counts)
	assert.Equal(t, Event{Kind: Added, ProductID: 1, Quantity: 2}, rec.events[0])
}

func TestStore_SetQuantityZeroEmitsRemoved(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	s.Add(ctx, 1, 1)

	var got []EventKind
	s.Subscribe(ListenerFunc(func(_ context.Context, ev Event) {
		got = append(got, ev.Kind)
	}))
	s.SetQuantity(ctx, 1, 0)

	assert.Equal(t, []EventKind{Removed}, got)
}

func TestStore_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	var first, second int
	unsubFirst := s.Subscribe(ListenerFunc(func(context.Context, Event) { first++ }))
	s.Subscribe(ListenerFunc(func(context.Context, Event) { second++ }))

	s.Add(ctx, 1, 1)
	unsubFirst()
	unsubFirst()
	s.Add(ctx, 1, 1)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestStore_IgnoredAddEmitsNothing(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	called := false
	s.Subscribe(ListenerFunc(func(context.Context, Event) { called = true }))
	s.Add(ctx, 1, 0)

	assert.False(t, called)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "cleared", Cleared.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}

func kinds(evs []Event) []EventKind {
	out := make([]EventKind, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Kind)
	}
	return out
}
