package presenter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/drstein77/cartfolio/internal/cart"
	"github.com/drstein77/cartfolio/internal/logger"
	"github.com/drstein77/cartfolio/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStore() *cart.Store {
	return cart.NewStore(storage.NewMemoryStorage(nil), logger.Nop())
}

func TestCountIndicator_ShowsAndHides(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	page := newFakePage("/index.html", "cart-count", "cart-count", "other")
	ci := NewCountIndicator(page, store, "", nopLog{})

	store.Add(ctx, 1, 2)
	store.Add(ctx, 2, 1)
	ci.Refresh(ctx)

	badges, err := page.QueryAll(DefaultBadgeSelector)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	for _, b := range badges {
		el := b.(*fakeElement)
		assert.Equal(t, "3", el.Text())
		assert.False(t, el.hasClass("hidden"))
	}
	assert.Empty(t, page.elements[2].Text(), "unrelated element untouched")

	store.Clear(ctx)
	ci.Refresh(ctx)
	ci.Refresh(ctx)
	for _, b := range badges {
		assert.True(t, b.(*fakeElement).hasClass("hidden"))
	}
}

func TestCountIndicator_QueryFailureIsLogged(t *testing.T) {
	page := newFakePage("/")
	page.queryErr = errors.New("detached")
	ci := NewCountIndicator(page, newStore(), "", nopLog{})

	assert.NotPanics(t, func() { ci.Refresh(context.Background()) })
}

func TestNotificationPresenter_Lifecycle(t *testing.T) {
	page := newFakePage("/")
	clock := &manualClock{}
	n := NewNotificationPresenter(page, clock.schedule, 0, nopLog{})

	n.Show(AddedMessage)

	overlays := page.overlays()
	require.Len(t, overlays, 1)
	toast := overlays[0]
	assert.Equal(t, AddedMessage, toast.Text())
	assert.True(t, toast.hasClass("translate-x-full"))
	assert.True(t, toast.hasClass("fixed"))

	clock.advance(100 * time.Millisecond)
	assert.False(t, toast.hasClass("translate-x-full"), "slid into view")

	clock.advance(1900 * time.Millisecond)
	assert.True(t, toast.hasClass("translate-x-full"), "sliding out after the dwell")
	assert.Len(t, page.overlays(), 1)

	clock.advance(300 * time.Millisecond)
	assert.Empty(t, page.overlays())
}

func TestNotificationPresenter_Stacks(t *testing.T) {
	page := newFakePage("/")
	clock := &manualClock{}
	n := NewNotificationPresenter(page, clock.schedule, time.Second, nopLog{})

	n.Show(AddedMessage)
	clock.advance(500 * time.Millisecond)
	n.Show(AddedMessage)

	overlays := page.overlays()
	require.Len(t, overlays, 2)
	assert.NotEqual(t, overlays[0].id, overlays[1].id)

	clock.advance(800 * time.Millisecond)
	assert.Len(t, page.overlays(), 1, "first toast gone at 1.3s")

	clock.advance(time.Second)
	assert.Empty(t, page.overlays())
}

func TestNotificationPresenter_RealTimers(t *testing.T) {
	page := newFakePage("/")
	n := NewNotificationPresenter(page, nil, 150*time.Millisecond, nopLog{})

	n.Show(RemovedMessage)
	require.Len(t, page.overlays(), 1)

	require.Eventually(t, func() bool {
		return len(page.overlays()) == 0
	}, 3*time.Second, 20*time.Millisecond)
}

func TestCartView_OnlyOnCartPage(t *testing.T) {
	ctx := context.Background()
	var renders int32
	render := func(context.Context) { atomic.AddInt32(&renders, 1) }

	page := newFakePage("/shop/cart.html")
	v := NewCartView(page, "", render)

	v.CartChanged(ctx, cart.Event{Kind: cart.Added})
	v.CartChanged(ctx, cart.Event{Kind: cart.QuantityChanged})
	assert.Zero(t, atomic.LoadInt32(&renders))

	v.CartChanged(ctx, cart.Event{Kind: cart.Removed})
	v.CartChanged(ctx, cart.Event{Kind: cart.Cleared})
	v.CartChanged(ctx, cart.Event{Kind: cart.Replaced})
	assert.Equal(t, int32(3), atomic.LoadInt32(&renders))

	page.path = "/products.html"
	v.CartChanged(ctx, cart.Event{Kind: cart.Removed})
	assert.Equal(t, int32(3), atomic.LoadInt32(&renders))
}

func TestCartView_NoRenderIsSkipped(t *testing.T) {
	v := NewCartView(newFakePage("/cart.html"), "", nil)
	assert.True(t, v.OnCartPage())
	assert.NotPanics(t, func() {
		v.CartChanged(context.Background(), cart.Event{Kind: cart.Cleared})
	})
}

func TestBind_WiresAllPresenters(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	store.Add(ctx, 9, 4)

	page := newFakePage("/cart.html", "cart-count")
	clock := &manualClock{}
	var renders int
	b := Bind(ctx, store, page, page, Options{
		Render:    func(context.Context) { renders++ },
		Scheduler: clock.schedule,
	}, nopLog{})

	badge := page.elements[0]
	assert.Equal(t, "4", badge.Text(), "initial count rendered on bind")
	assert.Empty(t, page.overlays(), "bind itself does not notify")

	store.Add(ctx, 1, 1)
	assert.Equal(t, "5", badge.Text())
	require.Len(t, page.overlays(), 1)
	assert.Equal(t, AddedMessage, page.overlays()[0].Text())
	assert.Zero(t, renders)

	store.SetQuantity(ctx, 1, 3)
	assert.Equal(t, "7", badge.Text())
	assert.Len(t, page.overlays(), 1, "quantity updates are silent")

	store.SetQuantity(ctx, 9, 0)
	assert.Equal(t, "3", badge.Text())
	assert.Equal(t, 1, renders)
	overlays := page.overlays()
	require.Len(t, overlays, 2)
	assert.Equal(t, RemovedMessage, overlays[1].Text())

	store.Clear(ctx)
	assert.True(t, badge.hasClass("hidden"))
	assert.Equal(t, 2, renders)
	assert.Len(t, page.overlays(), 2, "clear does not notify")

	b.Unbind()
	store.Add(ctx, 2, 1)
	assert.True(t, badge.hasClass("hidden"))

	clock.advance(time.Minute)
	assert.Empty(t, page.overlays())
}

func TestLogEvents(t *testing.T) {
	store := newStore()
	unsub := LogEvents(store, nopLog{})
	store.Add(context.Background(), 1, 1)
	unsub()
}
