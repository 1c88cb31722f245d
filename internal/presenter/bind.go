package presenter

import (
	"context"
	"time"

	"github.com/drstein77/cartfolio/internal/cart"
	"go.uber.org/zap"
)

type Options struct {
	BadgeSelector string
	CartPage      string
	Render        RenderFunc
	Dwell         time.Duration
	Scheduler     Scheduler
}

// Binding is the set of presenters subscribed to one store.
type Binding struct {
	Count  *CountIndicator
	View   *CartView
	Notify *NotificationPresenter

	unsubs []func()
}

// Bind subscribes the count badge, the cart view and the notifications to
// store, in that order, and renders the initial count.
func Bind(ctx context.Context, store *cart.Store, doc Document, loc Location, opts Options, log Log) *Binding {
	b := &Binding{
		Count:  NewCountIndicator(doc, store, opts.BadgeSelector, log),
		View:   NewCartView(loc, opts.CartPage, opts.Render),
		Notify: NewNotificationPresenter(doc, opts.Scheduler, opts.Dwell, log),
	}
	b.unsubs = []func(){
		store.Subscribe(b.Count),
		store.Subscribe(b.View),
		store.Subscribe(b.Notify),
	}
	b.Count.Refresh(ctx)
	return b
}

func (b *Binding) Unbind() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
}

// LogEvents subscribes a listener that records every mutation, for pages
// without a document to render into.
func LogEvents(store *cart.Store, log Log) (unsubscribe func()) {
	return store.Subscribe(cart.ListenerFunc(func(ctx context.Context, ev cart.Event) {
		log.Debug("Cart changed",
			zap.Stringer("kind", ev.Kind),
			zap.Int64("id", ev.ProductID),
			zap.Int("quantity", ev.Quantity),
			zap.Int("items", store.ItemCount(ctx)),
		)
	}))
}
