package presenter

import (
	"context"
	"time"

	"github.com/drstein77/cartfolio/internal/cart"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	AddedMessage   = "Added to cart!"
	RemovedMessage = "Removed from cart"

	notificationClass = "fixed top-20 right-4 bg-green-500 text-white px-6 py-3 rounded-lg shadow-lg z-50 transform translate-x-full transition-transform duration-300"
	offscreenClass    = "translate-x-full"

	DefaultDwell = 2 * time.Second
	enterDelay   = 100 * time.Millisecond
	exitDuration = 300 * time.Millisecond
)

// Scheduler runs f once after d. Scheduled work is never cancelled.
type Scheduler func(d time.Duration, f func())

func afterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// NotificationPresenter shows transient toast messages. Toasts stack; each
// one slides in, stays for the dwell time, slides out and is removed.
type NotificationPresenter struct {
	doc   Document
	after Scheduler
	dwell time.Duration
	log   Log
}

func NewNotificationPresenter(doc Document, after Scheduler, dwell time.Duration, log Log) *NotificationPresenter {
	if after == nil {
		after = afterFunc
	}
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	return &NotificationPresenter{
		doc:   doc,
		after: after,
		dwell: dwell,
		log:   log,
	}
}

// Show appends the toast and schedules its animation. It does not block.
func (n *NotificationPresenter) Show(message string) {
	id := "cart-notification-" + uuid.NewString()
	el, err := n.doc.Append(id, notificationClass, message)
	if err != nil {
		n.log.Warn("Cannot show cart notification", zap.String("message", message), zap.Error(err))
		return
	}
	n.log.Debug("Cart notification shown", zap.String("id", id), zap.String("message", message))

	n.after(enterDelay, func() {
		n.warn(el.RemoveClass(offscreenClass))
	})
	n.after(n.dwell, func() {
		n.warn(el.AddClass(offscreenClass))
		n.after(exitDuration, func() {
			n.warn(el.Remove())
		})
	})
}

func (n *NotificationPresenter) CartChanged(_ context.Context, ev cart.Event) {
	switch ev.Kind {
	case cart.Added:
		n.Show(AddedMessage)
	case cart.Removed:
		n.Show(RemovedMessage)
	}
}

func (n *NotificationPresenter) warn(err error) {
	if err != nil {
		n.log.Warn("Cart notification animation failed", zap.Error(err))
	}
}
