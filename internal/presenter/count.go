package presenter

import (
	"context"
	"strconv"

	"github.com/drstein77/cartfolio/internal/cart"
	"go.uber.org/zap"
)

const (
	DefaultBadgeSelector = "#cart-count"
	hiddenClass          = "hidden"
)

type itemCounter interface {
	ItemCount(ctx context.Context) int
}

// CountIndicator writes the cart item count into every badge on the page.
type CountIndicator struct {
	doc      Document
	store    itemCounter
	selector string
	log      Log
}

func NewCountIndicator(doc Document, store itemCounter, selector string, log Log) *CountIndicator {
	if selector == "" {
		selector = DefaultBadgeSelector
	}
	return &CountIndicator{
		doc:      doc,
		store:    store,
		selector: selector,
		log:      log,
	}
}

// Refresh shows the count on every badge, hiding badges when the cart is
// empty. Hidden badges keep their previous text.
func (c *CountIndicator) Refresh(ctx context.Context) {
	count := c.store.ItemCount(ctx)

	badges, err := c.doc.QueryAll(c.selector)
	if err != nil {
		c.log.Warn("Cannot find cart badges", zap.String("selector", c.selector), zap.Error(err))
		return
	}

	for _, badge := range badges {
		if count > 0 {
			err = badge.SetText(strconv.Itoa(count))
			if err == nil {
				err = badge.RemoveClass(hiddenClass)
			}
		} else {
			err = badge.AddClass(hiddenClass)
		}
		if err != nil {
			c.log.Warn("Cannot update cart badge", zap.Error(err))
		}
	}
}

func (c *CountIndicator) CartChanged(ctx context.Context, _ cart.Event) {
	c.Refresh(ctx)
}
