package presenter

import (
	"context"
	"strings"

	"github.com/drstein77/cartfolio/internal/cart"
)

const DefaultCartPage = "cart.html"

// RenderFunc redraws the full cart listing.
type RenderFunc func(ctx context.Context)

// CartView re-renders the cart listing after removals, clears and imports, but only
// while the cart page is the one on screen.
type CartView struct {
	loc    Location
	page   string
	render RenderFunc
}

func NewCartView(loc Location, page string, render RenderFunc) *CartView {
	if page == "" {
		page = DefaultCartPage
	}
	return &CartView{loc: loc, page: page, render: render}
}

func (v *CartView) OnCartPage() bool {
	return v.loc != nil && strings.Contains(v.loc.Path(), v.page)
}

func (v *CartView) CartChanged(ctx context.Context, ev cart.Event) {
	switch ev.Kind {
	case cart.Removed, cart.Cleared, cart.Replaced:
	default:
		return
	}
	if v.render == nil || !v.OnCartPage() {
		return
	}
	v.render(ctx)
}
