package adapter

import (
	cartapp "github.com/deezprints/deezprints/internal/cart/app"
	checkoutapp "github.com/deezprints/deezprints/internal/checkout/app"
)

// SessionCart exposes one session's cart to the checkout service.
type SessionCart struct {
	svc *cartapp.Service
}

func NewSessionCart(svc *cartapp.Service) *SessionCart {
	return &SessionCart{svc: svc}
}

func (c *SessionCart) Lines() []checkoutapp.CartLine {
	items := c.svc.Items()
	lines := make([]checkoutapp.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, checkoutapp.CartLine{
			ProductID:    it.ID,
			SelectedSize: it.SelectedSize,
			Quantity:     it.Quantity,
		})
	}
	return lines
}

func (c *SessionCart) Clear() {
	c.svc.Clear()
}
