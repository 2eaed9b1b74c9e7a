package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "stridecart/internal/log"
	"stridecart/internal/services"
	"stridecart/internal/validate"
	"stridecart/internal/view"
)

type CartHandler struct{}

func cartPage(c *fiber.Ctx, v *services.Visitor, notice string) error {
	snap := v.Store.Cart.Snapshot()
	return render(c, "cart", fiber.Map{
		"Items":     snap.Data,
		"Totals":    view.CartTotals(snap.Data),
		"Threshold": view.FreeShippingThreshold,
		"Err":       snap.Err,
		"Notice":    notice,
	})
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	v := visitor(c)
	_ = v.Cart.Fetch(c.UserContext())
	return cartPage(c, v, "")
}

// POST /cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	v := visitor(c)
	ctx := c.UserContext()
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return notFound(c, "This item is no longer available")
	}
	qty := 1
	if raw := strings.TrimSpace(c.FormValue("qty")); raw != "" {
		qty = validate.Qty(raw)
	}
	size, _ := validate.Size(c.FormValue("size"))

	err := v.Catalog.Get(ctx, id)
	defer v.Catalog.ClearFocused()
	if err != nil {
		return focusFailed(c, v, err)
	}
	p := v.Store.Catalog.Focused.Snapshot().Data
	if p == nil {
		return notFound(c, "This item is no longer available")
	}

	err = v.Cart.AddProduct(ctx, *p, qty, size)
	switch {
	case err == nil:
		applog.Info(c, "cart.add", map[string]any{"product": id, "qty": qty, "size": size})
		return c.Redirect("/cart")
	case errors.Is(err, services.ErrOutOfStock):
		c.Status(fiber.StatusConflict)
		return productPage(c, p, "This item is out of stock")
	case errors.Is(err, services.ErrSizeRequired):
		c.Status(fiber.StatusBadRequest)
		return productPage(c, p, "Please select a size")
	case errors.Is(err, services.ErrInvalidQuantity):
		c.Status(fiber.StatusBadRequest)
		return productPage(c, p, "Quantity must be at least 1")
	}
	c.Status(fiber.StatusBadGateway)
	return productPage(c, p, err.Error())
}

// POST /cart/:itemId/update
func (h *CartHandler) Update(c *fiber.Ctx) error {
	v := visitor(c)
	id, ok := validate.ID(c.Params("itemId"))
	if !ok {
		return c.Redirect("/cart")
	}
	err := v.Cart.Update(c.UserContext(), id, validate.Qty(c.FormValue("qty")))
	switch {
	case err == nil, errors.Is(err, services.ErrInvalidQuantity):
		return c.Redirect("/cart")
	}
	c.Status(fiber.StatusBadGateway)
	return cartPage(c, v, "")
}

// POST /cart/:itemId/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	v := visitor(c)
	id, ok := validate.ID(c.Params("itemId"))
	if !ok {
		return c.Redirect("/cart")
	}
	if err := v.Cart.Remove(c.UserContext(), id); err != nil {
		c.Status(fiber.StatusBadGateway)
		return cartPage(c, v, "")
	}
	return c.Redirect("/cart")
}
