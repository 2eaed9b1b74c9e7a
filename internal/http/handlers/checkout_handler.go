package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "stridecart/internal/log"
	"stridecart/internal/services"
	"stridecart/internal/view"
)

type CheckoutHandler struct{}

func checkoutPage(c *fiber.Ctx, v *services.Visitor, p services.Payment, errs services.FieldErrors) error {
	snap := v.Store.Cart.Snapshot()
	return render(c, "checkout", fiber.Map{
		"Items":   snap.Data,
		"Totals":  view.CartTotals(snap.Data),
		"Payment": p,
		"Errors":  errs,
		"Err":     snap.Err,
	})
}

// GET /checkout
func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	v := visitor(c)
	_ = v.Cart.Fetch(c.UserContext())
	if len(v.Store.Cart.Snapshot().Data) == 0 {
		return c.Redirect("/cart")
	}
	return checkoutPage(c, v, services.Payment{}, nil)
}

// POST /checkout runs the simulated payment. The cart is left untouched.
func (h *CheckoutHandler) Pay(c *fiber.Ctx) error {
	v := visitor(c)
	p := services.Payment{
		Name:   c.FormValue("name"),
		Number: view.FormatCardNumber(c.FormValue("number")),
		Expiry: view.FormatExpiry(c.FormValue("expiry")),
		CVV:    view.FormatCVV(c.FormValue("cvv")),
	}
	receipt, err := v.Checkout.Pay(c.UserContext(), v.Store.Cart.Snapshot().Data, p)
	var fe services.FieldErrors
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return c.Redirect("/cart")
	case errors.As(err, &fe):
		c.Status(fiber.StatusBadRequest)
		return checkoutPage(c, v, p, fe)
	case err != nil:
		return err
	}
	applog.Audit(c, "checkout.pay", map[string]any{"receipt": receipt.ID, "total": receipt.Total.StringFixed(2)})
	return render(c, "checkout_success", fiber.Map{"Receipt": receipt})
}
