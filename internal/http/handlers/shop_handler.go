package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"stridecart/internal/apiclient"
	"stridecart/internal/domain"
	applog "stridecart/internal/log"
	"stridecart/internal/services"
	"stridecart/internal/validate"
	"stridecart/internal/view"
)

type ShopHandler struct{}

// GET /
func (h *ShopHandler) Home(c *fiber.Ctx) error {
	v := visitor(c)
	ctx := c.UserContext()

	// failures land in the slices; the page renders whatever they hold
	var g errgroup.Group
	g.Go(func() error { _ = v.Catalog.List(ctx, ""); return nil })
	if v.Session.User() != nil {
		g.Go(func() error { _ = v.Cart.Fetch(ctx); return nil })
	}
	_ = g.Wait()

	snap := v.Store.Catalog.List.Snapshot()
	featured := view.Sort(snap.Data, view.SortNewest)
	if len(featured) > 4 {
		featured = featured[:4]
	}
	return render(c, "home", fiber.Map{
		"Featured":  featured,
		"Err":       snap.Err,
		"Threshold": view.FreeShippingThreshold,
	})
}

// GET /products?search=&category=&min=&max=&sort=
func (h *ShopHandler) Products(c *fiber.Ctx) error {
	v := visitor(c)
	search, ok := validate.Q(c.Query("search"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		search = ""
	}
	_ = v.Catalog.List(c.UserContext(), search)

	snap := v.Store.Catalog.List.Snapshot()
	var cats []string
	for _, b := range c.Context().QueryArgs().PeekMulti("category") {
		cats = append(cats, string(b))
	}
	f := view.Filter{
		Categories: cats,
		Min:        view.ParseBound(c.Query("min")),
		Max:        view.ParseBound(c.Query("max")),
	}
	order := view.ParseSort(c.Query("sort"))
	return render(c, "products", fiber.Map{
		"Products":   view.Sort(f.Apply(snap.Data), order),
		"Categories": view.Categories(snap.Data),
		"Selected":   cats,
		"Search":     search,
		"Min":        c.Query("min"),
		"Max":        c.Query("max"),
		"Sort":       string(order),
		"Err":        snap.Err,
	})
}

// GET /products/:id
func (h *ShopHandler) Product(c *fiber.Ctx) error {
	v := visitor(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This item is no longer available")
	}
	err := v.Catalog.Get(c.UserContext(), id)
	// the detail lane only lives for this page
	defer v.Catalog.ClearFocused()

	if err != nil {
		return focusFailed(c, v, err)
	}
	return productPage(c, v.Store.Catalog.Focused.Snapshot().Data, c.Query("notice"))
}

// focusFailed renders a failed product fetch: a missing product is a 404,
// anything else shows the focused lane's error as a bad gateway.
func focusFailed(c *fiber.Ctx, v *services.Visitor, err error) error {
	var se *apiclient.ServerError
	if errors.As(err, &se) && se.Status == fiber.StatusNotFound {
		return notFound(c, "This item is no longer available")
	}
	c.Status(fiber.StatusBadGateway)
	return render(c, "notfound", fiber.Map{"Message": v.Store.Catalog.Focused.Snapshot().Err})
}

func productPage(c *fiber.Ctx, p *domain.Product, notice string) error {
	if p == nil {
		return notFound(c, "This item is no longer available")
	}
	return render(c, "product", fiber.Map{"P": p, "Notice": notice})
}
