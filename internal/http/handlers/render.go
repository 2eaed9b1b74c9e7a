package handlers

import (
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"stridecart/internal/domain"
	"stridecart/internal/view"
)

const layout = "layouts/main"

// NewEngine loads the storefront templates from dir with the view helpers
// registered. base is the origin relative image paths are resolved against.
func NewEngine(dir, base string) *html.Engine {
	engine := html.New(dir, ".html")
	funcs := template.FuncMap{
		"money":    view.Money,
		"price":    func(f float64) string { return view.Money(decimal.NewFromFloat(f)) },
		"image":    func(path string) string { return view.ImageURL(base, path) },
		"primary":  func(p domain.Product) string { return view.PrimaryImage(base, p) },
		"line":     func(it domain.CartItem) string { return view.Money(view.LineTotal(it)) },
		"size":     func(f float64) string { return decimal.NewFromFloat(f).String() },
		"joinSize": joinSizes,
		"has":      contains,
	}
	for name, fn := range funcs {
		engine.AddFunc(name, fn)
	}
	return engine
}

func joinSizes(sizes []float64) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, decimal.NewFromFloat(s).String())
	}
	return strings.Join(parts, ",")
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if v := visitor(c); v != nil {
		data["CartCount"] = cartCount(v.Store.Cart.Snapshot().Data)
	}
	// the CSRF middleware only sets Locals on some requests; the cookie has the same token
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data, layout)
}

func cartCount(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func notFound(c *fiber.Ctx, msg string) error {
	c.Status(fiber.StatusNotFound)
	return render(c, "notfound", fiber.Map{"Message": msg})
}
