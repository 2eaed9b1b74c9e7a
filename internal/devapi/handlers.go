package devapi

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"stridecart/internal/domain"
	applog "stridecart/internal/log"
	"stridecart/internal/validate"
)

type AuthHandler struct {
	Auth *AuthService
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in domain.Credentials
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	sess, err := h.Auth.Login(in.Email, in.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return err
	}
	c.Locals("user", &sess.User)
	applog.Audit(c, "auth.login.success", map[string]any{"email": sess.User.Email})
	return c.JSON(sess)
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in domain.Registration
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	sess, err := h.Auth.Register(in.Name, in.Email, in.Password)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"email": in.Email})
		return err
	}
	c.Locals("user", &sess.User)
	applog.Audit(c, "auth.register.success", map[string]any{"email": sess.User.Email})
	return c.Status(fiber.StatusCreated).JSON(sess)
}

type ProductHandler struct {
	Catalog *CatalogService
	Media   *Media
}

// GET /products?search=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("search"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		return c.JSON([]domain.Product{})
	}
	ps, err := h.Catalog.List(q)
	if err != nil {
		return err
	}
	return c.JSON(ps)
}

// GET /products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return ErrNotFound
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// POST /products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	p, err := h.form(c, true)
	if err != nil {
		return err
	}
	out, err := h.Catalog.Create(p)
	if err != nil {
		return err
	}
	applog.Audit(c, "products.create", map[string]any{"product": out.ID})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PUT /products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return ErrNotFound
	}
	p, err := h.form(c, false)
	if err != nil {
		return err
	}
	p.ID = id
	out, err := h.Catalog.Update(p)
	if err != nil {
		return err
	}
	applog.Audit(c, "products.update", map[string]any{"product": out.ID})
	return c.JSON(out)
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return ErrNotFound
	}
	if err := h.Catalog.Delete(id); err != nil {
		return err
	}
	applog.Audit(c, "products.delete", map[string]any{"product": id})
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// form reads the multipart product form: plain fields, "size" as a comma
// list, "images" values as kept paths and "images" files as new uploads.
// On update, a form without any images leaves Images nil.
func (h *ProductHandler) form(c *fiber.Ctx, create bool) (domain.Product, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return domain.Product{}, fiber.NewError(fiber.StatusBadRequest, "Expected a multipart form")
	}
	val := func(k string) string {
		if v := mf.Value[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	p := domain.Product{
		Name:        val("name"),
		Brand:       val("brand"),
		Description: val("description"),
		Category:    val("category"),
		Sizes:       []float64{},
	}
	if p.Price, err = strconv.ParseFloat(val("price"), 64); err != nil {
		return domain.Product{}, ErrProductPrice
	}
	if p.Stock, err = strconv.Atoi(val("stock")); err != nil {
		return domain.Product{}, ErrProductStock
	}
	for _, part := range strings.Split(val("size"), ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sz, ok := validate.Size(part)
		if !ok {
			return domain.Product{}, ErrSize
		}
		p.Sizes = append(p.Sizes, sz)
	}

	kept := mf.Value["images"]
	files := mf.File["images"]
	if create || len(kept) > 0 || len(files) > 0 {
		p.Images = []string{}
		for _, path := range kept {
			if path = strings.TrimSpace(path); path != "" {
				p.Images = append(p.Images, path)
			}
		}
		for _, fh := range files {
			url, err := h.save(c, fh)
			if err != nil {
				return domain.Product{}, err
			}
			p.Images = append(p.Images, url)
		}
	}
	return p, nil
}

func (h *ProductHandler) save(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	name, err := h.Media.Name(fh.Filename)
	if err != nil {
		applog.Security(c, "upload.reject", map[string]any{"file": fh.Filename})
		return "", err
	}
	if err := c.SaveFile(fh, h.Media.Path(name)); err != nil {
		return "", err
	}
	return h.Media.URL(name), nil
}

// GET /uploads/*
func (h *ProductHandler) Upload(c *fiber.Ctx) error {
	full, ok := h.Media.Resolve(c.Params("*"))
	if !ok {
		applog.Security(c, "media.traversal.block", map[string]any{"path": c.Params("*")})
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(full, true)
}

type CartHandler struct {
	Cart *CartService
}

func cartJSON(c *fiber.Ctx, items []domain.CartItem, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	items, err := h.Cart.View(currentUser(c).ID)
	return cartJSON(c, items, err)
}

// POST /cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in domain.AddToCart
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if _, ok := validate.ID(in.ProductID); !ok {
		return ErrNotFound
	}
	items, err := h.Cart.Add(currentUser(c).ID, in)
	return cartJSON(c, items, err)
}

// PUT /cart/update/:itemId
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	items, err := h.Cart.Update(currentUser(c).ID, c.Params("itemId"), in.Quantity)
	return cartJSON(c, items, err)
}

// DELETE /cart/remove/:itemId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	items, err := h.Cart.Remove(currentUser(c).ID, c.Params("itemId"))
	return cartJSON(c, items, err)
}

type UserHandler struct {
	Users *UserService
}

// GET /users
func (h *UserHandler) List(c *fiber.Ctx) error {
	us, err := h.Users.List()
	if err != nil {
		return err
	}
	return c.JSON(us)
}

// PUT /users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in domain.CustomerUpdate
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid customer details")
	}
	id := c.Params("id")
	if err := h.Users.Update(id, in); err != nil {
		return err
	}
	applog.Audit(c, "users.update", map[string]any{"target": id, "role": in.Role.String()})
	return c.JSON(fiber.Map{"message": "Customer updated"})
}

// DELETE /users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Users.Delete(currentUser(c), id); err != nil {
		return err
	}
	applog.Audit(c, "users.delete", map[string]any{"target": id})
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

type ChatHandler struct {
	Assistant *Assistant
}

// POST /chat answers {response} or, when the assistant fails, {error}.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var in struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&in); err != nil || strings.TrimSpace(in.Message) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Message is required")
	}
	reply, err := h.Assistant.Reply(in.Message)
	if err != nil {
		applog.Error(c, "chat.reply.fail", err, nil)
		return c.JSON(fiber.Map{"error": "The assistant is unavailable right now."})
	}
	return c.JSON(fiber.Map{"response": reply})
}
