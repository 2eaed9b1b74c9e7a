package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"stridecart/internal/domain"
	applog "stridecart/internal/log"
	"stridecart/internal/services"
	"stridecart/internal/validate"
)

const maxImageBytes = 5 << 20

// formError is a form problem shown to the manager as is.
type formError string

func (e formError) Error() string { return string(e) }

type ManagerHandler struct{}

func dashboard(c *fiber.Ctx, v *services.Visitor, alert string, edit *domain.Product) error {
	snap := v.Store.Catalog.List.Snapshot()
	return render(c, "manager_dashboard", fiber.Map{
		"Products": snap.Data,
		"Err":      snap.Err,
		"Alert":    alert,
		"Edit":     edit,
		"Notice":   c.Query("notice"),
	})
}

// GET /manager?edit=<id>
func (h *ManagerHandler) Dashboard(c *fiber.Ctx) error {
	v := visitor(c)
	_ = v.Catalog.List(c.UserContext(), "")
	var edit *domain.Product
	if id := c.Query("edit"); id != "" {
		for _, p := range v.Store.Catalog.List.Snapshot().Data {
			if p.ID == id {
				p := p
				edit = &p
				break
			}
		}
	}
	return dashboard(c, v, "", edit)
}

// POST /manager/products creates a product, or updates it when the form
// carries an id.
func (h *ManagerHandler) SaveProduct(c *fiber.Ctx) error {
	v := visitor(c)
	form, err := productForm(c)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return dashboard(c, v, err.Error(), nil)
	}
	if err := v.Manager.SaveProduct(c.UserContext(), form); err != nil {
		applog.Error(c, "manager.products.save.fail", err, map[string]any{"product": form.ID})
		c.Status(fiber.StatusBadGateway)
		return dashboard(c, v, err.Error(), nil)
	}
	applog.Audit(c, "manager.products.save", map[string]any{"product": form.ID, "name": form.Name})
	return c.Redirect("/manager")
}

// POST /manager/products/:id/delete
func (h *ManagerHandler) DeleteProduct(c *fiber.Ctx) error {
	v := visitor(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/manager")
	}
	if err := v.Manager.DeleteProduct(c.UserContext(), id); err != nil {
		applog.Error(c, "manager.products.delete.fail", err, map[string]any{"product": id})
		c.Status(fiber.StatusBadGateway)
		return dashboard(c, v, err.Error(), nil)
	}
	applog.Audit(c, "manager.products.delete", map[string]any{"product": id})
	return c.Redirect("/manager")
}

// GET /manager/products.xlsx
func (h *ManagerHandler) Export(c *fiber.Ctx) error {
	v := visitor(c)
	if err := v.Catalog.List(c.UserContext(), ""); err != nil {
		c.Status(fiber.StatusBadGateway)
		return dashboard(c, v, err.Error(), nil)
	}
	var buf bytes.Buffer
	if err := writeCatalogSheet(&buf, v.Store.Catalog.List.Snapshot().Data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	applog.Audit(c, "manager.products.export", nil)
	return c.Send(buf.Bytes())
}

// POST /manager/products/import saves every usable row of an uploaded
// sheet, one product at a time, and stops at the first backend failure.
func (h *ManagerHandler) Import(c *fiber.Ctx) error {
	v := visitor(c)
	fh, err := c.FormFile("sheet")
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return dashboard(c, v, "Choose a spreadsheet to import", nil)
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	forms, skipped, err := readCatalogSheet(f, fh.Size)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return dashboard(c, v, "The file is not a readable spreadsheet", nil)
	}
	saved := 0
	for _, form := range forms {
		if err := v.Manager.SaveProduct(c.UserContext(), form); err != nil {
			c.Status(fiber.StatusBadGateway)
			return dashboard(c, v, fmt.Sprintf("%s (saved %d of %d)", err.Error(), saved, len(forms)), nil)
		}
		saved++
	}
	applog.Audit(c, "manager.products.import", map[string]any{"saved": saved, "skipped": skipped})
	return c.Redirect("/manager?notice=" + url.QueryEscape(fmt.Sprintf("Imported %d products, skipped %d", saved, skipped)))
}

// productForm reads the dashboard's multipart product form.
func productForm(c *fiber.Ctx) (domain.ProductForm, error) {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return domain.ProductForm{}, formError("Product name is required")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil || price < 0 {
		return domain.ProductForm{}, formError("Price must be zero or more")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil || stock < 0 {
		return domain.ProductForm{}, formError("Stock must be zero or more")
	}
	form := domain.ProductForm{
		ID:          strings.TrimSpace(c.FormValue("id")),
		Name:        name,
		Brand:       strings.TrimSpace(c.FormValue("brand")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Price:       price,
		Stock:       stock,
		Sizes:       parseSizes(c.FormValue("size")),
		Category:    strings.TrimSpace(c.FormValue("category")),
	}
	mf, err := c.MultipartForm()
	if err != nil {
		return form, nil
	}
	form.KeepImages = mf.Value["keep"]
	for _, fh := range mf.File["images"] {
		up, err := readUpload(fh)
		if err != nil {
			return domain.ProductForm{}, err
		}
		form.Images = append(form.Images, up)
	}
	return form, nil
}

func readUpload(fh *multipart.FileHeader) (domain.Upload, error) {
	if fh.Size > maxImageBytes {
		return domain.Upload{}, fmt.Errorf("%s is larger than 5 MB", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return domain.Upload{}, err
	}
	return domain.Upload{Filename: fh.Filename, Data: data}, nil
}

func customersPage(c *fiber.Ctx, v *services.Visitor, alert string) error {
	snap := v.Store.Customers.Snapshot()
	return render(c, "manager_customers", fiber.Map{
		"Customers": snap.Data,
		"Err":       snap.Err,
		"Alert":     alert,
		"Roles":     []domain.Role{domain.RoleCustomer, domain.RoleManager},
	})
}

// GET /manager/customers
func (h *ManagerHandler) Customers(c *fiber.Ctx) error {
	v := visitor(c)
	_ = v.Manager.ListCustomers(c.UserContext())
	return customersPage(c, v, "")
}

// POST /manager/customers/:id
func (h *ManagerHandler) UpdateCustomer(c *fiber.Ctx) error {
	v := visitor(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/manager/customers")
	}
	role, err := domain.ParseRole(c.FormValue("role"))
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return customersPage(c, v, "Role must be customer or manager")
	}
	upd := domain.CustomerUpdate{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Email: strings.TrimSpace(c.FormValue("email")),
		Role:  role,
	}
	if err := v.Manager.UpdateCustomer(c.UserContext(), id, upd); err != nil {
		c.Status(fiber.StatusBadGateway)
		return customersPage(c, v, err.Error())
	}
	applog.Audit(c, "manager.customers.update", map[string]any{"target": id, "role": role.String()})
	return c.Redirect("/manager/customers")
}

// POST /manager/customers/:id/delete
func (h *ManagerHandler) DeleteCustomer(c *fiber.Ctx) error {
	v := visitor(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/manager/customers")
	}
	if err := v.Manager.DeleteCustomer(c.UserContext(), id); err != nil {
		c.Status(fiber.StatusBadGateway)
		return customersPage(c, v, err.Error())
	}
	applog.Audit(c, "manager.customers.delete", map[string]any{"target": id})
	return c.Redirect("/manager/customers")
}
