package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stridecart/internal/domain"
)

// ---------- Auth ----------

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	return c.auth(ctx, "auth.login", "/auth/login", creds)
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	return c.auth(ctx, "auth.register", "/auth/register", reg)
}

func (c *Client) auth(ctx context.Context, op, path string, in any) (*domain.Session, error) {
	p, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	body, err := c.call(ctx, op, http.MethodPost, path, nil, p)
	if err != nil {
		return nil, err
	}
	var out struct {
		User  *domain.User `json:"user"`
		Token string       `json:"token"`
	}
	if err := decode(op, body, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &ProtocolError{Op: op, Field: "user"}
	}
	if out.Token == "" {
		return nil, &ProtocolError{Op: op, Field: "token"}
	}
	return &domain.Session{User: *out.User, Token: out.Token}, nil
}

// ---------- Products ----------

func (c *Client) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	var q url.Values
	if search = strings.TrimSpace(search); search != "" {
		q = url.Values{"search": {search}}
	}
	body, err := c.call(ctx, "products.list", http.MethodGet, "/products", q, payload{})
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	if err := decode("products.list", body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	body, err := c.call(ctx, "products.get", http.MethodGet, "/products/"+url.PathEscape(id), nil, payload{})
	if err != nil {
		return nil, err
	}
	var p *domain.Product
	if err := decode("products.get", body, &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ProtocolError{Op: "products.get", Reason: "empty body"}
	}
	return p, nil
}

func (c *Client) CreateProduct(ctx context.Context, form domain.ProductForm) (*domain.Product, error) {
	return c.writeProduct(ctx, "products.create", http.MethodPost, "/products", form)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, form domain.ProductForm) (*domain.Product, error) {
	return c.writeProduct(ctx, "products.update", http.MethodPut, "/products/"+url.PathEscape(id), form)
}

// SaveProduct creates the product when form.ID is empty and updates it otherwise.
func (c *Client) SaveProduct(ctx context.Context, form domain.ProductForm) (*domain.Product, error) {
	if form.ID == "" {
		return c.CreateProduct(ctx, form)
	}
	return c.UpdateProduct(ctx, form.ID, form)
}

func (c *Client) writeProduct(ctx context.Context, op, method, path string, form domain.ProductForm) (*domain.Product, error) {
	p, err := productMultipart(form)
	if err != nil {
		return nil, err
	}
	body, err := c.call(ctx, op, method, path, nil, p)
	if err != nil {
		return nil, err
	}
	var out *domain.Product
	if err := decode(op, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.call(ctx, "products.delete", http.MethodDelete, "/products/"+url.PathEscape(id), nil, payload{})
	return err
}

func productMultipart(form domain.ProductForm) (payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	sizes := make([]string, 0, len(form.Sizes))
	for _, s := range form.Sizes {
		sizes = append(sizes, strconv.FormatFloat(s, 'f', -1, 64))
	}
	fields := [][2]string{
		{"name", form.Name},
		{"brand", form.Brand},
		{"description", form.Description},
		{"price", strconv.FormatFloat(form.Price, 'f', -1, 64)},
		{"stock", strconv.Itoa(form.Stock)},
		{"size", strings.Join(sizes, ",")},
		{"category", form.Category},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return payload{}, err
		}
	}
	for _, path := range form.KeepImages {
		if err := w.WriteField("images", path); err != nil {
			return payload{}, err
		}
	}
	for _, up := range form.Images {
		part, err := w.CreateFormFile("images", up.Filename)
		if err != nil {
			return payload{}, err
		}
		if _, err := part.Write(up.Data); err != nil {
			return payload{}, err
		}
	}
	if err := w.Close(); err != nil {
		return payload{}, err
	}
	return payload{body: &buf, contentType: w.FormDataContentType()}, nil
}

// ---------- Cart ----------

func (c *Client) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	return c.cart(ctx, "cart.get", http.MethodGet, "/cart", nil)
}

func (c *Client) AddToCart(ctx context.Context, in domain.AddToCart) ([]domain.CartItem, error) {
	return c.cart(ctx, "cart.add", http.MethodPost, "/cart/add", in)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) ([]domain.CartItem, error) {
	return c.cart(ctx, "cart.update", http.MethodPut, "/cart/update/"+url.PathEscape(itemID),
		map[string]int{"quantity": quantity})
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID string) ([]domain.CartItem, error) {
	return c.cart(ctx, "cart.remove", http.MethodDelete, "/cart/remove/"+url.PathEscape(itemID), nil)
}

// cart enforces that every cart answer carries an items array.
func (c *Client) cart(ctx context.Context, op, method, path string, in any) ([]domain.CartItem, error) {
	var p payload
	if in != nil {
		var err error
		if p, err = jsonBody(in); err != nil {
			return nil, err
		}
	}
	body, err := c.call(ctx, op, method, path, nil, p)
	if err != nil {
		return nil, err
	}
	var env domain.CartPayload
	if err := decode(op, body, &env); err != nil {
		return nil, err
	}
	if len(env.Items) == 0 || bytes.Equal(env.Items, []byte("null")) {
		return nil, &ProtocolError{Op: op, Field: "items"}
	}
	items := []domain.CartItem{}
	if err := json.Unmarshal(env.Items, &items); err != nil {
		return nil, &ProtocolError{Op: op, Field: "", Reason: "items: " + err.Error()}
	}
	return items, nil
}

// ---------- Customers ----------

func (c *Client) ListCustomers(ctx context.Context) ([]domain.User, error) {
	body, err := c.call(ctx, "users.list", http.MethodGet, "/users", nil, payload{})
	if err != nil {
		return nil, err
	}
	out := []domain.User{}
	if err := decode("users.list", body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, upd domain.CustomerUpdate) error {
	p, err := jsonBody(upd)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, "users.update", http.MethodPut, "/users/"+url.PathEscape(id), nil, p)
	return err
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	_, err := c.call(ctx, "users.delete", http.MethodDelete, "/users/"+url.PathEscape(id), nil, payload{})
	return err
}

// ---------- Chat ----------

func (c *Client) SendChat(ctx context.Context, message string) (string, error) {
	p, err := jsonBody(map[string]string{"message": message})
	if err != nil {
		return "", err
	}
	body, err := c.call(ctx, "chat.send", http.MethodPost, "/chat", nil, p)
	if err != nil {
		return "", err
	}
	var out struct {
		Response *string `json:"response"`
		Error    string  `json:"error"`
	}
	if err := decode("chat.send", body, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &ServerError{Op: "chat.send", Status: http.StatusOK, Message: out.Error}
	}
	if out.Response == nil {
		return "", &ProtocolError{Op: "chat.send", Field: "response"}
	}
	return strings.TrimSpace(*out.Response), nil
}
