package devapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stridecart/internal/apiclient"
	"stridecart/internal/devapi"
	"stridecart/internal/devapi/repos"
	"stridecart/internal/domain"
)

func newApp(t *testing.T, opts devapi.Options) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	if opts.JWTSecret == "" {
		opts.JWTSecret = "test-secret"
	}
	opts.MediaDir = t.TempDir()
	app, err := devapi.NewApp(db, opts)
	require.NoError(t, err)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := call(t, app, "POST", "/api/auth/login", "", domain.Credentials{Email: email, Password: "Passw0rd!"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var sess domain.Session
	require.NoError(t, json.Unmarshal(body, &sess))
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func message(t *testing.T, body []byte) string {
	t.Helper()
	var m struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &m), string(body))
	return m.Message
}

func cartItems(t *testing.T, body []byte) []domain.CartItem {
	t.Helper()
	var env struct {
		Items []domain.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env.Items
}

func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var hashes []string
	require.NoError(t, db.Select(&hashes, `SELECT password_hash FROM users`))
	require.NotEmpty(t, hashes)
	for _, h := range hashes {
		assert.NotContains(t, h, "Passw0rd!")
		assert.True(t, strings.HasPrefix(h, "$2"), h)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")))
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app := newApp(t, devapi.Options{LoginLimit: 2, LoginWindow: time.Minute})

	resp, body := call(t, app, "POST", "/api/auth/login", "", domain.Credentials{Email: "ann@stridecart.test", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", message(t, body))

	resp, body = call(t, app, "POST", "/api/auth/login", "", domain.Credentials{Email: "ANN@stridecart.test", Password: "Passw0rd!"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess domain.Session
	require.NoError(t, json.Unmarshal(body, &sess))
	assert.Equal(t, domain.RoleCustomer, sess.User.Role)

	resp, _ = call(t, app, "POST", "/api/auth/login", "", domain.Credentials{Email: "ann@stridecart.test", Password: "wrong"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	app := newApp(t, devapi.Options{})

	resp, body := call(t, app, "POST", "/api/auth/register", "", domain.Registration{Name: "Cleo", Email: "cleo@stridecart.test", Password: "weak"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, message(t, body), "Password")

	resp, body = call(t, app, "POST", "/api/auth/register", "", domain.Registration{Name: "Cleo", Email: "cleo@stridecart.test", Password: "Str1de!pass"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, app, "POST", "/api/auth/register", "", domain.Registration{Name: "Cleo", Email: "cleo@stridecart.test", Password: "Str1de!pass"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email is already registered", message(t, body))
}

func TestCartRequiresValidToken(t *testing.T) {
	app := newApp(t, devapi.Options{})
	resp, body := call(t, app, "GET", "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Please sign in", message(t, body))

	resp, _ = call(t, app, "GET", "/api/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other := devapi.NewTokens("other-secret", time.Hour)
	forged, err := other.Issue(domain.User{ID: "u-ann", Role: domain.RoleCustomer})
	require.NoError(t, err)
	resp, _ = call(t, app, "GET", "/api/cart", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	app := newApp(t, devapi.Options{})
	tok := login(t, app, "ann@stridecart.test")

	resp, body := call(t, app, "GET", "/api/cart", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"items":[]}`, string(body))

	add := domain.AddToCart{ProductID: "trail-blazer-02", Quantity: 2, Size: 9.5}
	_, body = call(t, app, "POST", "/api/cart/add", tok, add)
	_, body = call(t, app, "POST", "/api/cart/add", tok, domain.AddToCart{ProductID: "trail-blazer-02", Quantity: 1, Size: 9.5})
	items := cartItems(t, body)
	require.Len(t, items, 1, "same product and size share a line")
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Trail Blazer", items[0].Product.Name)

	resp, body = call(t, app, "POST", "/api/cart/add", tok, domain.AddToCart{ProductID: "trail-blazer-02", Quantity: 1, Size: 12})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please select an available size", message(t, body))

	resp, body = call(t, app, "POST", "/api/cart/add", tok, domain.AddToCart{ProductID: "court-classic-03", Quantity: 1, Size: 7})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Not enough stock", message(t, body))

	id := items[0].ID
	resp, body = call(t, app, "PUT", "/api/cart/update/"+id, tok, map[string]int{"quantity": 99})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Not enough stock", message(t, body))

	_, body = call(t, app, "PUT", "/api/cart/update/"+id, tok, map[string]int{"quantity": 1})
	assert.Equal(t, 1, cartItems(t, body)[0].Quantity)

	// another customer cannot touch the line
	ben := login(t, app, "ben@stridecart.test")
	resp, _ = call(t, app, "DELETE", "/api/cart/remove/"+id, ben, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, app, "DELETE", "/api/cart/remove/"+id, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, cartItems(t, body))
}

func TestManagerOnlyRoutes(t *testing.T) {
	app := newApp(t, devapi.Options{})
	cust := login(t, app, "ann@stridecart.test")
	mgr := login(t, app, "manager@stridecart.test")

	resp, body := call(t, app, "GET", "/api/users", cust, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Manager access required", message(t, body))

	resp, _ = call(t, app, "DELETE", "/api/products/air-runner-01", cust, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, app, "GET", "/api/users", mgr, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []domain.User
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 3)

	resp, body = call(t, app, "PUT", "/api/users/u-ben", mgr, map[string]string{"name": "Ben", "email": "ben@stridecart.test", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, _ = call(t, app, "PUT", "/api/users/u-ben", mgr, domain.CustomerUpdate{Name: "Benjamin", Email: "ben@stridecart.test", Role: domain.RoleManager})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, "DELETE", "/api/users/u-manager", mgr, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You cannot delete your own account", message(t, body))

	resp, _ = call(t, app, "DELETE", "/api/users/u-ann", mgr, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, "GET", "/api/cart", cust, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "deleted accounts lose access")
}

func productForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, data := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte(data))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestProductCreateWithUpload(t *testing.T) {
	app := newApp(t, devapi.Options{})
	mgr := login(t, app, "manager@stridecart.test")

	body, ct := productForm(t, map[string]string{
		"name": "Hill Climber", "brand": "Summit", "price": "139.5", "stock": "4",
		"size": "8,9.5,10", "category": "Trail",
	}, map[string]string{"climber.png": "\x89PNG fake"})
	req := httptest.NewRequest("POST", "/api/products", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+mgr)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var p domain.Product
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, []float64{8, 9.5, 10}, p.Sizes)
	require.Len(t, p.Images, 1)
	assert.True(t, strings.HasPrefix(p.Images[0], "uploads/"))

	resp, img := call(t, app, "GET", "/"+p.Images[0], "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "\x89PNG fake", string(img))

	resp, _ = call(t, app, "GET", "/uploads/..%2f..%2fetc/passwd", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// update without images keeps the stored one
	body, ct = productForm(t, map[string]string{"name": "Hill Climber 2", "price": "120", "stock": "4", "size": "9"}, nil)
	req = httptest.NewRequest("PUT", "/api/products/"+p.ID, body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+mgr)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated domain.Product
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, p.Images, updated.Images)
	assert.Equal(t, 120.0, updated.Price)

	body, ct = productForm(t, map[string]string{"name": "Bad", "price": "1", "stock": "1"}, map[string]string{"run.exe": "MZ"})
	req = httptest.NewRequest("POST", "/api/products", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+mgr)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductSearchAndMissing(t *testing.T) {
	app := newApp(t, devapi.Options{})
	_, body := call(t, app, "GET", "/api/products?search=running", "", nil)
	var ps []domain.Product
	require.NoError(t, json.Unmarshal(body, &ps))
	require.Len(t, ps, 2)
	assert.Equal(t, "tempo-racer-05", ps[0].ID, "newest first")

	resp, body := call(t, app, "GET", "/api/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", message(t, body))
}

func TestChat(t *testing.T) {
	app := newApp(t, devapi.Options{})
	_, body := call(t, app, "POST", "/api/chat", "", map[string]string{"message": "How much is shipping?"})
	assert.Contains(t, string(body), "free on orders of $100")

	_, body = call(t, app, "POST", "/api/chat", "", map[string]string{"message": "any trail shoes?"})
	assert.Contains(t, string(body), "Trail Blazer")

	resp, _ := call(t, app, "POST", "/api/chat", "", map[string]string{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type token struct{ v string }

func (t *token) Token() string { return t.v }

func TestClientAgainstDevAPI(t *testing.T) {
	app := newApp(t, devapi.Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	ctx := context.Background()
	tok := &token{}
	c := apiclient.New("http://"+ln.Addr().String()+"/api", tok)

	_, err = c.GetCart(ctx)
	var se *apiclient.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "Please sign in", apiclient.Message(err, "Failed to fetch cart"))

	sess, err := c.Login(ctx, domain.Credentials{Email: "ann@stridecart.test", Password: "Passw0rd!"})
	require.NoError(t, err)
	tok.v = sess.Token

	items, err := c.AddToCart(ctx, domain.AddToCart{ProductID: "air-runner-01", Quantity: 2, Size: 9})
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = c.UpdateCartItem(ctx, items[0].ID, 500)
	assert.Equal(t, "Not enough stock", apiclient.Message(err, "Failed to update cart"))

	reply, err := c.SendChat(ctx, "what sizes fit?")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}
