package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"shopcore/internal/http/handlers"
	"shopcore/internal/metrics"
)

const testSecret = "handlers-test-secret"

func newApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// A :memory: database exists per connection; keep the pool at one so
	// every request sees the same database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema := `
	CREATE TABLE categories(id TEXT PRIMARY KEY, name TEXT NOT NULL, created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, category_id TEXT NOT NULL, name TEXT NOT NULL, description TEXT,
	  price NUMERIC NOT NULL CHECK (price >= 0), stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	  image_url TEXT, active INTEGER NOT NULL DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE cart_items(user_id TEXT NOT NULL, product_id TEXT NOT NULL, qty INTEGER NOT NULL CHECK (qty >= 1),
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT, PRIMARY KEY (user_id, product_id));
	CREATE TABLE orders(id TEXT PRIMARY KEY, order_no TEXT NOT NULL UNIQUE, user_id TEXT NOT NULL,
	  total NUMERIC NOT NULL, status TEXT NOT NULL DEFAULT 'pending',
	  receiver_name TEXT NOT NULL, receiver_phone TEXT NOT NULL, receiver_address TEXT NOT NULL,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE order_items(order_id TEXT NOT NULL, product_id TEXT NOT NULL, qty INTEGER NOT NULL,
	  price NUMERIC NOT NULL, PRIMARY KEY (order_id, product_id));
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, name TEXT NOT NULL,
	  password_hash TEXT NOT NULL, role TEXT NOT NULL,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);

	INSERT INTO categories(id,name) VALUES ('electronics','Electronics');
	INSERT INTO products(id,category_id,name,description,price,stock) VALUES
	  ('prod-1','electronics','Widget','','10.00',20),
	  ('prod-2','electronics','Gadget','','5.00',20);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}

	m := metrics.NewServerMetrics(prometheus.NewRegistry())
	app := fiber.New()
	handlers.Register(app, handlers.NewDeps(db, testSecret, m))
	return app, db
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decoding body: %v", method, path, err)
	}
	return resp.StatusCode, env
}

// register + login, returning a bearer token for the new user.
func signup(t *testing.T, app *fiber.App, email, name string) string {
	t.Helper()
	const password = "Passw0rd1"
	status, env := do(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": email, "name": name, "password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("register %s: status %d (%s)", email, status, env.Message)
	}
	status, env = do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": email, "password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d (%s)", email, status, env.Message)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Token == "" {
		t.Fatal("login returned no token")
	}
	return data.Token
}

func promote(t *testing.T, db *sqlx.DB, email string) {
	t.Helper()
	if _, err := db.Exec(`UPDATE users SET role='ADMIN' WHERE email=?`, email); err != nil {
		t.Fatal(err)
	}
}

var testReceiver = fiber.Map{
	"receiverName":    "Alice",
	"receiverPhone":   "555-0100",
	"receiverAddress": "1 Main St",
}

func TestAuthRequired(t *testing.T) {
	app, _ := newApp(t)

	status, _ := do(t, app, http.MethodGet, "/api/cart", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", status)
	}
	status, _ = do(t, app, http.MethodGet, "/api/cart", "garbage-token", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("bad token: want 401, got %d", status)
	}

	// Public catalog stays open.
	status, _ = do(t, app, http.MethodGet, "/api/products", "", nil)
	if status != http.StatusOK {
		t.Fatalf("public products: want 200, got %d", status)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice@example.com", "Alice")

	status, _ := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "WrongPass1",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", status)
	}
}

func TestOrderFlowOverHTTP(t *testing.T) {
	app, db := newApp(t)
	alice := signup(t, app, "alice@example.com", "Alice")
	bob := signup(t, app, "bob@example.com", "Bob")
	admin := signup(t, app, "admin@example.com", "Admin")
	promote(t, db, "admin@example.com")
	// Tokens carry the role; reissue after promotion.
	status, env := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "admin@example.com", "password": "Passw0rd1",
	})
	if status != http.StatusOK {
		t.Fatalf("admin relogin: %d", status)
	}
	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &loginData); err != nil {
		t.Fatal(err)
	}
	admin = loginData.Token

	// Fill the cart and place the order.
	if status, env := do(t, app, http.MethodPost, "/api/cart", alice, fiber.Map{"productId": "prod-1", "qty": 2}); status != http.StatusOK {
		t.Fatalf("cart add: %d (%s)", status, env.Message)
	}
	status, env = do(t, app, http.MethodPost, "/api/orders", alice, testReceiver)
	if status != http.StatusOK {
		t.Fatalf("place order: %d (%s)", status, env.Message)
	}
	var order struct {
		ID      string `json:"id"`
		OrderNo string `json:"orderNo"`
		Status  string `json:"status"`
		Total   string `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatal(err)
	}
	if order.Status != "pending" {
		t.Fatalf("want pending, got %s", order.Status)
	}
	total, err := decimal.NewFromString(order.Total)
	if err != nil || !total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("want total 20, got %q", order.Total)
	}

	// Owner sees it; a stranger gets 404, not 403.
	if status, _ := do(t, app, http.MethodGet, "/api/orders/"+order.ID, alice, nil); status != http.StatusOK {
		t.Fatalf("owner detail: %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/orders/"+order.ID, bob, nil); status != http.StatusNotFound {
		t.Fatalf("stranger detail: want 404, got %d", status)
	}

	// Pay, admin ships, owner confirms receipt.
	if status, env := do(t, app, http.MethodPost, "/api/orders/pay/"+order.OrderNo, alice, nil); status != http.StatusOK {
		t.Fatalf("pay: %d (%s)", status, env.Message)
	}
	if status, env := do(t, app, http.MethodPut, "/api/admin/orders/"+order.ID, admin, fiber.Map{"status": "shipped"}); status != http.StatusOK {
		t.Fatalf("ship: %d (%s)", status, env.Message)
	}
	if status, env := do(t, app, http.MethodPost, "/api/orders/"+order.ID+"/complete", alice, nil); status != http.StatusOK {
		t.Fatalf("complete: %d (%s)", status, env.Message)
	}

	// Completed is terminal.
	if status, _ := do(t, app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", alice, nil); status != http.StatusBadRequest {
		t.Fatalf("cancel after complete: want 400, got %d", status)
	}
}

func TestAdminSurfaceForbiddenForUsers(t *testing.T) {
	app, _ := newApp(t)
	alice := signup(t, app, "alice@example.com", "Alice")

	status, env := do(t, app, http.MethodGet, "/api/admin/orders", alice, nil)
	if status != http.StatusForbidden {
		t.Fatalf("want 403, got %d (%s)", status, env.Message)
	}
}

func TestAdminStatusPayloadValidation(t *testing.T) {
	app, db := newApp(t)
	admin := signup(t, app, "admin@example.com", "Admin")
	promote(t, db, "admin@example.com")
	status, env := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "admin@example.com", "password": "Passw0rd1",
	})
	if status != http.StatusOK {
		t.Fatal("admin relogin failed")
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	admin = data.Token

	status, env = do(t, app, http.MethodPut, "/api/admin/orders/some-id", admin, fiber.Map{"status": "teleported"})
	if status != http.StatusBadRequest {
		t.Fatalf("want 400, got %d (%s)", status, env.Message)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	app, db := newApp(t)

	for _, tc := range []struct {
		stock  int
		status string
	}{
		{20, "IN_STOCK"},
		{3, "LOW_STOCK"},
		{0, "OUT_OF_STOCK"},
	} {
		if _, err := db.Exec(`UPDATE products SET stock=? WHERE id='prod-1'`, tc.stock); err != nil {
			t.Fatal(err)
		}
		status, env := do(t, app, http.MethodGet, "/api/products/prod-1/availability", "", nil)
		if status != http.StatusOK {
			t.Fatalf("availability: %d", status)
		}
		var data struct {
			Status string `json:"status"`
			Qty    int    `json:"qty"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.Status != tc.status || data.Qty != tc.stock {
			t.Fatalf("stock %d: got %+v", tc.stock, data)
		}
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	app, _ := newApp(t)
	alice := signup(t, app, "alice@example.com", "Alice")

	// Empty cart.
	status, env := do(t, app, http.MethodPost, "/api/orders", alice, testReceiver)
	if status != http.StatusBadRequest {
		t.Fatalf("empty cart: want 400, got %d (%s)", status, env.Message)
	}

	// Missing receiver info.
	status, _ = do(t, app, http.MethodPost, "/api/orders", alice, fiber.Map{"receiverName": "Alice"})
	if status != http.StatusBadRequest {
		t.Fatalf("missing receiver: want 400, got %d", status)
	}

	// Direct order beyond stock.
	status, env = do(t, app, http.MethodPost, "/api/orders/direct", alice, fiber.Map{
		"productId":       "prod-2",
		"qty":             999,
		"receiverName":    "Alice",
		"receiverPhone":   "555-0100",
		"receiverAddress": "1 Main St",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("over stock: want 400, got %d (%s)", status, env.Message)
	}
	if env.Message == "" {
		t.Fatal("error detail missing")
	}
}
