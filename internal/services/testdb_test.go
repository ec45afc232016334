package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"shopcore/internal/repos"
	"shopcore/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// A :memory: database exists per connection; keep the pool at one so
	// every query and every goroutine sees the same database.
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
	  ('prod-2','electronics','Gadget','','5.00',20),
	  ('prod-last','electronics','Last One','','99.00',1);
	INSERT INTO users(id,email,name,password_hash,role) VALUES
	  ('u-alice','alice@test','Alice','x','USER'),
	  ('u-bob','bob@test','Bob','x','USER'),
	  ('u-admin','admin@test','Admin','x','ADMIN');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

type fixture struct {
	db     *sqlx.DB
	carts  *repos.CartRepo
	inv    *repos.InventoryRepo
	orders *repos.OrderRepo
	prods  *repos.ProductRepo

	cartSvc  *services.CartService
	orderSvc *services.OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb(t)
	f := &fixture{
		db:     db,
		carts:  repos.NewCartRepo(db),
		inv:    repos.NewInventoryRepo(db),
		orders: repos.NewOrderRepo(db),
		prods:  repos.NewProductRepo(db),
	}
	f.cartSvc = services.NewCartService(f.carts, f.prods)
	f.orderSvc = services.NewOrderService(db, f.carts, f.inv, f.orders, f.prods)
	return f
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	qty, err := f.inv.Stock(productID)
	if err != nil {
		t.Fatal(err)
	}
	return qty
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
