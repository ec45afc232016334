package repos_test

import (
	"errors"
	"testing"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

func TestCartUpsertAndItems(t *testing.T) {
	db := memdb(t)
	r := repos.NewCartRepo(db)

	if err := r.Upsert("u-alice", "phone-001", 2); err != nil {
		t.Fatal(err)
	}
	// Adding the same product again accumulates quantity.
	if err := r.Upsert("u-alice", "phone-001", 1); err != nil {
		t.Fatal(err)
	}

	items, err := r.Items("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Qty != 3 {
		t.Fatalf("want one line with qty 3, got %+v", items)
	}
	if items[0].ProductName != "Budget Phone" || !items[0].ProductPrice.Equal(price("199.99")) {
		t.Fatalf("joined product data missing: %+v", items[0])
	}
}

func TestCartSetQtyAndRemove(t *testing.T) {
	db := memdb(t)
	r := repos.NewCartRepo(db)

	if err := r.SetQty("u-alice", "phone-001", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("SetQty on missing line: want ErrNotFound, got %v", err)
	}

	if err := r.Upsert("u-alice", "phone-001", 2); err != nil {
		t.Fatal(err)
	}
	if err := r.SetQty("u-alice", "phone-001", 5); err != nil {
		t.Fatal(err)
	}
	items, _ := r.Items("u-alice")
	if items[0].Qty != 5 {
		t.Fatalf("want qty 5, got %d", items[0].Qty)
	}

	if err := r.Remove("u-alice", "phone-001"); err != nil {
		t.Fatal(err)
	}
	if err := r.Remove("u-alice", "phone-001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("double remove: want ErrNotFound, got %v", err)
	}
}

func TestCartClearTxScopedToUser(t *testing.T) {
	db := memdb(t)
	r := repos.NewCartRepo(db)

	if err := r.Upsert("u-alice", "phone-001", 1); err != nil {
		t.Fatal(err)
	}
	if err := r.Upsert("u-admin", "phone-001", 1); err != nil {
		t.Fatal(err)
	}

	tx := db.MustBegin()
	if err := r.ClearTx(tx, "u-alice"); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	alice, _ := r.Items("u-alice")
	admin, _ := r.Items("u-admin")
	if len(alice) != 0 || len(admin) != 1 {
		t.Fatalf("clear leaked across users: alice=%d admin=%d", len(alice), len(admin))
	}
}
