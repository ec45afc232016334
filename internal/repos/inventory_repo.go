package repos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

// InventoryRepo is the only writer of products.stock. Reserve and Release
// take the caller's transaction so stock movement commits or rolls back
// together with the order rows that caused it.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Reserve atomically subtracts qty if enough stock exists. The conditional
// WHERE clause makes the check-and-decrement a single statement, so two
// concurrent reservations can never both succeed past the available stock.
func (r *InventoryRepo) Reserve(tx *sqlx.Tx, productID string, qty int) error {
	res, err := tx.Exec(`
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND active = 1 AND stock >= ?
	`, qty, productID, qty)
	if err != nil {
		return fmt.Errorf("reserve %s: %w", productID, err)
	}
	n, _ := res.RowsAffected()
	if n == 1 {
		return nil
	}

	// Nothing matched: distinguish a missing/inactive product from a
	// plain stock shortfall, still inside the caller's tx.
	var name string
	err = tx.Get(&name, `SELECT name FROM products WHERE id = ? AND active = 1`, productID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reserve %s: %w", productID, err)
	}
	return fmt.Errorf("%s: %w", name, domain.ErrInsufficientStock)
}

// Release unconditionally returns qty units to stock. The state machine
// guarantees it runs exactly once per reserved quantity (cancel is a
// one-way transition out of pending).
func (r *InventoryRepo) Release(tx *sqlx.Tx, productID string, qty int) error {
	res, err := tx.Exec(`
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if err != nil {
		return fmt.Errorf("release %s: %w", productID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("release %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}

// Stock reads the current stock level outside any reservation path.
func (r *InventoryRepo) Stock(productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock FROM products WHERE id = ?`, productID)
	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// SetStock replaces the stock level (admin restock). Not part of the
// reserve/release path.
func (r *InventoryRepo) SetStock(productID string, qty int) error {
	res, err := r.db.Exec(`
		UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, qty, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
