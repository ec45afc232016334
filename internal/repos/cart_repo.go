package repos

import (
	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

const cartCols = `
  ci.user_id, ci.product_id, ci.qty, ci.created_at, COALESCE(ci.updated_at,'') AS updated_at,
  p.name AS product_name, p.price AS product_price, p.stock AS product_stock,
  p.active AS product_active`

// Upsert adds qty to an existing line or creates one.
func (r *CartRepo) Upsert(userID, productID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(user_id, product_id, qty)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, userID, productID, qty)
	return err
}

// SetQty replaces the quantity of an existing line.
func (r *CartRepo) SetQty(userID, productID string, qty int) error {
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND product_id = ?
	`, qty, userID, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepo) Remove(userID, productID string) error {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepo) Items(userID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.Select(&out, `
	  SELECT `+cartCols+`
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at, ci.product_id`, userID)
	return out, err
}

// ItemsTx is the cart snapshot read at order-creation time, taken inside
// the order transaction.
func (r *CartRepo) ItemsTx(tx *sqlx.Tx, userID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := tx.Select(&out, `
	  SELECT `+cartCols+`
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at, ci.product_id`, userID)
	return out, err
}

// ClearTx deletes the user's cart inside the order transaction, so a
// failed order leaves the cart untouched.
func (r *CartRepo) ClearTx(tx *sqlx.Tx, userID string) error {
	_, err := tx.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
