package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, category_id, name, COALESCE(description,'') AS description, price, stock,
  COALESCE(image_url,'') AS image_url, active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

// GetTx reads a product inside an order-creation transaction so the price
// snapshot and the reservation see the same row.
func (r *ProductRepo) GetTx(tx *sqlx.Tx, id string) (domain.Product, error) {
	var p domain.Product
	err := tx.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

// Search lists active products filtered by keyword and category with
// offset pagination; total is computed over the same WHERE clause.
func (r *ProductRepo) Search(q, catID string, page, pageSize int) (domain.PageResult[domain.Product], error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}

	out := domain.PageResult[domain.Product]{Page: page, PageSize: pageSize, List: []domain.Product{}}
	if err := r.db.Get(&out.Total, `SELECT COUNT(*) FROM products WHERE `+where, args...); err != nil {
		return out, err
	}

	listArgs := append(args, pageSize, (page-1)*pageSize)
	err := r.db.Select(&out.List, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`, listArgs...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, category_id, name, description, price, stock, image_url, active)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.Active)
	return err
}

// Update rewrites the catalog fields. Stock is deliberately excluded:
// only InventoryRepo moves stock.
func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET category_id = ?, name = ?, description = ?, price = ?, image_url = ?,
	      active = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL, p.Active, p.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
