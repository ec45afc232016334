package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
	  SELECT id, name, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
	  SELECT id, name, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, err
}

func (r *CategoryRepo) Create(c domain.Category) error {
	_, err := r.db.Exec(`INSERT INTO categories(id, name) VALUES (?, ?)`, c.ID, c.Name)
	return err
}

func (r *CategoryRepo) Rename(id, name string) error {
	res, err := r.db.Exec(`
	  UPDATE categories SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete refuses to remove a category that still has products (FK RESTRICT
// would fail anyway; this returns a clean error first).
func (r *CategoryRepo) Delete(id string) error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE category_id = ?`, id); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrInvalidInput
	}
	res, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if m, _ := res.RowsAffected(); m == 0 {
		return domain.ErrNotFound
	}
	return nil
}
