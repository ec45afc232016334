package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,email,name,password_hash,role) VALUES(?,?,?,?,?)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role)
	return err
}

func (r *UserRepo) List() ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `SELECT id,email,name,password_hash,role FROM users ORDER BY email`)
	return out, err
}
