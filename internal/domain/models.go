package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Product struct {
	ID          string          `db:"id" json:"id"`
	CategoryID  string          `db:"category_id" json:"categoryId"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	ImageURL    string          `db:"image_url" json:"imageUrl"`
	Active      bool            `db:"active" json:"active"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt,omitempty"`
}

// CartItem is a user's pending line: one row per (user, product).
type CartItem struct {
	UserID    string `db:"user_id" json:"userId"`
	ProductID string `db:"product_id" json:"productId"`
	Qty       int    `db:"qty" json:"qty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`

	// Joined product columns for cart views and order creation.
	ProductName  string          `db:"product_name" json:"productName"`
	ProductPrice decimal.Decimal `db:"product_price" json:"productPrice"`
	ProductStock int             `db:"product_stock" json:"productStock"`
	ProductOn    bool            `db:"product_active" json:"productActive"`
}

// PageResult wraps an offset-paginated listing with a total computed
// over the same filtered set.
type PageResult[T any] struct {
	List     []T `json:"list"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
