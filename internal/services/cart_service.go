package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

func (s *CartService) Add(userID, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidInput)
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if !p.Active {
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return s.Carts.Upsert(userID, productID, qty)
}

func (s *CartService) SetQty(userID, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidInput)
	}
	return s.Carts.SetQty(userID, productID, qty)
}

func (s *CartService) Remove(userID, productID string) error {
	return s.Carts.Remove(userID, productID)
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (s *CartService) View(userID string) (CartView, error) {
	items, err := s.Carts.Items(userID)
	if err != nil {
		return CartView{}, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ProductPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return CartView{Items: items, Total: total}, nil
}
