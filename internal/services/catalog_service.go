package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

// Detail serves the public product page: inactive products are invisible.
func (s *CatalogService) Detail(productID string) (domain.Product, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.Active {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *CatalogService) Search(q, categoryID string, page, pageSize int) (domain.PageResult[domain.Product], error) {
	return s.Prods.Search(q, categoryID, page, pageSize)
}

func (s *CatalogService) Categories() ([]domain.Category, error) {
	return s.Cats.List()
}

// CreateProduct is the admin catalog entry point; a negative price never
// reaches the store (the DB CHECK would reject it anyway).
func (s *CatalogService) CreateProduct(p domain.Product) (domain.Product, error) {
	if p.Name == "" || p.CategoryID == "" {
		return domain.Product{}, fmt.Errorf("name and category are required: %w", domain.ErrInvalidInput)
	}
	if p.Price.LessThan(decimal.Zero) || p.Stock < 0 {
		return domain.Product{}, fmt.Errorf("price and stock must be non-negative: %w", domain.ErrInvalidInput)
	}
	if _, err := s.Cats.Get(p.CategoryID); err != nil {
		return domain.Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) UpdateProduct(p domain.Product) (domain.Product, error) {
	if p.ID == "" || p.Name == "" || p.CategoryID == "" {
		return domain.Product{}, fmt.Errorf("id, name and category are required: %w", domain.ErrInvalidInput)
	}
	if p.Price.LessThan(decimal.Zero) {
		return domain.Product{}, fmt.Errorf("price must be non-negative: %w", domain.ErrInvalidInput)
	}
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) CreateCategory(name string) (domain.Category, error) {
	if name == "" {
		return domain.Category{}, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	c := domain.Category{ID: uuid.NewString(), Name: name}
	if err := s.Cats.Create(c); err != nil {
		return domain.Category{}, err
	}
	return s.Cats.Get(c.ID)
}

func (s *CatalogService) RenameCategory(id, name string) error {
	if name == "" {
		return fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	return s.Cats.Rename(id, name)
}

func (s *CatalogService) DeleteCategory(id string) error {
	return s.Cats.Delete(id)
}
