package services

import (
	"errors"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

// CheckAvailability converts a stock count into a storefront badge.
func (s *InventoryService) CheckAvailability(productID string) (Availability, error) {
	qty, err := s.Inv.Stock(productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Availability{Status: "OUT_OF_STOCK"}, nil
		}
		return Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return Availability{Status: status, Qty: qty}, nil
}

// Restock sets an absolute stock level (admin). Reservations in flight are
// unaffected: they run against whatever level is committed when they start.
func (s *InventoryService) Restock(productID string, qty int) error {
	if qty < 0 {
		return domain.ErrInvalidInput
	}
	return s.Inv.SetStock(productID, qty)
}
