package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopcore/internal/metrics"
	"shopcore/internal/repos"
	"shopcore/internal/services"
)

type Deps struct {
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, jwtSecret string, m *metrics.ServerMetrics) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	authSvc := services.NewAuthService(userRepo, jwtSecret)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	invSvc := services.NewInventoryService(invRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(db, cartRepo, invRepo, orderRepo, prodRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Inv: invSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc, Metrics: m},
		AdminHandler:    &AdminHandler{Orders: orderSvc, Catalog: catalogSvc, Inv: invSvc, Users: userRepo},
		Auth:            authSvc,
	}
}
