package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

type OrderService struct {
	DB     *sqlx.DB
	Carts  *repos.CartRepo
	Inv    *repos.InventoryRepo
	Orders *repos.OrderRepo
	Prods  *repos.ProductRepo
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, inv *repos.InventoryRepo,
	orders *repos.OrderRepo, prods *repos.ProductRepo) *OrderService {
	return &OrderService{DB: db, Carts: carts, Inv: inv, Orders: orders, Prods: prods}
}

// orderNo is timestamp-to-the-second plus a random suffix. Collisions are
// unlikely, not impossible; the UNIQUE constraint on orders.order_no is the
// real guarantee and PlaceFromCart/PlaceFromProduct retry on conflict.
func orderNo() string {
	return time.Now().Format("20060102150405") + fmt.Sprintf("%03d", rand.Intn(1000))
}

const orderNoRetries = 3

// PlaceFromCart converts the user's cart into a pending order: reserve
// stock per line, snapshot prices, persist header + items, clear the cart,
// all in one transaction. Any failure rolls everything back, reservations
// included.
func (s *OrderService) PlaceFromCart(userID string, rcv domain.Receiver) (domain.Order, error) {
	if err := checkReceiver(rcv); err != nil {
		return domain.Order{}, err
	}

	var lastErr error
	for attempt := 0; attempt < orderNoRetries; attempt++ {
		o, err := s.placeFromCartOnce(userID, rcv)
		if err == nil {
			return o, nil
		}
		if !repos.IsOrderNoConflict(err) {
			return domain.Order{}, err
		}
		lastErr = err
	}
	return domain.Order{}, fmt.Errorf("order number kept colliding: %w", lastErr)
}

func (s *OrderService) placeFromCartOnce(userID string, rcv domain.Receiver) (o domain.Order, err error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	items, err := s.Carts.ItemsTx(tx, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	total := decimal.Zero
	lines := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		if !it.ProductOn {
			return domain.Order{}, fmt.Errorf("product %s: %w", it.ProductID, domain.ErrNotFound)
		}
		if err = s.Inv.Reserve(tx, it.ProductID, it.Qty); err != nil {
			return domain.Order{}, err
		}
		// Price captured at this instant; later catalog changes never
		// touch the line item.
		lines = append(lines, domain.OrderItem{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			Price:     it.ProductPrice,
		})
		total = total.Add(it.ProductPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}

	o = domain.Order{
		ID:       uuid.NewString(),
		OrderNo:  orderNo(),
		UserID:   userID,
		Total:    total,
		Status:   domain.StatusPending,
		Receiver: rcv.Name,
		Phone:    rcv.Phone,
		Address:  rcv.Address,
		Items:    lines,
	}
	if err = s.Orders.CreateTx(tx, &o); err != nil {
		return domain.Order{}, err
	}
	if err = s.Carts.ClearTx(tx, userID); err != nil {
		return domain.Order{}, err
	}
	if err = tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(o.ID)
}

// PlaceFromProduct is the buy-now path: one implicit line item, no cart
// interaction.
func (s *OrderService) PlaceFromProduct(userID, productID string, qty int, rcv domain.Receiver) (domain.Order, error) {
	if qty < 1 {
		return domain.Order{}, fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidInput)
	}
	if err := checkReceiver(rcv); err != nil {
		return domain.Order{}, err
	}

	var lastErr error
	for attempt := 0; attempt < orderNoRetries; attempt++ {
		o, err := s.placeFromProductOnce(userID, productID, qty, rcv)
		if err == nil {
			return o, nil
		}
		if !repos.IsOrderNoConflict(err) {
			return domain.Order{}, err
		}
		lastErr = err
	}
	return domain.Order{}, fmt.Errorf("order number kept colliding: %w", lastErr)
}

func (s *OrderService) placeFromProductOnce(userID, productID string, qty int, rcv domain.Receiver) (o domain.Order, err error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err := s.Prods.GetTx(tx, productID)
	if err != nil {
		return domain.Order{}, err
	}
	if !p.Active {
		return domain.Order{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if err = s.Inv.Reserve(tx, productID, qty); err != nil {
		return domain.Order{}, err
	}

	o = domain.Order{
		ID:       uuid.NewString(),
		OrderNo:  orderNo(),
		UserID:   userID,
		Total:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
		Status:   domain.StatusPending,
		Receiver: rcv.Name,
		Phone:    rcv.Phone,
		Address:  rcv.Address,
		Items:    []domain.OrderItem{{ProductID: productID, Qty: qty, Price: p.Price}},
	}
	if err = s.Orders.CreateTx(tx, &o); err != nil {
		return domain.Order{}, err
	}
	if err = tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(o.ID)
}

// Transition moves an order along the lifecycle graph. The legality check
// and the status write happen in one transaction, and the write itself is
// conditional on the status it read, so two concurrent transitions on the
// same order cannot both win. Cancelling releases stock for every line
// item in the same unit of work.
func (s *OrderService) Transition(orderID string, next domain.OrderStatus, ident domain.Identity) (err error) {
	if !next.Valid() {
		return fmt.Errorf("unknown status %q: %w", next, domain.ErrInvalidInput)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	o, err := s.Orders.GetForUpdate(tx, orderID)
	if err != nil {
		return err
	}
	// Existence is never leaked to strangers.
	if !ident.IsAdmin() && !ident.Owns(o.UserID) {
		return domain.ErrNotFound
	}
	// Shipping is an administrative act; owners trigger the rest.
	if next == domain.StatusShipped && !ident.IsAdmin() {
		return domain.ErrNotFound
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", o.Status, next, domain.ErrIllegalTransition)
	}

	if next == domain.StatusCancelled {
		items, ierr := s.Orders.ItemsTx(tx, orderID)
		if ierr != nil {
			err = ierr
			return err
		}
		for _, it := range items {
			// A failed release fails the whole cancel; the status
			// write below never commits without the stock coming back.
			if err = s.Inv.Release(tx, it.ProductID, it.Qty); err != nil {
				return err
			}
		}
	}

	ok, err := s.Orders.UpdateStatusTx(tx, orderID, o.Status, next)
	if err != nil {
		return err
	}
	if !ok {
		// Raced with another transition between our read and write.
		err = fmt.Errorf("%s -> %s: %w", o.Status, next, domain.ErrIllegalTransition)
		return err
	}
	return tx.Commit()
}

// Pay simulates payment by order number: an instantaneous pending -> paid
// flip, no gateway involved.
func (s *OrderService) Pay(orderNo string, ident domain.Identity) (domain.Order, error) {
	o, err := s.Orders.ByOrderNo(orderNo)
	if err != nil {
		return domain.Order{}, err
	}
	if !ident.IsAdmin() && !ident.Owns(o.UserID) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err := s.Transition(o.ID, domain.StatusPaid, ident); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(o.ID)
}

// Get returns the order with line items if the requester owns it or is an
// admin; otherwise NotFound.
func (s *OrderService) Get(orderID string, ident domain.Identity) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !ident.IsAdmin() && !ident.Owns(o.UserID) {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

// List scopes regular users to their own orders; admins get the filtered
// view across all users.
func (s *OrderService) List(ident domain.Identity, f repos.OrderFilters, page, pageSize int) (domain.PageResult[domain.Order], error) {
	if ident.IsAdmin() {
		return s.Orders.List(f, page, pageSize)
	}
	return s.Orders.ListByUser(ident.UserID, page, pageSize)
}

func checkReceiver(rcv domain.Receiver) error {
	if rcv.Name == "" || rcv.Phone == "" || rcv.Address == "" {
		return fmt.Errorf("receiver name, phone and address are required: %w", domain.ErrInvalidInput)
	}
	return nil
}
