package repos

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderFilters narrows admin listings. Zero values mean "no filter".
type OrderFilters struct {
	Status  domain.OrderStatus
	OrderNo string // substring match
	UserID  string
}

const orderCols = `
  id, order_no, user_id, total, status, receiver_name, receiver_phone,
  receiver_address, created_at, updated_at`

// CreateTx inserts the order header and all line items inside the caller's
// transaction. The order_no UNIQUE constraint is the real collision guard;
// callers retry with a fresh number when IsOrderNoConflict reports one.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o *domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, order_no, user_id, total, status, receiver_name, receiver_phone, receiver_address)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.OrderNo, o.UserID, o.Total, o.Status, o.Receiver, o.Phone, o.Address)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, qty, price)
		  VALUES (?, ?, ?, ?)
		`, o.ID, it.ProductID, it.Qty, it.Price); err != nil {
			return err
		}
	}
	return nil
}

// IsOrderNoConflict reports whether err is a violation of the order_no
// uniqueness constraint (the generated number collided).
func IsOrderNoConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "orders.order_no")
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	o.Items, err = r.items(orderID)
	return o, err
}

func (r *OrderRepo) ByOrderNo(orderNo string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE order_no = ?`, orderNo)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	o.Items, err = r.items(o.ID)
	return o, err
}

func (r *OrderRepo) items(orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := r.db.Select(&items, `
	  SELECT oi.order_id, oi.product_id, p.name AS product_name, oi.qty, oi.price
	  FROM order_items oi JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name`, orderID)
	return items, err
}

// GetForUpdate reads the order header inside a transition transaction.
func (r *OrderRepo) GetForUpdate(tx *sqlx.Tx, orderID string) (domain.Order, error) {
	var o domain.Order
	err := tx.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, err
}

// ItemsTx loads line items inside a transaction (cancel releases stock
// per item in the same unit of work).
func (r *OrderRepo) ItemsTx(tx *sqlx.Tx, orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := tx.Select(&items, `
	  SELECT order_id, product_id, '' AS product_name, qty, price
	  FROM order_items WHERE order_id = ?`, orderID)
	return items, err
}

// UpdateStatusTx flips status only if the row still holds the expected
// current status; the conditional WHERE makes the read-then-write atomic
// against a concurrent transition on the same order.
func (r *OrderRepo) UpdateStatusTx(tx *sqlx.Tx, orderID string, from, to domain.OrderStatus) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = ?
	`, to, orderID, from)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// ListByUser returns a user's own orders, newest first, with items.
func (r *OrderRepo) ListByUser(userID string, page, pageSize int) (domain.PageResult[domain.Order], error) {
	return r.list(`user_id = ?`, []any{userID}, page, pageSize)
}

// List is the admin listing with optional filters.
func (r *OrderRepo) List(f OrderFilters, page, pageSize int) (domain.PageResult[domain.Order], error) {
	where := `1=1`
	args := []any{}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.OrderNo != "" {
		where += ` AND order_no LIKE ?`
		args = append(args, "%"+f.OrderNo+"%")
	}
	if f.UserID != "" {
		where += ` AND user_id = ?`
		args = append(args, f.UserID)
	}
	return r.list(where, args, page, pageSize)
}

func (r *OrderRepo) list(where string, args []any, page, pageSize int) (domain.PageResult[domain.Order], error) {
	out := domain.PageResult[domain.Order]{Page: page, PageSize: pageSize, List: []domain.Order{}}

	if err := r.db.Get(&out.Total, `SELECT COUNT(*) FROM orders WHERE `+where, args...); err != nil {
		return out, err
	}

	listArgs := append(args, pageSize, (page-1)*pageSize)
	if err := r.db.Select(&out.List, `
	  SELECT `+orderCols+`
	  FROM orders
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ? OFFSET ?`, listArgs...); err != nil {
		return out, err
	}
	if len(out.List) == 0 {
		return out, nil
	}

	ids := make([]string, len(out.List))
	idx := make(map[string]*domain.Order, len(out.List))
	for i := range out.List {
		ids[i] = out.List[i].ID
		out.List[i].Items = []domain.OrderItem{}
		idx[out.List[i].ID] = &out.List[i]
	}

	query, inArgs, err := sqlx.In(`
	  SELECT oi.order_id, oi.product_id, p.name AS product_name, oi.qty, oi.price
	  FROM order_items oi JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id IN (?)`, ids)
	if err != nil {
		return out, err
	}
	var items []domain.OrderItem
	if err := r.db.Select(&items, query, inArgs...); err != nil {
		return out, err
	}
	for _, it := range items {
		if o, ok := idx[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return out, nil
}
