package domain

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions is the only legal movement through the order lifecycle.
// completed and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped},
	StatusShipped: {StatusCompleted},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Receiver is the shipping contact captured at checkout. Immutable after
// order creation.
type Receiver struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID        string          `db:"id" json:"id"`
	OrderNo   string          `db:"order_no" json:"orderNo"`
	UserID    string          `db:"user_id" json:"userId"`
	Total     decimal.Decimal `db:"total" json:"total"`
	Status    OrderStatus     `db:"status" json:"status"`
	Receiver  string          `db:"receiver_name" json:"receiverName"`
	Phone     string          `db:"receiver_phone" json:"receiverPhone"`
	Address   string          `db:"receiver_address" json:"receiverAddress"`
	CreatedAt string          `db:"created_at" json:"createdAt"`
	UpdatedAt string          `db:"updated_at" json:"updatedAt"`

	Items []OrderItem `json:"items"`
}

// OrderItem captures the unit price at time of purchase; later product
// price changes never touch it.
type OrderItem struct {
	OrderID     string          `db:"order_id" json:"orderId"`
	ProductID   string          `db:"product_id" json:"productId"`
	ProductName string          `db:"product_name" json:"productName"`
	Qty         int             `db:"qty" json:"qty"`
	Price       decimal.Decimal `db:"price" json:"price"`
}
