package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// orderRank orders the forward-only lifecycle. CANCELLED sits outside the
// rank: it is terminal and reachable from any state except DELIVERED.
var orderRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderConfirmed:  1,
	OrderProcessing: 2,
	OrderShipped:    3,
	OrderDelivered:  4,
}

// CanAdvanceTo reports whether an order may move from s to next.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if s == OrderCancelled {
		return false
	}
	if next == OrderCancelled {
		return s != OrderDelivered
	}
	cur, ok := orderRank[s]
	nxt, nok := orderRank[next]
	if !ok || !nok {
		return false
	}
	return nxt > cur
}

type Order struct {
	Base
	CustomerID      int64           `json:"customer_id"`
	StoreID         int64           `json:"store_id"`
	OrderDate       time.Time       `json:"order_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
	Status          OrderStatus     `json:"status"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	Base
	OrderID       int64           `json:"order_id"`
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	TransactionID string          `json:"transaction_id"`
	PaymentDate   time.Time       `json:"payment_date"`
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

// Delivery is one-to-one with its order. DeliveryPersonID is zero while
// nobody is assigned.
type Delivery struct {
	Base
	OrderID            int64          `json:"order_id"`
	DeliveryPersonID   int64          `json:"delivery_person_id"`
	DeliveryAddress    string         `json:"delivery_address"`
	Status             DeliveryStatus `json:"status"`
	EstimatedTime      time.Time      `json:"estimated_time"`
	ActualDeliveryTime time.Time      `json:"actual_delivery_time"`
}

// DeliveryPerson availability is owned by the delivery workflow: false means
// currently assigned to a delivery that is neither delivered nor failed.
type DeliveryPerson struct {
	Base
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	VehicleType     string `json:"vehicle_type"`
	CurrentLocation string `json:"current_location"`
	Available       bool   `json:"available"`
}

type RefundStatus string

const (
	RefundPending   RefundStatus = "PENDING"
	RefundProcessed RefundStatus = "PROCESSED"
	RefundCompleted RefundStatus = "COMPLETED"
)

type Cancellation struct {
	Base
	OrderID      int64        `json:"order_id"`
	Reason       string       `json:"reason"`
	CancelledAt  time.Time    `json:"cancelled_at"`
	RefundStatus RefundStatus `json:"refund_status"`
}

type Product struct {
	Base
	StoreID     int64           `json:"store_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	IsAvailable bool            `json:"is_available"`
}

// Inventory is one-to-one with its product. StockQuantity never goes
// negative.
type Inventory struct {
	Base
	ProductID     int64     `json:"product_id"`
	StockQuantity int       `json:"stock_quantity"`
	ReorderLevel  int       `json:"reorder_level"`
	LastUpdated   time.Time `json:"last_updated"`
}

// IsLowStock reports whether the item is at or below its reorder level.
func (i *Inventory) IsLowStock() bool {
	return i.StockQuantity <= i.ReorderLevel
}

// DiscountRule grants DiscountAmount off carts of at least MinCartValue.
// Nil window bounds are open-ended on that side.
type DiscountRule struct {
	Base
	MinCartValue   decimal.Decimal `json:"min_cart_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ValidFrom      *time.Time      `json:"valid_from"`
	ValidTo        *time.Time      `json:"valid_to"`
	IsActive       bool            `json:"is_active"`
}

// InWindow reports whether the rule's validity window contains now.
func (r *DiscountRule) InWindow(now time.Time) bool {
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && now.After(*r.ValidTo) {
		return false
	}
	return true
}
