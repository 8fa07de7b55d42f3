package models

import "time"

// PaymentMethod represents how an order is paid
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// IsValid checks if the payment method is a known value
func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodCOD || p == PaymentMethodOnline
}

// InitialOrderStatus returns the status a new order starts in
func (p PaymentMethod) InitialOrderStatus() OrderStatus {
	if p == PaymentMethodOnline {
		return OrderStatusPaid
	}
	return OrderStatusCreated
}

// OrderStatus represents order workflow states
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatusFlow is the single source of truth for allowed status
// transitions. Both the generic status update and the deliver-only
// shortcut consult this table.
var OrderStatusFlow = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	_, ok := OrderStatusFlow[s]
	return ok
}

// CanTransitionTo checks if the status may move to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range OrderStatusFlow[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal checks if no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return len(OrderStatusFlow[s]) == 0
}

// ShippingAddress is the address snapshot copied onto an order
type ShippingAddress struct {
	FullName string `json:"fullName" db:"ship_full_name"`
	Phone    string `json:"phone" db:"ship_phone"`
	Street   string `json:"street" db:"ship_street"`
	City     string `json:"city" db:"ship_city"`
	State    string `json:"state" db:"ship_state"`
	Pincode  string `json:"pincode" db:"ship_pincode"`
}

// Order represents an immutable order snapshot
type Order struct {
	ID              string          `json:"id" db:"id"`
	UserID          string          `json:"userId" db:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	OrderStatus     OrderStatus     `json:"orderStatus" db:"order_status"`
	TotalAmount     float64         `json:"totalAmount" db:"total_amount"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// CanBeCancelled checks if the order is still cancellable
func (o *Order) CanBeCancelled() bool {
	return o.OrderStatus != OrderStatusShipped &&
		o.OrderStatus != OrderStatusDelivered &&
		o.OrderStatus != OrderStatusCancelled
}

// OrderItem represents one immutable line of an order
type OrderItem struct {
	ID        string  `json:"id" db:"id"`
	OrderID   string  `json:"-" db:"order_id"`
	ProductID string  `json:"productId" db:"product_id"`
	Name      string  `json:"name" db:"name"`
	Image     string  `json:"image" db:"image"`
	Price     float64 `json:"price" db:"price"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Size      string  `json:"size" db:"size"`
	Color     string  `json:"color" db:"color"`
}

// OrderCreation represents an order placement request. Either an inline
// shipping address is supplied or the user's default address is used.
type OrderCreation struct {
	ShippingAddress   *ShippingAddress `json:"shippingAddress,omitempty"`
	UseDefaultAddress bool             `json:"useDefaultAddress"`
	PaymentMethod     PaymentMethod    `json:"paymentMethod" binding:"required"`
}

// OrderStatusUpdate represents an admin status transition request
type OrderStatusUpdate struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// OrderFilter represents admin order listing filters
type OrderFilter struct {
	Status OrderStatus
	City   string
	State  string
	Page   int
	Limit  int
}
