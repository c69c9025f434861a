package domain

import "time"

// Order lifecycle statuses
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// allowed forward transitions; CANCELLED is reachable from any non-terminal state
var orderTransitions = map[string]string{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusCompleted,
}

type Order struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number"`
	MerchantID  string    `json:"merchant_id"`
	CustomerID  *int      `json:"customer_id,omitempty"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (o *Order) Terminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// CanTransitionTo validates an order status change request
func (o *Order) CanTransitionTo(status string) bool {
	if o.Terminal() {
		return false
	}
	if status == OrderStatusCancelled {
		return true
	}
	return orderTransitions[o.Status] == status
}

type OrderFilters struct {
	MerchantID string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

type OrderPage struct {
	Orders     []*Order `json:"orders"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}
