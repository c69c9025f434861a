package ordering

import (
	"errors"
	"fmt"

	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/sirupsen/logrus"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrMerchantMismatch  = errors.New("order belongs to another merchant")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

var validStatuses = map[string]bool{
	domain.OrderStatusPending:   true,
	domain.OrderStatusConfirmed: true,
	domain.OrderStatusPreparing: true,
	domain.OrderStatusReady:     true,
	domain.OrderStatusCompleted: true,
	domain.OrderStatusCancelled: true,
}

type Orderer interface {
	GetOrder(merchantID, orderID string) (*domain.Order, error)
	ListOrders(filters *domain.OrderFilters) (*domain.OrderPage, error)
	UpdateOrderStatus(merchantID, orderID, status string) (*domain.Order, error)
}

type Service struct {
	orderRepo repository.OrderRepository
}

func NewService(orderRepo repository.OrderRepository) Orderer {
	return &Service{
		orderRepo: orderRepo,
	}
}

func (s *Service) GetOrder(merchantID, orderID string) (*domain.Order, error) {
	return s.ownedOrder(merchantID, orderID)
}

func (s *Service) ListOrders(filters *domain.OrderFilters) (*domain.OrderPage, error) {
	if filters == nil || filters.MerchantID == "" {
		return nil, errors.New("merchant ID is required")
	}

	if filters.Status != "" && !validStatuses[filters.Status] {
		return nil, ErrUnknownStatus
	}

	return s.orderRepo.List(filters)
}

// UpdateOrderStatus advances an order through its lifecycle. Completed and
// cancelled orders cannot change status again.
func (s *Service) UpdateOrderStatus(merchantID, orderID, status string) (*domain.Order, error) {
	if !validStatuses[status] {
		return nil, ErrUnknownStatus
	}

	order, err := s.ownedOrder(merchantID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    orderID,
		"merchant_id": merchantID,
		"from":        order.Status,
		"to":          status,
	}).Info("order status updated")

	order.Status = status
	return order, nil
}

func (s *Service) ownedOrder(merchantID, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.MerchantID != merchantID {
		return nil, ErrMerchantMismatch
	}
	return order, nil
}
