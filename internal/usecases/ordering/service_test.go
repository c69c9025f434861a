package ordering

import (
	"testing"

	"github.com/seleradigital/merchant-admin-api/infrastructure/repository/mocks"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (Orderer, *mocks.MockOrderRepository) {
	ctrl := gomock.NewController(t)
	mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
	return NewService(mockOrderRepo), mockOrderRepo
}

func orderInStatus(status string) *domain.Order {
	return &domain.Order{
		ID:         "ORD001",
		MerchantID: "MRC001",
		Status:     status,
	}
}

func TestService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		to         string
		wantUpdate bool
		wantErr    error
	}{
		{name: "pending to confirmed", from: domain.OrderStatusPending, to: domain.OrderStatusConfirmed, wantUpdate: true},
		{name: "confirmed to preparing", from: domain.OrderStatusConfirmed, to: domain.OrderStatusPreparing, wantUpdate: true},
		{name: "preparing to ready", from: domain.OrderStatusPreparing, to: domain.OrderStatusReady, wantUpdate: true},
		{name: "ready to completed", from: domain.OrderStatusReady, to: domain.OrderStatusCompleted, wantUpdate: true},
		{name: "pending may be cancelled", from: domain.OrderStatusPending, to: domain.OrderStatusCancelled, wantUpdate: true},
		{name: "ready may be cancelled", from: domain.OrderStatusReady, to: domain.OrderStatusCancelled, wantUpdate: true},
		{name: "skipping a step is rejected", from: domain.OrderStatusPending, to: domain.OrderStatusPreparing, wantErr: ErrInvalidTransition},
		{name: "moving backwards is rejected", from: domain.OrderStatusReady, to: domain.OrderStatusConfirmed, wantErr: ErrInvalidTransition},
		{name: "completed orders cannot change", from: domain.OrderStatusCompleted, to: domain.OrderStatusCancelled, wantErr: ErrInvalidTransition},
		{name: "cancelled orders cannot change", from: domain.OrderStatusCancelled, to: domain.OrderStatusConfirmed, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockOrderRepo := newTestService(t)

			mockOrderRepo.EXPECT().GetByID("ORD001").Return(orderInStatus(tt.from), nil)
			if tt.wantUpdate {
				mockOrderRepo.EXPECT().UpdateStatus("ORD001", tt.to).Return(nil)
			}

			order, err := service.UpdateOrderStatus("MRC001", "ORD001", tt.to)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
		})
	}
}

func TestService_UpdateOrderStatus_Validation(t *testing.T) {
	t.Run("unknown status is rejected before the lookup", func(t *testing.T) {
		service, _ := newTestService(t)

		order, err := service.UpdateOrderStatus("MRC001", "ORD001", "SHIPPED")

		assert.ErrorIs(t, err, ErrUnknownStatus)
		assert.Nil(t, order)
	})

	t.Run("unknown order is rejected", func(t *testing.T) {
		service, mockOrderRepo := newTestService(t)

		mockOrderRepo.EXPECT().GetByID("ORD404").Return(nil, nil)

		order, err := service.UpdateOrderStatus("MRC001", "ORD404", domain.OrderStatusConfirmed)

		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.Nil(t, order)
	})

	t.Run("order of another merchant is rejected", func(t *testing.T) {
		service, mockOrderRepo := newTestService(t)

		mockOrderRepo.EXPECT().GetByID("ORD001").Return(orderInStatus(domain.OrderStatusPending), nil)

		order, err := service.UpdateOrderStatus("MRC999", "ORD001", domain.OrderStatusConfirmed)

		assert.ErrorIs(t, err, ErrMerchantMismatch)
		assert.Nil(t, order)
	})
}

func TestService_GetOrder(t *testing.T) {
	t.Run("returns the order of the owning merchant", func(t *testing.T) {
		service, mockOrderRepo := newTestService(t)

		mockOrderRepo.EXPECT().GetByID("ORD001").Return(orderInStatus(domain.OrderStatusPending), nil)

		order, err := service.GetOrder("MRC001", "ORD001")

		assert.NoError(t, err)
		assert.Equal(t, "ORD001", order.ID)
	})

	t.Run("hides orders of other merchants", func(t *testing.T) {
		service, mockOrderRepo := newTestService(t)

		mockOrderRepo.EXPECT().GetByID("ORD001").Return(orderInStatus(domain.OrderStatusPending), nil)

		order, err := service.GetOrder("MRC999", "ORD001")

		assert.ErrorIs(t, err, ErrMerchantMismatch)
		assert.Nil(t, order)
	})
}

func TestService_ListOrders(t *testing.T) {
	t.Run("filters are passed through to the repository", func(t *testing.T) {
		service, mockOrderRepo := newTestService(t)

		filters := &domain.OrderFilters{MerchantID: "MRC001", Status: domain.OrderStatusPending, Page: 2, PageSize: 10}
		page := &domain.OrderPage{Orders: []*domain.Order{orderInStatus(domain.OrderStatusPending)}, Total: 11, Page: 2, PageSize: 10, TotalPages: 2}
		mockOrderRepo.EXPECT().List(filters).Return(page, nil)

		result, err := service.ListOrders(filters)

		assert.NoError(t, err)
		assert.Equal(t, page, result)
	})

	t.Run("unknown status filter is rejected", func(t *testing.T) {
		service, _ := newTestService(t)

		result, err := service.ListOrders(&domain.OrderFilters{MerchantID: "MRC001", Status: "SHIPPED"})

		assert.ErrorIs(t, err, ErrUnknownStatus)
		assert.Nil(t, result)
	})

	t.Run("missing merchant is rejected", func(t *testing.T) {
		service, _ := newTestService(t)

		result, err := service.ListOrders(&domain.OrderFilters{})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
