package catalog

import (
	"testing"

	"github.com/seleradigital/merchant-admin-api/infrastructure/repository/mocks"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (Cataloger, *mocks.MockCategoryRepository, *mocks.MockMenuItemRepository, *mocks.MockMerchantRepository) {
	ctrl := gomock.NewController(t)

	mockCategoryRepo := mocks.NewMockCategoryRepository(ctrl)
	mockMenuItemRepo := mocks.NewMockMenuItemRepository(ctrl)
	mockMerchantRepo := mocks.NewMockMerchantRepository(ctrl)

	service := NewService(mockCategoryRepo, mockMenuItemRepo, mockMerchantRepo)

	return service, mockCategoryRepo, mockMenuItemRepo, mockMerchantRepo
}

func ownedCategory() *domain.Category {
	return &domain.Category{ID: "CAT001", MerchantID: "MRC001", Name: "Mains", DisplayOrder: 1}
}

func TestService_CreateCategory(t *testing.T) {
	t.Run("creates a category with a generated ID", func(t *testing.T) {
		service, mockCategoryRepo, _, mockMerchantRepo := newTestService(t)

		mockMerchantRepo.EXPECT().GetByID("MRC001").Return(&domain.Merchant{ID: "MRC001", Active: true}, nil)
		mockCategoryRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(category *domain.Category) error {
			assert.NotEmpty(t, category.ID)
			assert.Equal(t, "MRC001", category.MerchantID)
			return nil
		})

		category, err := service.CreateCategory("MRC001", "Drinks", 2)

		assert.NoError(t, err)
		assert.Equal(t, "Drinks", category.Name)
		assert.Equal(t, 2, category.DisplayOrder)
	})

	t.Run("unknown merchant is rejected", func(t *testing.T) {
		service, _, _, mockMerchantRepo := newTestService(t)

		mockMerchantRepo.EXPECT().GetByID("MRC404").Return(nil, nil)

		category, err := service.CreateCategory("MRC404", "Drinks", 1)

		assert.ErrorIs(t, err, ErrMerchantNotFound)
		assert.Nil(t, category)
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		service, _, _, _ := newTestService(t)

		category, err := service.CreateCategory("MRC001", "", 1)

		assert.ErrorIs(t, err, ErrMissingRequired)
		assert.Nil(t, category)
	})
}

func TestService_DeleteCategory(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(categoryRepo *mocks.MockCategoryRepository)
		wantErr error
	}{
		{
			name: "empty category is deleted",
			setup: func(categoryRepo *mocks.MockCategoryRepository) {
				categoryRepo.EXPECT().GetByID("CAT001").Return(ownedCategory(), nil)
				categoryRepo.EXPECT().CountMenuItems("CAT001").Return(0, nil)
				categoryRepo.EXPECT().Delete("CAT001").Return(nil)
			},
		},
		{
			name: "category with menu items is refused",
			setup: func(categoryRepo *mocks.MockCategoryRepository) {
				categoryRepo.EXPECT().GetByID("CAT001").Return(ownedCategory(), nil)
				categoryRepo.EXPECT().CountMenuItems("CAT001").Return(3, nil)
			},
			wantErr: ErrCategoryNotEmpty,
		},
		{
			name: "unknown category is refused",
			setup: func(categoryRepo *mocks.MockCategoryRepository) {
				categoryRepo.EXPECT().GetByID("CAT001").Return(nil, nil)
			},
			wantErr: ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockCategoryRepo, _, _ := newTestService(t)
			tt.setup(mockCategoryRepo)

			err := service.DeleteCategory("MRC001", "CAT001")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_CategoryOwnership(t *testing.T) {
	service, mockCategoryRepo, _, _ := newTestService(t)

	mockCategoryRepo.EXPECT().GetByID("CAT001").Return(ownedCategory(), nil)

	category, err := service.UpdateCategory("MRC999", "CAT001", "Renamed", 1)

	assert.ErrorIs(t, err, ErrCategoryOfMerchant)
	assert.Nil(t, category)
}

func TestService_CreateMenuItem(t *testing.T) {
	validItem := func() *domain.MenuItem {
		return &domain.MenuItem{
			MerchantID: "MRC001",
			CategoryID: "CAT001",
			Name:       "Nasi Goreng",
			Price:      45000,
			Available:  true,
		}
	}

	t.Run("creates an item inside an owned category", func(t *testing.T) {
		service, mockCategoryRepo, mockMenuItemRepo, mockMerchantRepo := newTestService(t)

		mockMerchantRepo.EXPECT().GetByID("MRC001").Return(&domain.Merchant{ID: "MRC001", Active: true}, nil)
		mockCategoryRepo.EXPECT().GetByID("CAT001").Return(ownedCategory(), nil)
		mockMenuItemRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(item *domain.MenuItem) error {
			assert.NotEmpty(t, item.ID)
			return nil
		})

		item, err := service.CreateMenuItem(validItem())

		assert.NoError(t, err)
		assert.Equal(t, "Nasi Goreng", item.Name)
	})

	t.Run("category of another merchant is rejected", func(t *testing.T) {
		service, mockCategoryRepo, _, mockMerchantRepo := newTestService(t)

		mockMerchantRepo.EXPECT().GetByID("MRC001").Return(&domain.Merchant{ID: "MRC001", Active: true}, nil)
		foreign := ownedCategory()
		foreign.MerchantID = "MRC999"
		mockCategoryRepo.EXPECT().GetByID("CAT001").Return(foreign, nil)

		item, err := service.CreateMenuItem(validItem())

		assert.ErrorIs(t, err, ErrCategoryOfMerchant)
		assert.Nil(t, item)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		service, _, _, _ := newTestService(t)

		item := validItem()
		item.Price = -1

		created, err := service.CreateMenuItem(item)

		assert.ErrorIs(t, err, ErrInvalidPrice)
		assert.Nil(t, created)
	})
}

func TestService_UpdateMenuItem(t *testing.T) {
	existing := func() *domain.MenuItem {
		return &domain.MenuItem{
			ID:         "ITM001",
			MerchantID: "MRC001",
			CategoryID: "CAT001",
			Name:       "Nasi Goreng",
			Price:      45000,
			Available:  true,
		}
	}

	t.Run("updates only the provided fields", func(t *testing.T) {
		service, _, mockMenuItemRepo, _ := newTestService(t)

		mockMenuItemRepo.EXPECT().GetByID("ITM001").Return(existing(), nil)
		mockMenuItemRepo.EXPECT().Update(gomock.Any()).Return(nil)

		newPrice := 50000.0
		item, err := service.UpdateMenuItem("MRC001", &domain.UpdateMenuItemRequest{ID: "ITM001", Price: &newPrice})

		assert.NoError(t, err)
		assert.Equal(t, 50000.0, item.Price)
		assert.Equal(t, "Nasi Goreng", item.Name, "untouched fields keep their value")
	})

	t.Run("moving to a foreign category is rejected", func(t *testing.T) {
		service, mockCategoryRepo, mockMenuItemRepo, _ := newTestService(t)

		mockMenuItemRepo.EXPECT().GetByID("ITM001").Return(existing(), nil)
		foreign := ownedCategory()
		foreign.ID = "CAT999"
		foreign.MerchantID = "MRC999"
		mockCategoryRepo.EXPECT().GetByID("CAT999").Return(foreign, nil)

		newCategory := "CAT999"
		item, err := service.UpdateMenuItem("MRC001", &domain.UpdateMenuItemRequest{ID: "ITM001", CategoryID: &newCategory})

		assert.ErrorIs(t, err, ErrCategoryOfMerchant)
		assert.Nil(t, item)
	})

	t.Run("item of another merchant is hidden", func(t *testing.T) {
		service, _, mockMenuItemRepo, _ := newTestService(t)

		mockMenuItemRepo.EXPECT().GetByID("ITM001").Return(existing(), nil)

		item, err := service.UpdateMenuItem("MRC999", &domain.UpdateMenuItemRequest{ID: "ITM001"})

		assert.ErrorIs(t, err, ErrMerchantMismatch)
		assert.Nil(t, item)
	})
}

func TestService_SetMenuItemAvailability(t *testing.T) {
	service, _, mockMenuItemRepo, _ := newTestService(t)

	mockMenuItemRepo.EXPECT().GetByID("ITM001").Return(&domain.MenuItem{ID: "ITM001", MerchantID: "MRC001", Available: true}, nil)
	mockMenuItemRepo.EXPECT().SetAvailability("ITM001", false).Return(nil)

	item, err := service.SetMenuItemAvailability("MRC001", "ITM001", false)

	assert.NoError(t, err)
	assert.False(t, item.Available)
}

func TestService_ListMenuItems(t *testing.T) {
	t.Run("missing merchant filter is rejected", func(t *testing.T) {
		service, _, _, _ := newTestService(t)

		page, err := service.ListMenuItems(&domain.MenuItemFilters{})

		assert.ErrorIs(t, err, ErrMissingRequired)
		assert.Nil(t, page)
	})

	t.Run("filters are passed through to the repository", func(t *testing.T) {
		service, _, mockMenuItemRepo, _ := newTestService(t)

		filters := &domain.MenuItemFilters{MerchantID: "MRC001", Search: "nasi", Page: 1, PageSize: 20}
		page := &domain.MenuItemPage{Total: 1}
		mockMenuItemRepo.EXPECT().List(filters).Return(page, nil)

		result, err := service.ListMenuItems(filters)

		assert.NoError(t, err)
		assert.Equal(t, page, result)
	})
}
