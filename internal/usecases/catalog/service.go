package catalog

import (
	"errors"
	"fmt"

	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/pkg/utils"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNotEmpty   = errors.New("category still has menu items")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrMerchantNotFound   = errors.New("merchant not found")
	ErrMissingRequired    = errors.New("missing required data")
	ErrInvalidPrice       = errors.New("price must be zero or positive")
	ErrMerchantMismatch   = errors.New("resource belongs to another merchant")
	ErrCategoryOfMerchant = errors.New("category belongs to another merchant")
)

type Cataloger interface {
	CreateCategory(merchantID, name string, displayOrder int) (*domain.Category, error)
	UpdateCategory(merchantID, categoryID, name string, displayOrder int) (*domain.Category, error)
	DeleteCategory(merchantID, categoryID string) error
	ListCategories(merchantID string) ([]*domain.Category, error)
	CreateMenuItem(item *domain.MenuItem) (*domain.MenuItem, error)
	UpdateMenuItem(merchantID string, req *domain.UpdateMenuItemRequest) (*domain.MenuItem, error)
	DeleteMenuItem(merchantID, itemID string) error
	GetMenuItem(merchantID, itemID string) (*domain.MenuItem, error)
	ListMenuItems(filters *domain.MenuItemFilters) (*domain.MenuItemPage, error)
	SetMenuItemAvailability(merchantID, itemID string, available bool) (*domain.MenuItem, error)
}

type Service struct {
	categoryRepo repository.CategoryRepository
	menuItemRepo repository.MenuItemRepository
	merchantRepo repository.MerchantRepository
}

func NewService(
	categoryRepo repository.CategoryRepository,
	menuItemRepo repository.MenuItemRepository,
	merchantRepo repository.MerchantRepository,
) Cataloger {
	return &Service{
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
		merchantRepo: merchantRepo,
	}
}

func (s *Service) CreateCategory(merchantID, name string, displayOrder int) (*domain.Category, error) {
	if merchantID == "" || name == "" {
		return nil, ErrMissingRequired
	}

	if err := s.ensureMerchant(merchantID); err != nil {
		return nil, err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category ID: %w", err)
	}

	category := &domain.Category{
		ID:           id,
		MerchantID:   merchantID,
		Name:         name,
		DisplayOrder: displayOrder,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *Service) UpdateCategory(merchantID, categoryID, name string, displayOrder int) (*domain.Category, error) {
	if name == "" {
		return nil, ErrMissingRequired
	}

	category, err := s.ownedCategory(merchantID, categoryID)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.DisplayOrder = displayOrder

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory refuses to delete a category that still has menu items.
func (s *Service) DeleteCategory(merchantID, categoryID string) error {
	if _, err := s.ownedCategory(merchantID, categoryID); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountMenuItems(categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}

	return s.categoryRepo.Delete(categoryID)
}

func (s *Service) ListCategories(merchantID string) ([]*domain.Category, error) {
	if merchantID == "" {
		return nil, ErrMissingRequired
	}

	return s.categoryRepo.ListByMerchant(merchantID)
}

func (s *Service) CreateMenuItem(item *domain.MenuItem) (*domain.MenuItem, error) {
	if item.MerchantID == "" || item.CategoryID == "" || item.Name == "" {
		return nil, ErrMissingRequired
	}

	if item.Price < 0 {
		return nil, ErrInvalidPrice
	}

	if err := s.ensureMerchant(item.MerchantID); err != nil {
		return nil, err
	}

	if _, err := s.ownedCategory(item.MerchantID, item.CategoryID); err != nil {
		return nil, err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate menu item ID: %w", err)
	}

	item.ID = id

	if err := s.menuItemRepo.Create(item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) UpdateMenuItem(merchantID string, req *domain.UpdateMenuItemRequest) (*domain.MenuItem, error) {
	item, err := s.ownedMenuItem(merchantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.ownedCategory(merchantID, *req.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = *req.CategoryID
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrMissingRequired
		}
		item.Name = *req.Name
	}

	if req.Description != nil {
		item.Description = *req.Description
	}

	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		item.Price = *req.Price
	}

	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}

	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.menuItemRepo.Update(item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) DeleteMenuItem(merchantID, itemID string) error {
	if _, err := s.ownedMenuItem(merchantID, itemID); err != nil {
		return err
	}

	return s.menuItemRepo.Delete(itemID)
}

func (s *Service) GetMenuItem(merchantID, itemID string) (*domain.MenuItem, error) {
	return s.ownedMenuItem(merchantID, itemID)
}

func (s *Service) ListMenuItems(filters *domain.MenuItemFilters) (*domain.MenuItemPage, error) {
	if filters == nil || filters.MerchantID == "" {
		return nil, ErrMissingRequired
	}

	return s.menuItemRepo.List(filters)
}

func (s *Service) SetMenuItemAvailability(merchantID, itemID string, available bool) (*domain.MenuItem, error) {
	item, err := s.ownedMenuItem(merchantID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.menuItemRepo.SetAvailability(itemID, available); err != nil {
		return nil, err
	}

	item.Available = available
	return item, nil
}

func (s *Service) ensureMerchant(merchantID string) error {
	merchant, err := s.merchantRepo.GetByID(merchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return ErrMerchantNotFound
	}
	return nil
}

func (s *Service) ownedCategory(merchantID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if category.MerchantID != merchantID {
		return nil, ErrCategoryOfMerchant
	}
	return category, nil
}

func (s *Service) ownedMenuItem(merchantID, itemID string) (*domain.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	if item.MerchantID != merchantID {
		return nil, ErrMerchantMismatch
	}
	return item, nil
}
