package domain

import "time"

type Category struct {
	ID           string    `json:"id"`
	MerchantID   string    `json:"merchant_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID          string    `json:"id"`
	MerchantID  string    `json:"merchant_id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MenuItemFilters struct {
	MerchantID string
	CategoryID string
	Search     string
	Page       int
	PageSize   int
}

type MenuItemPage struct {
	Items      []*MenuItem `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

type UpdateMenuItemRequest struct {
	ID          string   `json:"id"`
	CategoryID  *string  `json:"category_id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Available   *bool    `json:"available"`
}
