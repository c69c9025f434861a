package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/catalog"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

type MenuItemRequest struct {
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
	Available   *bool   `json:"available"`
}

type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

// ListMenuItems returns a page of menu items for the scoped merchant
func ListMenuItems(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

		filters := &domain.MenuItemFilters{
			MerchantID: merchantID,
			CategoryID: r.URL.Query().Get("category_id"),
			Search:     r.URL.Query().Get("search"),
			Page:       page,
			PageSize:   pageSize,
		}

		result, err := service.ListMenuItems(filters)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(result)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// GetMenuItem returns a single menu item of the scoped merchant
func GetMenuItem(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if itemID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Menu item ID is required", nil)
			return
		}

		item, err := service.GetMenuItem(merchantID, itemID)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(item)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// CreateMenuItem creates a menu item for the scoped merchant
func CreateMenuItem(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		var req MenuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		available := true
		if req.Available != nil {
			available = *req.Available
		}

		item := &domain.MenuItem{
			MerchantID:  merchantID,
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Available:   available,
		}

		item, err := service.CreateMenuItem(item)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		err = json.NewEncoder(w).Encode(item)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// UpdateMenuItem updates mutable fields of a menu item
func UpdateMenuItem(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if itemID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Menu item ID is required", nil)
			return
		}

		var req domain.UpdateMenuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		req.ID = itemID

		item, err := service.UpdateMenuItem(merchantID, &req)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(item)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// DeleteMenuItem removes a menu item of the scoped merchant
func DeleteMenuItem(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if itemID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Menu item ID is required", nil)
			return
		}

		if err := service.DeleteMenuItem(merchantID, itemID); err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Menu item deleted",
		})
	}
}

// SetMenuItemAvailability toggles the availability flag of a menu item
func SetMenuItemAvailability(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if itemID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Menu item ID is required", nil)
			return
		}

		var req SetAvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		item, err := service.SetMenuItemAvailability(merchantID, itemID, req.Available)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(item)
		if err != nil {
			logrus.Error(err)
		}
	}
}
