package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/catalog"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/seleradigital/merchant-admin-api/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type CategoryRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// ListCategories returns the categories of the scoped merchant
func ListCategories(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		categories, err := service.ListCategories(merchantID)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(categories)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// CreateCategory creates a category for the scoped merchant
func CreateCategory(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		category, err := service.CreateCategory(merchantID, req.Name, req.DisplayOrder)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		err = json.NewEncoder(w).Encode(category)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// UpdateCategory updates a category of the scoped merchant
func UpdateCategory(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		categoryID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if categoryID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Category ID is required", nil)
			return
		}

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		category, err := service.UpdateCategory(merchantID, categoryID, req.Name, req.DisplayOrder)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(category)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// DeleteCategory deletes an empty category of the scoped merchant
func DeleteCategory(service catalog.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		categoryID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if categoryID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Category ID is required", nil)
			return
		}

		if err := service.DeleteCategory(merchantID, categoryID); err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Category deleted",
		})
	}
}

// merchantIDFromRequest resolves the merchant scope of the request. Super
// admins may target any merchant via the merchant_id query parameter,
// everyone else is bound to the merchant selected in their token.
func merchantIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "User is not authenticated", nil)
		return "", false
	}

	if userClaims.UserRoleID == domain.RoleSuperAdmin {
		if merchantID := r.URL.Query().Get("merchant_id"); merchantID != "" {
			return merchantID, true
		}
	}

	if userClaims.ActiveMerchantID == "" {
		apiErrors.WriteError(w, apiErrors.ErrMerchantNotLinked, "No merchant selected", nil)
		return "", false
	}

	return userClaims.ActiveMerchantID, true
}

// handleCatalogError maps catalog errors to API responses
func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrMissingRequired):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)

	case errors.Is(err, catalog.ErrInvalidPrice):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)

	case errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrMenuItemNotFound),
		errors.Is(err, catalog.ErrMerchantNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, err.Error(), nil)

	case errors.Is(err, catalog.ErrCategoryNotEmpty):
		apiErrors.WriteError(w, apiErrors.ErrConflict, err.Error(), nil)

	case errors.Is(err, catalog.ErrMerchantMismatch),
		errors.Is(err, catalog.ErrCategoryOfMerchant):
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, err.Error(), nil)

	default:
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Internal catalog error", nil)
	}
}
