package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/authenticating"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/seleradigital/merchant-admin-api/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type LinkMerchantRequest struct {
	MerchantID string `json:"merchant_id"`
}

type UpdateUserMerchantsRequest struct {
	MerchantIDs []string `json:"merchant_ids"`
}

// GetUserMerchants returns the merchants linked to the authenticated user
func GetUserMerchants(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "User is not authenticated", nil)
			return
		}

		merchants, err := service.GetUserLinkedMerchants(userClaims.UserID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to list user merchants", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(merchants)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// UpdateUserMerchants replaces all merchant links of a user
func UpdateUserMerchants(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		var req UpdateUserMerchantsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		if err := service.ManageUserMerchants(userID, req.MerchantIDs); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to update user merchants", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "User merchants updated",
		})
	}
}

// LinkUserMerchant links a single merchant to a user
func LinkUserMerchant(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		var req LinkMerchantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		if req.MerchantID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Merchant ID is required", nil)
			return
		}

		if err := service.LinkUserMerchant(userID, req.MerchantID); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to link merchant to user", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Merchant linked",
		})
	}
}

// UnlinkUserMerchant removes a merchant link from a user
func UnlinkUserMerchant(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		merchantID := httprouter.ParamsFromContext(r.Context()).ByName("merchant_id")
		if merchantID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Merchant ID is required", nil)
			return
		}

		if err := service.UnlinkUserMerchant(userID, merchantID); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to unlink merchant from user", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Merchant unlinked",
		})
	}
}

func userIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "User ID is required", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid user ID", nil)
		return 0, false
	}

	return id, true
}
