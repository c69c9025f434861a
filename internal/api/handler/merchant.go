package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// ListMerchants returns all merchants. Pass active=true to restrict the
// listing to active merchants.
func ListMerchants(repo repository.MerchantRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

		merchants, err := repo.List(activeOnly)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to list merchants", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(merchants)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// GetMerchant returns a merchant by ID
func GetMerchant(repo repository.MerchantRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if merchantID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Merchant ID is required", nil)
			return
		}

		merchant, err := repo.GetByID(merchantID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to fetch merchant", nil)
			return
		}

		if merchant == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Merchant not found", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(merchant)
		if err != nil {
			logrus.Error(err)
		}
	}
}
