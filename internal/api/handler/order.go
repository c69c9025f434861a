package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/ordering"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/seleradigital/merchant-admin-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// ListOrders returns a page of orders for the scoped merchant
func ListOrders(service ordering.Orderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

		filters := &domain.OrderFilters{
			MerchantID: merchantID,
			Status:     r.URL.Query().Get("status"),
			Page:       page,
			PageSize:   pageSize,
		}

		if startDate := r.URL.Query().Get("start_date"); startDate != "" {
			parsed, err := utils.ParseDate(startDate)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid start_date, expected YYYY-MM-DD", nil)
				return
			}
			filters.StartDate = parsed
		}

		if endDate := r.URL.Query().Get("end_date"); endDate != "" {
			parsed, err := utils.ParseDate(endDate)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid end_date, expected YYYY-MM-DD", nil)
				return
			}
			// end_date is inclusive
			end := parsed.Add(24*time.Hour - time.Nanosecond)
			filters.EndDate = &end
		}

		result, err := service.ListOrders(filters)
		if err != nil {
			handleOrderError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(result)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// GetOrder returns a single order of the scoped merchant
func GetOrder(service ordering.Orderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		orderID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if orderID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Order ID is required", nil)
			return
		}

		order, err := service.GetOrder(merchantID, orderID)
		if err != nil {
			handleOrderError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(order)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// UpdateOrderStatus advances an order through its lifecycle
func UpdateOrderStatus(service ordering.Orderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, ok := merchantIDFromRequest(w, r)
		if !ok {
			return
		}

		orderID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if orderID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Order ID is required", nil)
			return
		}

		var req UpdateOrderStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Failed to decode request", nil)
			return
		}

		order, err := service.UpdateOrderStatus(merchantID, orderID, req.Status)
		if err != nil {
			handleOrderError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(order)
		if err != nil {
			logrus.Error(err)
		}
	}
}

// handleOrderError maps ordering errors to API responses
func handleOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ordering.ErrOrderNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, err.Error(), nil)

	case errors.Is(err, ordering.ErrMerchantMismatch):
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, err.Error(), nil)

	case errors.Is(err, ordering.ErrUnknownStatus):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)

	case errors.Is(err, ordering.ErrInvalidTransition):
		apiErrors.WriteError(w, apiErrors.ErrInvalidTransition, err.Error(), nil)

	default:
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Internal order error", nil)
	}
}
