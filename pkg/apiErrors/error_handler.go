package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned to clients
const (
	// Authentication errors
	ErrInvalidCredentials    = "AUTH_001" // invalid email or password
	ErrUserDisabled          = "AUTH_002" // user account disabled
	ErrUserNotFound          = "AUTH_003" // user not found
	ErrPasswordExpired       = "AUTH_004" // password expired
	ErrInvalidToken          = "AUTH_005" // invalid token
	ErrExpiredToken          = "AUTH_006" // expired token
	ErrInsufficientPrivilege = "AUTH_007" // insufficient privileges
	ErrUserAlreadyExists     = "AUTH_008" // user already registered
	ErrInvalidResetToken     = "AUTH_009" // invalid or consumed password reset token
	ErrMerchantNotLinked     = "AUTH_010" // user is not linked to the requested merchant

	// Validation errors
	ErrInvalidRequest      = "VAL_001" // malformed request
	ErrMissingRequiredData = "VAL_002" // required data missing
	ErrInvalidFormat       = "VAL_003" // invalid data format
	ErrWeakPassword        = "VAL_004" // password below strength requirements

	// Resource errors
	ErrNotFound          = "RES_001" // resource not found
	ErrConflict          = "RES_002" // resource state conflict
	ErrInvalidTransition = "RES_003" // invalid order status transition

	// Server errors
	ErrInternalServer    = "INTERNAL_ERROR" // generic internal error
	ErrDatabaseOperation = "SRV_002"        // database operation failed
	ErrCacheOperation    = "SRV_003"        // cache operation failed
)

var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUserDisabled:          http.StatusForbidden,
	ErrUserNotFound:          http.StatusNotFound,
	ErrPasswordExpired:       http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrUserAlreadyExists:     http.StatusBadRequest,
	ErrInvalidResetToken:     http.StatusBadRequest,
	ErrMerchantNotLinked:     http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrWeakPassword:          http.StatusBadRequest,
	ErrNotFound:              http.StatusNotFound,
	ErrConflict:              http.StatusConflict,
	ErrInvalidTransition:     http.StatusUnprocessableEntity,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrCacheOperation:        http.StatusInternalServerError,
}

// APIError is the standard error payload
type APIError struct {
	Success bool   `json:"success"`
	Code    string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error payload to the response
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error into an APIError with the given code
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
