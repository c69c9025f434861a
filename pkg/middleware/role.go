package middleware

import (
	"net/http"

	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// RoleMiddleware restricts access to the given role IDs.
func RoleMiddleware(allowedRoles []int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)

			if !ok {
				logrus.Warning("Access attempt without authentication")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "User is not authenticated", nil)
				return
			}

			isAllowed := false
			for _, role := range allowedRoles {
				if userClaims.UserRoleID == role {
					isAllowed = true
					break
				}
			}

			if !isAllowed {
				logrus.Warningf("Access denied for user ID=%d, Role=%d", userClaims.UserID, userClaims.UserRoleID)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "You do not have permission to access this resource", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SuperAdminOnly allows access only for super admins
func SuperAdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{domain.RoleSuperAdmin})
}

// AdminOrMerchantAdmin allows access for super admins and merchant admins
func AdminOrMerchantAdmin() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{domain.RoleSuperAdmin, domain.RoleMerchantAdmin})
}

// AllRoles allows access for any authenticated user
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{domain.RoleSuperAdmin, domain.RoleMerchantAdmin, domain.RoleStaff})
}
