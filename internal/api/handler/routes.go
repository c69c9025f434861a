package handler

import (
	"net/http"

	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/api/handler/router"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/analyzing"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/authenticating"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/catalog"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/ordering"
	"github.com/seleradigital/merchant-admin-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:    "/v1/password/forgot",
			Method:  http.MethodPost,
			Handler: ForgotPassword(service),
		},
		{
			Path:    "/v1/password/reset",
			Method:  http.MethodPost,
			Handler: ResetPassword(service),
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/merchants/select",
			Method:      http.MethodPost,
			Handler:     SelectMerchant(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
	}
}

// UserMerchants exposes the merchant link management routes
func UserMerchants(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/me/merchants",
			Method:      http.MethodGet,
			Handler:     GetUserMerchants(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id/merchants",
			Method:      http.MethodPut,
			Handler:     UpdateUserMerchants(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
		{
			Path:        "/v1/users/:id/merchants/link",
			Method:      http.MethodPost,
			Handler:     LinkUserMerchant(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
		{
			Path:        "/v1/users/:id/merchants/:merchant_id",
			Method:      http.MethodDelete,
			Handler:     UnlinkUserMerchant(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
	}
}

func Merchants(repo repository.MerchantRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/merchants",
			Method:      http.MethodGet,
			Handler:     ListMerchants(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
		{
			Path:        "/v1/merchants/:id",
			Method:      http.MethodGet,
			Handler:     GetMerchant(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrMerchantAdmin()},
		},
	}
}

func Categories(service catalog.Cataloger) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/categories",
			Method:      http.MethodGet,
			Handler:     ListCategories(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/categories",
			Method:      http.MethodPost,
			Handler:     CreateCategory(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrMerchantAdmin()},
		},
		{
			Path:        "/v1/categories/:id",
			Method:      http.MethodPut,
			Handler:     UpdateCategory(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrMerchantAdmin()},
		},
		{
			Path:        "/v1/categories/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteCategory(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrMerchantAdmin()},
		},
	}
}

func MenuItems(service catalog.Cataloger) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/menu-items",
			Method:      http.MethodGet,
			Handler:     ListMenuItems(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/menu-items",
			Method:      http.MethodPost,
			Handler:     CreateMenuItem(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrMerchantAdmin()},
		},
		{
			Path:        "/v1/menu-items/:id",
			Method:      http.MethodGet,
			Handler:     GetMenuItem(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/menu-items/:id",
			Method:      http.MethodPut,
			Handler:     UpdateMenuItem(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrMerchantAdmin()},
		},
		{
			Path:        "/v1/menu-items/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteMenuItem(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrMerchantAdmin()},
		},
		{
			Path:        "/v1/menu-items/:id/availability",
			Method:      http.MethodPatch,
			Handler:     SetMenuItemAvailability(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Orders(service ordering.Orderer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/orders",
			Method:      http.MethodGet,
			Handler:     ListOrders(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/orders/:id",
			Method:      http.MethodGet,
			Handler:     GetOrder(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/orders/:id/status",
			Method:      http.MethodPatch,
			Handler:     UpdateOrderStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Analytics(service analyzing.ChartAnalyzer) []router.Route {
	return []router.Route{
		{
			Path:        "/api/admin/analytics/charts",
			Method:      http.MethodGet,
			Handler:     GetCharts(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
	}
}
