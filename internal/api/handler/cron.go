package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/internal/scheduler"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/seleradigital/merchant-admin-api/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// Cron job types accepted by the manual trigger endpoint
const (
	CronJobTypeResetTokenCleanup = "reset-token-cleanup"
	CronJobTypeAnalyticsWarmup   = "analytics-warmup"
	CronJobTypeAll               = "all"
)

// CronJobServices holds the schedulers exposed for manual execution
type CronJobServices struct {
	ResetTokenCleanupService *scheduler.ResetTokenCleanupService
	AnalyticsWarmupService   *scheduler.AnalyticsWarmupService
}

// RunCronJob triggers a scheduled job outside its schedule
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != domain.RoleSuperAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Only super admins can run cron jobs", nil)
			return
		}

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Cron job type is required", nil)
			return
		}

		switch cronType {
		case CronJobTypeResetTokenCleanup:
			if services.ResetTokenCleanupService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Reset token cleanup service is not available", nil)
				return
			}
			services.ResetTokenCleanupService.TriggerManualCleanup()

		case CronJobTypeAnalyticsWarmup:
			if services.AnalyticsWarmupService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Analytics warmup service is not available", nil)
				return
			}
			services.AnalyticsWarmupService.TriggerManualWarmup()

		case CronJobTypeAll:
			if services.ResetTokenCleanupService != nil {
				services.ResetTokenCleanupService.TriggerManualCleanup()
			}
			if services.AnalyticsWarmupService != nil {
				services.AnalyticsWarmupService.TriggerManualWarmup()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid cron job type. Accepted values: reset-token-cleanup, analytics-warmup, all", nil)
			return
		}

		logrus.WithField("type", cronType).Info("cron job triggered manually")

		response := map[string]any{
			"message": "Cron job started",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus reports the state of all schedulers
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != domain.RoleSuperAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Only super admins can check cron job status", nil)
			return
		}

		status := map[string]any{}

		if services.ResetTokenCleanupService != nil {
			status["reset_token_cleanup"] = services.ResetTokenCleanupService.GetStatus()
		}

		if services.AnalyticsWarmupService != nil {
			status["analytics_warmup"] = services.AnalyticsWarmupService.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(status)
		if err != nil {
			logrus.Error(err)
		}
	}
}
