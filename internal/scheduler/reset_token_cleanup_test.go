package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/seleradigital/merchant-admin-api/infrastructure/repository/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newCleanupService(t *testing.T, enabled bool) (*ResetTokenCleanupService, *mocks.MockPasswordResetRepository) {
	ctrl := gomock.NewController(t)
	mockResetRepo := mocks.NewMockPasswordResetRepository(ctrl)

	service := &ResetTokenCleanupService{
		scheduler: gocron.NewScheduler(time.UTC),
		config: ResetTokenCleanupConfig{
			CronSchedule: "0 3 * * *",
			Enabled:      enabled,
		},
		resetRepo: mockResetRepo,
	}

	return service, mockResetRepo
}

func TestResetTokenCleanupService_runCleanup(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(resetRepo *mocks.MockPasswordResetRepository)
		validate func(t *testing.T, service *ResetTokenCleanupService)
	}{
		{
			name: "deletes expired tokens and records the run",
			setup: func(resetRepo *mocks.MockPasswordResetRepository) {
				resetRepo.EXPECT().DeleteExpired(gomock.Any()).Return(int64(5), nil)
			},
			validate: func(t *testing.T, service *ResetTokenCleanupService) {
				assert.False(t, service.lastRunStartedAt.IsZero())
				assert.False(t, service.lastRunFinishedAt.IsZero())
				assert.False(t, service.cleanupRunning)
			},
		},
		{
			name: "repository failure leaves the run unfinished but releases the lock",
			setup: func(resetRepo *mocks.MockPasswordResetRepository) {
				resetRepo.EXPECT().DeleteExpired(gomock.Any()).Return(int64(0), errors.New("connection refused"))
			},
			validate: func(t *testing.T, service *ResetTokenCleanupService) {
				assert.False(t, service.lastRunStartedAt.IsZero())
				assert.True(t, service.lastRunFinishedAt.IsZero())
				assert.False(t, service.cleanupRunning, "a failed run must not keep the lock held")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockResetRepo := newCleanupService(t, true)
			tt.setup(mockResetRepo)

			service.runCleanup()

			tt.validate(t, service)
		})
	}
}

func TestResetTokenCleanupService_runCleanup_SkipsWhenAlreadyRunning(t *testing.T) {
	service, _ := newCleanupService(t, true)

	// No DeleteExpired expectation: a second concurrent run must not hit the repository
	service.cleanupRunning = true

	service.runCleanup()

	assert.True(t, service.cleanupRunning)
}

func TestResetTokenCleanupService_Start(t *testing.T) {
	t.Run("disabled service does not schedule anything", func(t *testing.T) {
		service, _ := newCleanupService(t, false)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := service.Start(ctx)

		assert.NoError(t, err)
		assert.Empty(t, service.scheduler.Jobs())
	})

	t.Run("invalid cron expression fails to start", func(t *testing.T) {
		service, _ := newCleanupService(t, true)
		service.config.CronSchedule = "not a cron"

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := service.Start(ctx)

		assert.Error(t, err)
	})
}

func TestResetTokenCleanupService_GetStatus(t *testing.T) {
	service, _ := newCleanupService(t, true)

	status := service.GetStatus()

	assert.Equal(t, true, status["enabled"])
	assert.Equal(t, "0 3 * * *", status["cron"])
	assert.Contains(t, status, "last_run_started_at")
	assert.Contains(t, status, "last_run_finished_at")
}
