package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/config"
	"github.com/sirupsen/logrus"
)

// ResetTokenCleanupConfig holds the scheduling options for the password
// reset token cleanup job.
type ResetTokenCleanupConfig struct {
	CronSchedule string
	Enabled      bool
}

// ResetTokenCleanupService periodically deletes expired and consumed
// password reset tokens.
type ResetTokenCleanupService struct {
	scheduler         *gocron.Scheduler
	config            ResetTokenCleanupConfig
	resetRepo         repository.PasswordResetRepository
	cleanupRunning    bool
	cleanupMutex      sync.Mutex
	lastRunStartedAt  time.Time
	lastRunFinishedAt time.Time
}

func NewResetTokenCleanupService(
	resetRepo repository.PasswordResetRepository,
	appConfig *config.Config,
) *ResetTokenCleanupService {
	cleanupConfig := ResetTokenCleanupConfig{
		CronSchedule: appConfig.ResetTokenCleanup.CronSchedule,
		Enabled:      appConfig.ResetTokenCleanup.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cleanupConfig.CronSchedule,
		"enabled":       cleanupConfig.Enabled,
	}).Info("Reset token cleanup scheduler configured")

	return &ResetTokenCleanupService{
		scheduler: scheduler,
		config:    cleanupConfig,
		resetRepo: resetRepo,
	}
}

// Start schedules the cleanup job and stops it when the context is cancelled.
func (s *ResetTokenCleanupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Reset token cleanup disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting reset token cleanup scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reset token cleanup: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping reset token cleanup scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ResetTokenCleanupService) runCleanup() {
	s.cleanupMutex.Lock()
	if s.cleanupRunning {
		s.cleanupMutex.Unlock()
		logrus.Info("Reset token cleanup already in progress, skipping")
		return
	}
	s.cleanupRunning = true
	s.cleanupMutex.Unlock()

	startTime := time.Now()
	s.lastRunStartedAt = startTime

	defer func() {
		s.cleanupMutex.Lock()
		s.cleanupRunning = false
		s.cleanupMutex.Unlock()
	}()

	deleted, err := s.resetRepo.DeleteExpired(startTime)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete expired reset tokens")
		return
	}

	s.lastRunFinishedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"deleted":  deleted,
		"duration": time.Since(startTime).String(),
	}).Info("Reset token cleanup finished")
}

// TriggerManualCleanup runs the cleanup outside the schedule.
func (s *ResetTokenCleanupService) TriggerManualCleanup() {
	s.cleanupMutex.Lock()
	if s.cleanupRunning {
		s.cleanupMutex.Unlock()
		logrus.Info("Reset token cleanup already in progress, ignoring manual trigger")
		return
	}
	s.cleanupMutex.Unlock()

	go s.runCleanup()
}

// GetStatus reports the scheduler state.
func (s *ResetTokenCleanupService) GetStatus() map[string]any {
	return map[string]any{
		"enabled":              s.config.Enabled,
		"cron":                 s.config.CronSchedule,
		"last_run_started_at":  s.lastRunStartedAt,
		"last_run_finished_at": s.lastRunFinishedAt,
	}
}
