package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/seleradigital/merchant-admin-api/internal/config"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/analyzing"
	"github.com/sirupsen/logrus"
)

// AnalyticsWarmupConfig holds the scheduling options for the chart cache
// warmup job.
type AnalyticsWarmupConfig struct {
	IntervalMinutes int
	Enabled         bool
}

// AnalyticsWarmupService refreshes the chart cache for every supported
// period so the dashboard rarely hits a cold cache.
type AnalyticsWarmupService struct {
	scheduler         *gocron.Scheduler
	config            AnalyticsWarmupConfig
	analyzer          analyzing.ChartAnalyzer
	warmupRunning     bool
	warmupMutex       sync.Mutex
	lastRunStartedAt  time.Time
	lastRunFinishedAt time.Time
}

func NewAnalyticsWarmupService(
	analyzer analyzing.ChartAnalyzer,
	appConfig *config.Config,
) *AnalyticsWarmupService {
	warmupConfig := AnalyticsWarmupConfig{
		IntervalMinutes: appConfig.AnalyticsWarmup.IntervalMinutes,
		Enabled:         appConfig.AnalyticsWarmup.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"interval_minutes": warmupConfig.IntervalMinutes,
		"enabled":          warmupConfig.Enabled,
	}).Info("Analytics warmup scheduler configured")

	return &AnalyticsWarmupService{
		scheduler: scheduler,
		config:    warmupConfig,
		analyzer:  analyzer,
	}
}

// Start schedules the warmup job and stops it when the context is cancelled.
func (s *AnalyticsWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Analytics warmup disabled by configuration")
		return nil
	}

	logrus.WithField("interval_minutes", s.config.IntervalMinutes).Info("Starting analytics warmup scheduler")

	_, err := s.scheduler.Every(s.config.IntervalMinutes).Minutes().Do(func() {
		s.runWarmup(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule analytics warmup: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping analytics warmup scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *AnalyticsWarmupService) runWarmup(ctx context.Context) {
	s.warmupMutex.Lock()
	if s.warmupRunning {
		s.warmupMutex.Unlock()
		logrus.Info("Analytics warmup already in progress, skipping")
		return
	}
	s.warmupRunning = true
	s.warmupMutex.Unlock()

	startTime := time.Now()
	s.lastRunStartedAt = startTime

	defer func() {
		s.warmupMutex.Lock()
		s.warmupRunning = false
		s.warmupMutex.Unlock()
	}()

	periods := []string{
		analyzing.PeriodWeek,
		analyzing.PeriodMonth,
		analyzing.PeriodQuarter,
		analyzing.PeriodYear,
	}

	for _, period := range periods {
		if ctx.Err() != nil {
			return
		}

		if _, err := s.analyzer.GetChartData(ctx, period); err != nil {
			logrus.WithError(err).WithField("period", period).Error("Failed to warm chart cache for period")
		}
	}

	s.lastRunFinishedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"periods":  len(periods),
		"duration": time.Since(startTime).String(),
	}).Info("Analytics warmup finished")
}

// TriggerManualWarmup runs the warmup outside the schedule.
func (s *AnalyticsWarmupService) TriggerManualWarmup() {
	s.warmupMutex.Lock()
	if s.warmupRunning {
		s.warmupMutex.Unlock()
		logrus.Info("Analytics warmup already in progress, ignoring manual trigger")
		return
	}
	s.warmupMutex.Unlock()

	go s.runWarmup(context.Background())
}

// GetStatus reports the scheduler state.
func (s *AnalyticsWarmupService) GetStatus() map[string]any {
	return map[string]any{
		"enabled":              s.config.Enabled,
		"interval_minutes":     s.config.IntervalMinutes,
		"last_run_started_at":  s.lastRunStartedAt,
		"last_run_finished_at": s.lastRunFinishedAt,
	}
}
