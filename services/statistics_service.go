package services

import (
	"context"

	"pastillero-service/database"
	"pastillero-service/errs"
	"pastillero-service/metrics"
	"pastillero-service/models"

	"go.uber.org/zap"
)

type StatisticsService struct {
	store   database.Store
	logger  *zap.Logger
	metrics *metrics.Manager
}

func NewStatisticsService(store database.Store, logger *zap.Logger, m *metrics.Manager) *StatisticsService {
	return &StatisticsService{store: store, logger: logger, metrics: m}
}

// Record persists one dispense report. Concurrent reports may be stored in
// any order.
func (s *StatisticsService) Record(ctx context.Context, report DispenseReport) (models.DispenseStatistic, error) {
	stat, err := s.store.InsertStatistic(ctx, models.DispenseStatistic{
		Module:      report.Module,
		DispensedAt: report.DispensedAt,
		PickedUpAt:  report.PickedUpAt,
	})
	if err != nil {
		s.logger.Error("Failed to save dispense statistic", zap.Int("module", report.Module), zap.Error(err))
		s.metrics.StoreError(string(errs.KindOf(err)))
		return models.DispenseStatistic{}, err
	}

	s.metrics.StatisticRecorded(stat.Module, stat.PickupDelay())
	s.logger.Info("Dispense statistic saved",
		zap.String("id", stat.ID),
		zap.Int("module", stat.Module),
		zap.Duration("pickup_delay", stat.PickupDelay()),
	)
	return stat, nil
}

// List returns statistics, most recently recorded first.
func (s *StatisticsService) List(ctx context.Context, filter database.StatisticFilter) ([]models.DispenseStatistic, error) {
	stats, err := s.store.ListStatistics(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list dispense statistics", zap.Error(err))
		s.metrics.StoreError(string(errs.KindOf(err)))
		return nil, err
	}
	return stats, nil
}

// Clear deletes every statistic unconditionally.
func (s *StatisticsService) Clear(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteStatistics(ctx)
	if err != nil {
		s.logger.Error("Failed to clear dispense statistics", zap.Error(err))
		s.metrics.StoreError(string(errs.KindOf(err)))
		return 0, err
	}
	s.metrics.StatisticsCleared(deleted)
	s.logger.Info("Dispense statistics cleared", zap.Int64("deleted", deleted))
	return deleted, nil
}
