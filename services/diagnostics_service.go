package services

import (
	"context"

	"pastillero-service/database"

	"go.uber.org/zap"
)

// Diagnostics describes the store the service is talking to.
type Diagnostics struct {
	Driver               string `json:"driver"`
	Database             string `json:"database"`
	Connected            bool   `json:"connected"`
	PillCollection       string `json:"pillCollection"`
	StatisticsCollection string `json:"statisticsCollection"`
	Pills                int64  `json:"pills"`
	Statistics           int64  `json:"statistics"`
}

type DiagnosticsService struct {
	store  database.Store
	logger *zap.Logger
}

func NewDiagnosticsService(store database.Store, logger *zap.Logger) *DiagnosticsService {
	return &DiagnosticsService{store: store, logger: logger}
}

// Check pings the store and counts both collections. The returned
// Diagnostics is filled as far as the store allowed even when err != nil.
func (s *DiagnosticsService) Check(ctx context.Context) (Diagnostics, error) {
	d := Diagnostics{
		Driver:               s.store.Driver(),
		Database:             s.store.Database(),
		PillCollection:       database.PillCollection,
		StatisticsCollection: database.StatisticsCollection,
	}

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("Store ping failed", zap.Error(err))
		return d, err
	}
	d.Connected = true

	pills, err := s.store.CountPills(ctx)
	if err != nil {
		return d, err
	}
	d.Pills = pills

	stats, err := s.store.CountStatistics(ctx)
	if err != nil {
		return d, err
	}
	d.Statistics = stats
	return d, nil
}
