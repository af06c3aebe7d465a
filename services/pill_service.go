package services

import (
	"context"

	"pastillero-service/database"
	"pastillero-service/errs"
	"pastillero-service/metrics"
	"pastillero-service/models"

	"go.uber.org/zap"
)

// DefaultPills is the fixed set the seed endpoint inserts, one per module.
func DefaultPills() []models.PillDefinition {
	return []models.PillDefinition{
		{Name: "Paracetamol", IntervalSeconds: 15, Module: 1},
		{Name: "Ibuprofeno", IntervalSeconds: 8, Module: 2},
	}
}

type PillService struct {
	store   database.Store
	logger  *zap.Logger
	metrics *metrics.Manager
}

func NewPillService(store database.Store, logger *zap.Logger, m *metrics.Manager) *PillService {
	return &PillService{store: store, logger: logger, metrics: m}
}

// Seed inserts DefaultPills in a single bulk write. Seeding is additive:
// calling it twice leaves four records.
func (s *PillService) Seed(ctx context.Context) ([]models.PillDefinition, error) {
	pills, err := s.store.InsertPills(ctx, DefaultPills())
	if err != nil {
		s.logger.Error("Failed to seed pill definitions", zap.Error(err))
		s.metrics.StoreError(string(errs.KindOf(err)))
		return nil, err
	}
	s.metrics.PillsSeeded(len(pills))
	s.logger.Info("Pill definitions seeded", zap.Int("inserted", len(pills)))
	return pills, nil
}

// ListByModule returns every definition, newest first, split by module.
func (s *PillService) ListByModule(ctx context.Context) (models.ModuleBuckets, error) {
	pills, err := s.store.ListPills(ctx)
	if err != nil {
		s.logger.Error("Failed to list pill definitions", zap.Error(err))
		s.metrics.StoreError(string(errs.KindOf(err)))
		return models.ModuleBuckets{}, err
	}
	buckets := GroupByModule(pills)
	s.logger.Debug("Pill definitions listed",
		zap.Int("modulo1", len(buckets.Modulo1)),
		zap.Int("modulo2", len(buckets.Modulo2)),
		zap.Int("ignored", len(pills)-len(buckets.Modulo1)-len(buckets.Modulo2)),
	)
	return buckets, nil
}

// FindByName returns the definitions registered under name, newest first.
func (s *PillService) FindByName(ctx context.Context, name string) ([]models.PillDefinition, error) {
	pills, err := s.store.FindPillsByName(ctx, name)
	if err != nil {
		s.logger.Error("Failed to find pill definitions", zap.String("name", name), zap.Error(err))
		s.metrics.StoreError(string(errs.KindOf(err)))
		return nil, err
	}
	if len(pills) == 0 {
		return nil, errs.NotFound("No se encontró la pastilla " + name)
	}
	return pills, nil
}

// GroupByModule keeps the input order inside each bucket. Modules other than
// 1 and 2 land in neither bucket.
func GroupByModule(pills []models.PillDefinition) models.ModuleBuckets {
	buckets := models.ModuleBuckets{
		Modulo1: []models.PillDefinition{},
		Modulo2: []models.PillDefinition{},
	}
	for _, p := range pills {
		switch p.Module {
		case 1:
			buckets.Modulo1 = append(buckets.Modulo1, p)
		case 2:
			buckets.Modulo2 = append(buckets.Modulo2, p)
		}
	}
	return buckets
}
