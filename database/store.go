package database

import (
	"context"
	"fmt"

	"pastillero-service/config"
	"pastillero-service/models"
)

// Collection names in the deployed pastillero database. The pill collection
// name predates the second module and is kept for compatibility.
const (
	PillCollection       = "modulo 1"
	StatisticsCollection = "estadisticas"
)

// StatisticFilter narrows ListStatistics. A nil Module returns every module.
type StatisticFilter struct {
	Module *int
}

// Store is the document store holding pill definitions and dispense
// statistics. Implementations must be safe for concurrent use.
type Store interface {
	Driver() string
	Database() string

	// Ping fails with a StoreUnavailable error when the connection is not ready.
	Ping(ctx context.Context) error

	// InsertPills stores every definition or none of them.
	InsertPills(ctx context.Context, pills []models.PillDefinition) ([]models.PillDefinition, error)
	// ListPills returns all definitions, newest first.
	ListPills(ctx context.Context) ([]models.PillDefinition, error)
	FindPillsByName(ctx context.Context, name string) ([]models.PillDefinition, error)
	CountPills(ctx context.Context) (int64, error)

	InsertStatistic(ctx context.Context, stat models.DispenseStatistic) (models.DispenseStatistic, error)
	// ListStatistics returns matching statistics, most recently recorded first.
	ListStatistics(ctx context.Context, filter StatisticFilter) ([]models.DispenseStatistic, error)
	CountStatistics(ctx context.Context) (int64, error)
	// DeleteStatistics removes every statistic and reports how many were removed.
	DeleteStatistics(ctx context.Context) (int64, error)

	Close(ctx context.Context) error
}

// Open connects the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "mongo":
		if cfg.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
			defer cancel()
		}
		return OpenMongo(ctx, cfg.MongoURI, cfg.Database)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
