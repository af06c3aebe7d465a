package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pastillero-service/errs"
	"pastillero-service/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath makes OpenSQLite create a private in-memory database.
const MemoryPath = ":memory:"

// GormStore keeps both record kinds in SQL tables through GORM. It backs
// local development and tests; production points at MongoDB.
type GormStore struct {
	db   *gorm.DB
	name string
}

// OpenSQLite opens (creating when needed) the SQLite file at dbPath and
// migrates the schema.
func OpenSQLite(dbPath string) (*GormStore, error) {
	dsn := dbPath
	name := filepath.Base(dbPath)
	if dbPath == MemoryPath {
		name = "pastillero-" + uuid.NewString()
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	} else {
		// Create directory if it doesn't exist
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}

		// Verify directory is writable by attempting to create a test file
		testFile := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			return nil, err
		}
		os.Remove(testFile)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if dbPath == MemoryPath {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// shared-cache memory databases lock per table across connections
		sqlDB.SetMaxOpenConns(1)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	return NewGormStore(db, name), nil
}

// NewGormStore wraps an already migrated connection.
func NewGormStore(db *gorm.DB, name string) *GormStore {
	return &GormStore{db: db, name: name}
}

func (s *GormStore) Driver() string   { return "sqlite" }
func (s *GormStore) Database() string { return s.name }

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.StoreUnavailable("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.StoreUnavailable("ping", err)
	}
	return nil
}

func (s *GormStore) InsertPills(ctx context.Context, pills []models.PillDefinition) ([]models.PillDefinition, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	if len(pills) == 0 {
		return []models.PillDefinition{}, nil
	}

	out := make([]models.PillDefinition, len(pills))
	copy(out, pills)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&out).Error
	})
	if err != nil {
		return nil, errs.StoreWrite("insert pills", err)
	}
	return out, nil
}

func (s *GormStore) ListPills(ctx context.Context) ([]models.PillDefinition, error) {
	pills := []models.PillDefinition{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&pills).Error; err != nil {
		return nil, errs.StoreRead("list pills", err)
	}
	return pills, nil
}

func (s *GormStore) FindPillsByName(ctx context.Context, name string) ([]models.PillDefinition, error) {
	pills := []models.PillDefinition{}
	if err := s.db.WithContext(ctx).Where("name = ?", name).Order("created_at DESC").Find(&pills).Error; err != nil {
		return nil, errs.StoreRead("find pills", err)
	}
	return pills, nil
}

func (s *GormStore) CountPills(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PillDefinition{}).Count(&count).Error; err != nil {
		return 0, errs.StoreRead("count pills", err)
	}
	return count, nil
}

func (s *GormStore) InsertStatistic(ctx context.Context, stat models.DispenseStatistic) (models.DispenseStatistic, error) {
	if err := s.db.WithContext(ctx).Create(&stat).Error; err != nil {
		return models.DispenseStatistic{}, errs.StoreWrite("insert statistic", err)
	}
	return stat, nil
}

func (s *GormStore) ListStatistics(ctx context.Context, filter StatisticFilter) ([]models.DispenseStatistic, error) {
	stats := []models.DispenseStatistic{}
	q := s.db.WithContext(ctx).Order("recorded_at DESC")
	if filter.Module != nil {
		q = q.Where("module = ?", *filter.Module)
	}
	if err := q.Find(&stats).Error; err != nil {
		return nil, errs.StoreRead("list statistics", err)
	}
	return stats, nil
}

func (s *GormStore) CountStatistics(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.DispenseStatistic{}).Count(&count).Error; err != nil {
		return 0, errs.StoreRead("count statistics", err)
	}
	return count, nil
}

func (s *GormStore) DeleteStatistics(ctx context.Context) (int64, error) {
	if err := s.Ping(ctx); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.DispenseStatistic{})
	if result.Error != nil {
		return 0, errs.StoreWrite("delete statistics", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
