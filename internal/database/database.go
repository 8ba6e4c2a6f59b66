package database

import (
	"fmt"
	"time"

	"finguard/internal/logger"
	"finguard/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Manager handles database operations
type Manager struct {
	db  *gorm.DB
	url string
}

// NewManager creates a new database manager
func NewManager(config *Config) (*Manager, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: config.DSN(),
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, url: config.URL()}, nil
}

// RunMigrations applies pending SQL migrations from the migrations/ directory.
func (m *Manager) RunMigrations() error {
	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New("file://migrations", m.url)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// SeedDefaultCategories creates the system-wide default categories as ordinary
// rows flagged is_default, with no owning user. Existing rows are left as-is,
// so the seed is safe to run on every startup.
func SeedDefaultCategories(db *gorm.DB) error {
	seed := func(names []string, kind models.CategoryKind) error {
		for _, name := range names {
			category := models.Category{
				Name:      name,
				Kind:      kind,
				IsDefault: true,
			}
			err := db.Where("name = ? AND kind = ? AND user_id IS NULL", name, kind).
				FirstOrCreate(&category).Error
			if err != nil {
				return fmt.Errorf("failed to seed category %s/%s: %w", kind, name, err)
			}
		}
		return nil
	}

	if err := seed(models.DefaultExpenseCategories, models.CategoryKindExpense); err != nil {
		return err
	}
	return seed(models.DefaultIncomeCategories, models.CategoryKindIncome)
}
