package db

import (
	"fmt"
	"log/slog"
	"time"

	"it_inventory/config"
	"it_inventory/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

func dialector(cfg config.Database) (gorm.Dialector, error) {
	dsn := cfg.DSN()
	switch cfg.Driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// gormConfig is shared by Open and the test helpers. References between
// entities are weak (history survives user and asset deletion), so GORM must not
// create foreign keys from the association fields.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
		Logger:                                   logger.Default.LogMode(logger.Warn),
	}
}

// Connect opens the configured database, registers timing callbacks and runs
// migrations.
func Connect(cfg config.Database, log *slog.Logger) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dial, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}
	if err := RegisterTimingCallbacks(gdb); err != nil {
		return nil, err
	}
	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("database connected", "driver", gdb.Dialector.Name())
	return gdb, nil
}

// Migrate creates the schema plus the partial unique indexes that back the
// single-active-borrow and single-open-disposal rules. MySQL has no partial
// indexes; there the in-transaction checks under row locks carry the rule alone.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Inventory{},
		&models.BorrowRecord{},
		&models.Disposal{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == DriverMySQL {
		return nil
	}

	stmts := []string{
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_one_active_per_asset
		  ON %s (inventory_id)
		  WHERE status IN ('Borrowed', 'Extended', 'Overdue')`, models.BorrowRecordTable, models.BorrowRecordTable),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_asset
		  ON %s (inventory_id)
		  WHERE status IN ('Pending', 'Approved')`, models.DisposalTable, models.DisposalTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_active_due
		  ON %s (expected_return_date)
		  WHERE status IN ('Borrowed', 'Extended')`, models.BorrowRecordTable, models.BorrowRecordTable),
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
