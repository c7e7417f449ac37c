package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/srad/channelnotify/conf"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *conf.Cfg) (gorm.Dialector, error) {
	switch cfg.DbDriver {
	case conf.DriverSqlite:
		return sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", cfg.DbFileName)), nil
	case conf.DriverMysql:
		return mysql.Open(cfg.DbDsn), nil
	case conf.DriverPostgres:
		return postgres.New(postgres.Config{DSN: cfg.DbDsn}), nil
	default:
		return nil, fmt.Errorf("%w: %s", conf.ErrUnknownDriver, cfg.DbDriver)
	}
}

// Init opens the database configured in cfg and migrates the schema.
func Init(cfg *conf.Cfg) (*gorm.DB, error) {
	dialect, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialect, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", cfg.DbDriver, err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	log.Infof("[Init] %s database ready", cfg.DbDriver)

	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Notification{}); err != nil {
		return fmt.Errorf("[Migrate] Error Notification: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) {
	sqlDb, err := db.DB()
	if err != nil {
		log.Errorf("[Close] %s", err)
		return
	}
	if err := sqlDb.Close(); err != nil {
		log.Errorf("[Close] %s", err)
	}
}
