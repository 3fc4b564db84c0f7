package repositories

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rohits-web03/worklog/internal/config"
	"github.com/rohits-web03/worklog/internal/models"
)

var DB *gorm.DB

// Open connects to the store selected by driver ("sqlite" or "postgres").
// For sqlite, dsn is the database file path.
func Open(driver, dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(sqliteDSN(dsn))
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// sqliteParams are appended to every sqlite DSN unless already set.
// Immediate transactions take the write lock at BEGIN, so concurrent
// read-then-write transactions queue on the busy timeout instead of failing
// with SQLITE_BUSY on lock upgrade.
var sqliteParams = []struct{ key, value string }{
	{"_foreign_keys", "on"},
	{"_txlock", "immediate"},
	{"_journal_mode", "WAL"},
	{"_busy_timeout", "5000"},
}

func sqliteDSN(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range sqliteParams {
		if strings.Contains(dsn, p.key+"=") {
			continue
		}
		b.WriteString(sep + p.key + "=" + p.value)
		sep = "&"
	}
	return b.String()
}

// Migrate creates or updates the users, activities, working_hours and
// api_usages tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.WorkingHours{},
		&models.APIUsage{},
	)
}

func ConnectDatabase() {
	level := logger.Warn
	if config.Envs.Environment == "production" {
		level = logger.Error
	}

	db, err := Open(config.Envs.DBDriver, config.Envs.DB_URL, logger.Default.LogMode(level))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	DB = db
	log.Info().Str("driver", config.Envs.DBDriver).Msg("Successfully connected to database")
}
