// Package testsupport wires an isolated in-memory store for package tests.
package testsupport

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/repositories"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory sqlite database, migrates it and installs
// it as repositories.DB for the duration of the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := repositories.Open("sqlite", dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared-cache database alive and avoids
	// table-lock errors between pooled connections.
	sqlDB.SetMaxOpenConns(1)

	return install(t, db)
}

// NewFileDB opens a sqlite database file in a temp dir with the default
// connection pool, for tests that exercise concurrent transactions.
func NewFileDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "work.db")
	db, err := repositories.Open("sqlite", path, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	return install(t, db)
}

func install(t testing.TB, db *gorm.DB) *gorm.DB {
	t.Helper()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	prev := repositories.DB
	repositories.DB = db
	t.Cleanup(func() {
		repositories.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with a bcrypt-hashed password and, when apiKey
// is non-empty, a live API key.
func CreateUser(t testing.TB, db *gorm.DB, email, password, apiKey string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: strings.SplitN(email, "@", 2)[0], Email: email, Password: string(hash)}
	if apiKey != "" {
		user.APIKey = &apiKey
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
