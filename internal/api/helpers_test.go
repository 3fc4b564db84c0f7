package api

import (
	"strconv"
	"testing"

	"gorm.io/gorm"

	"github.com/rohits-web03/worklog/internal/repositories"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	return repositories.DB
}
