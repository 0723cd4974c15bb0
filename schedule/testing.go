package schedule

import (
	"database/sql"
	"testing"

	meridiantest "github.com/meridian-run/meridian/internal/testing"
)

// createTestDB creates an in-memory test database with the schema applied.
func createTestDB(t *testing.T) *sql.DB {
	return meridiantest.CreateTestDB(t)
}
