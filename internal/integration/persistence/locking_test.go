package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/recurring/internal/integration/persistence/model"
)

func lockedSelect(db *gorm.DB) string {
	stmt := forUpdate(db.Session(&gorm.Session{DryRun: true})).
		Where("id = ?", uuid.New()).
		First(&model.TransactionModel{}).
		Statement
	return stmt.SQL.String()
}

func TestForUpdate_Postgres(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=app dbname=app sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	assert.Contains(t, lockedSelect(db), "FOR UPDATE")
}

func TestForUpdate_SQLite(t *testing.T) {
	assert.NotContains(t, lockedSelect(newTestDB(t)), "FOR UPDATE")
}
