package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectDatabase_SQLite(t *testing.T) {
	db, err := ConnectDatabase(DriverSQLite, "file::memory:?cache=shared", zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.NoError(t, sqlDB.Ping())
}

func TestConnectDatabase_Errors(t *testing.T) {
	_, err := ConnectDatabase(DriverSQLite, "", zap.NewNop())
	assert.Error(t, err)

	_, err = ConnectDatabase("postgres", "postgres://localhost", zap.NewNop())
	assert.ErrorContains(t, err, "unsupported")
}
