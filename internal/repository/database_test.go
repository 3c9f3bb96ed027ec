package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for database operations against a local test database.
// Run with: go test -v ./internal/repository/...

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "funba_test",
		User:     "funba_user",
		Password: "funba_password",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1), "Should have at least 1 max connection")
}

func TestDatabasePing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.Pool.Ping(ctx)
	assert.NoError(t, err, "Should successfully ping database")
}

func TestRunTx_DryRunRollsBack(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	const gameID = "0099900001"

	err := db.RunTx(ctx, false, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO games (game_id) VALUES ($1)`, gameID)
		return err
	})
	require.NoError(t, err, "dry-run transaction should succeed")

	_, err = db.Games.GetByGameID(ctx, gameID)
	assert.Error(t, err, "dry-run writes must not be visible after rollback")
}

func TestRunTx_CommitPersists(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	const gameID = "0099900002"
	defer db.Pool.Exec(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)

	err := db.RunTx(ctx, true, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO games (game_id) VALUES ($1)`, gameID)
		return err
	})
	require.NoError(t, err)

	game, err := db.Games.GetByGameID(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, gameID, game.GameID)
}
