package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDRoundTrip(t *testing.T) {
	id, err := ParseUUID(" 7f1c0e6a-4a0e-4f43-9a51-1f3a0c0ad001 ")
	require.NoError(t, err)
	require.Equal(t, "7f1c0e6a-4a0e-4f43-9a51-1f3a0c0ad001", UUIDString(id))

	_, err = ParseUUID("not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidUUID)
}

func TestErrorClassifiers(t *testing.T) {
	require.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	require.False(t, IsUniqueViolation(errors.New("boom")))
	require.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func TestMigrateURL(t *testing.T) {
	require.Equal(t, "pgx5://u:p@localhost/db", migrateURL("postgres://u:p@localhost/db"))
	require.Equal(t, "pgx5://localhost/db", migrateURL("postgresql://localhost/db"))
	require.Equal(t, "pgx5://x", migrateURL("pgx5://x"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 2)
}
