package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	conn := openMemory(t)
	m := NewMigrationManager(conn)

	require.NoError(t, m.RunMigrations())
	require.NoError(t, m.RunMigrations())

	applied, err := m.GetAppliedMigrations()
	require.NoError(t, err)
	assert.True(t, applied[1])

	for _, table := range []string{"sessions", "samples"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestLoadMigrationsOrdered(t *testing.T) {
	migrations, err := NewMigrationManager(openMemory(t)).LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_create_sessions", migrations[0].Name)
	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	conn := openMemory(t)
	_, err := conn.Exec("CREATE TABLE kv (k TEXT PRIMARY KEY)")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = Transaction(context.Background(), conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO kv (k) VALUES ('a')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n))
	assert.Zero(t, n)

	err = Transaction(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO kv (k) VALUES ('b')")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n))
	assert.Equal(t, 1, n)
}
