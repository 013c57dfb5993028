package database

import (
	"path/filepath"
	"testing"

	"AguaPos/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *LocalDB {
	t.Helper()
	db, err := Open(config.StorageConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "data", "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSetAndGetItem(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.GetItem("appState")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.SetItems(map[string]string{"appState": `{"a":1}`}))
	require.NoError(t, db.SetItems(map[string]string{"appState": `{"a":2}`}))

	value, ok, err := db.GetItem("appState")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":2}`, value)
}

func TestSetItemsAndKeys(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SetItems(map[string]string{
		"posHistory": "[]",
		"appState":   "{}",
	}))

	keys, err := db.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"appState", "posHistory"}, keys)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	cfg := config.StorageConfig{Driver: "sqlite", Path: path}

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.SetItems(map[string]string{"appState": "saved"}))
	require.NoError(t, db.Close())

	db, err = Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	value, ok, err := db.GetItem("appState")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "saved", value)
	assert.Equal(t, path, db.Path())
	assert.Equal(t, "sqlite", db.Driver())
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(config.StorageConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn := buildPostgresDSN(config.PostgresConfig{
		Host: "db", Port: 5432, Database: "agua", Username: "pos", Password: "pw", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=pos password=pw dbname=agua sslmode=disable", dsn)

	assert.Equal(t, "postgres://x", buildPostgresDSN(config.PostgresConfig{DSN: "postgres://x"}))
}
