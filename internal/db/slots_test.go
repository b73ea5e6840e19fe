package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/db"
)

func TestSlot_ReadEmpty(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	_, err = db.NewSlot(database, "favorites").Read()

	assert.ErrorIs(t, err, db.ErrSlotEmpty)
}

func TestSlot_WriteOverwrites(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	slot := db.NewSlot(database, "favorites")
	require.NoError(t, slot.Write([]byte(`[1]`)))
	require.NoError(t, slot.Write([]byte(`[1,2]`)))

	got, err := slot.Read()
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	_, err = db.NewSlot(database, "other").Read()
	assert.ErrorIs(t, err, db.ErrSlotEmpty)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.WriteSlot(first, "s", []byte("persisted")))
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := db.ReadSlot(second, "s")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestOpen_SingleConnection(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, 1, database.Stats().MaxOpenConnections)

	// Reads between writes reuse the one connection.
	slot := db.NewSlot(database, "favorites")
	for _, data := range []string{`[]`, `[1]`, `[1,2]`} {
		require.NoError(t, slot.Write([]byte(data)))
		got, err := slot.Read()
		require.NoError(t, err)
		assert.Equal(t, data, string(got))
	}
}
