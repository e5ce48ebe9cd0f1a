package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE sku_aliases (
		id INTEGER PRIMARY KEY,
		client_id INTEGER,
		alias_text VARCHAR(191)
	)`).Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "sku_aliases")
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "alias_text", columns[2].Field)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE sales (id INTEGER PRIMARY KEY, order_id TEXT)`).Error)

	missing, err := MissingColumns(db, "sales", []string{"id", "ORDER_ID", "channel"})
	require.NoError(t, err)
	assert.Equal(t, []string{"channel"}, missing)
}
