package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE rooms (number TEXT PRIMARY KEY, status TEXT NOT NULL)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "rooms")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	set := ColumnSet(columns)
	assert.Equal(t, "text", set["number"].Type)
	assert.Equal(t, "PRI", set["number"].Key)
	assert.Equal(t, "NO", set["status"].Null)

	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}
