package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryDB(t *testing.T) Config {
	t.Helper()
	return Config{Driver: DriverSQLite, Name: ":memory:"}
}

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(memoryDB(t))
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])

	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

type schemaRow struct {
	ID    int `gorm:"primaryKey"`
	Title string
}

func (schemaRow) TableName() string { return "schema_rows" }

func TestEnsureSchema(t *testing.T) {
	db, err := Connect(memoryDB(t))
	require.NoError(t, err)

	assert.NoError(t, EnsureSchema(db, "schema_rows", []string{"id", "title"}, &schemaRow{}))

	err = EnsureSchema(db, "schema_rows", []string{"id", "overview"}, &schemaRow{})
	assert.ErrorContains(t, err, "overview")
}
