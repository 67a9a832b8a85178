package testhelpers

import (
	"testing"

	"github.com/pageza/recetario/config"
	"github.com/stretchr/testify/assert"
)

func TestSQLiteConfig(t *testing.T) {
	a := SQLiteConfig(t)
	b := SQLiteConfig(t)
	assert.Equal(t, config.DriverSQLite, a.StoreDriver)
	assert.NotEqual(t, a.SQLitePath, b.SQLitePath)
}
