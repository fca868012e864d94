package infrastructure

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widgetRow struct {
	ID string `gorm:"primaryKey"`
}

func (widgetRow) TableName() string { return "widgets" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestSchemaLoader_LoadAppliesUnitsAndTracksVersions(t *testing.T) {
	db := newTestDB(t)
	loader := NewSchemaLoader(db)
	loader.RegisterTables("0002", "widgets", &widgetRow{})

	require.NoError(t, loader.Load())

	assert.True(t, db.Migrator().HasTable(&widgetRow{}))

	var applied []schemaMigration
	require.NoError(t, db.Order("version ASC").Find(&applied).Error)
	require.Len(t, applied, 2)
	assert.Equal(t, "0001", applied[0].Version)
	assert.Equal(t, "0002", applied[1].Version)
	assert.Equal(t, "widgets", applied[1].Name)
	assert.False(t, applied[1].AppliedAt.IsZero())
}

func TestSchemaLoader_LoadIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	loader := NewSchemaLoader(db)
	loader.RegisterTables("0002", "widgets", &widgetRow{})

	require.NoError(t, loader.Load())
	var firstRun []schemaMigration
	require.NoError(t, db.Find(&firstRun).Error)

	require.NoError(t, loader.Load())
	var secondRun []schemaMigration
	require.NoError(t, db.Find(&secondRun).Error)

	assert.Equal(t, len(firstRun), len(secondRun))
}

func TestSchemaLoader_LoadOnlyAppliesNewUnitsAfterRestart(t *testing.T) {
	db := newTestDB(t)
	first := NewSchemaLoader(db)
	require.NoError(t, first.Load())

	second := NewSchemaLoader(db)
	second.RegisterTables("0002", "widgets", &widgetRow{})
	require.NoError(t, second.Load())

	var applied []schemaMigration
	require.NoError(t, db.Find(&applied).Error)
	require.Len(t, applied, 2)
	assert.True(t, db.Migrator().HasTable(&widgetRow{}))
}

func TestSchemaLoader_ResetDropsManagedTablesAndTracking(t *testing.T) {
	db := newTestDB(t)
	loader := NewSchemaLoader(db)
	loader.RegisterTables("0002", "widgets", &widgetRow{})
	require.NoError(t, loader.Load())
	require.True(t, db.Migrator().HasTable(&widgetRow{}))

	require.NoError(t, loader.Reset())

	assert.False(t, db.Migrator().HasTable(&widgetRow{}))
	assert.False(t, db.Migrator().HasTable(&schemaMigration{}))

	require.NoError(t, loader.Load())
	assert.True(t, db.Migrator().HasTable(&widgetRow{}))
}
