package db

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"membership-admin/migrations"
	"membership-admin/pkg/logger"
)

func newSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}

func appliedMigrations(t *testing.T, gormDB *gorm.DB) []string {
	t.Helper()
	var names []string
	require.NoError(t, gormDB.Raw("SELECT filename FROM schema_migrations ORDER BY filename").Scan(&names).Error)
	return names
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := migrationFiles(migrations.Files)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_member.sql"}, files)
}

func TestMemberMigrationAcceptsAnyNonNegativeAge(t *testing.T) {
	contents, err := fs.ReadFile(migrations.Files, "001_create_member.sql")
	require.NoError(t, err)

	sql := string(contents)
	assert.Contains(t, sql, "CHECK (age IS NULL OR age >= 0)")
	assert.NotContains(t, sql, "age >= 1")
}

func TestMigrateFSAppliesInOrderOnce(t *testing.T) {
	gormDB := newSQLite(t)
	fsys := fstest.MapFS{
		"002_add_note.sql": {Data: []byte("ALTER TABLE member ADD COLUMN note TEXT;")},
		"001_member.sql":   {Data: []byte("CREATE TABLE member (id TEXT PRIMARY KEY, full_name TEXT NOT NULL);")},
		"003_blank.sql":    {Data: []byte("  \n")},
		"README.md":        {Data: []byte("not a migration")},
		"nested/004_x.sql": {Data: []byte("DROP TABLE member;")},
	}

	require.NoError(t, MigrateFS(gormDB, fsys, logger.Nop()))
	assert.Equal(t, []string{"001_member.sql", "002_add_note.sql"}, appliedMigrations(t, gormDB))

	require.NoError(t, gormDB.Exec("INSERT INTO member (id, full_name, note) VALUES ('1', 'Jane', 'vip')").Error)

	// A second run finds nothing pending.
	require.NoError(t, MigrateFS(gormDB, fsys, logger.Nop()))
	assert.Len(t, appliedMigrations(t, gormDB), 2)
}

func TestMigrateFSRollsBackFailedFile(t *testing.T) {
	gormDB := newSQLite(t)
	fsys := fstest.MapFS{
		"001_member.sql": {Data: []byte("CREATE TABLE member (id TEXT PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("ALTER TABLE missing ADD COLUMN x TEXT;")},
	}

	err := MigrateFS(gormDB, fsys, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.sql")
	assert.Equal(t, []string{"001_member.sql"}, appliedMigrations(t, gormDB))
}
