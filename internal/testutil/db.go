package testutil

import (
	"context"
	"path/filepath"
	"testing"

	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// InitTestDB opens a fresh sqlite database under t.TempDir and migrates it.
func InitTestDB(t *testing.T, migrate func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	dsn := "sqlite://" + filepath.Join(t.TempDir(), "storefront.db")
	db, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if migrate != nil {
		require.NoError(t, migrate(db))
	}
	return db
}
