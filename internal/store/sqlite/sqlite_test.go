package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/planora/weekplanner/internal/store"
	"github.com/planora/weekplanner/internal/store/storetest"
)

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		db, err := Open(filepath.Join(t.TempDir(), "planner.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		return NewWithDB(db)
	})
}
