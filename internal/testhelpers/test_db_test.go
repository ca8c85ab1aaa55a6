package testhelpers

import (
	"errors"
	"testing"

	"interviewprep/internal/models"

	"gorm.io/gorm"
)

func TestSetupTestDBCreatesSchema(t *testing.T) {
	db := SetupTestDB(t)
	for _, model := range models.All() {
		if !db.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T to exist", model)
		}
	}
}

func TestDropTableRemovesTable(t *testing.T) {
	db := SetupTestDB(t)
	DropTable(t, db, &models.Session{})
	if db.Migrator().HasTable(&models.Session{}) {
		t.Fatalf("expected sessions table to be dropped")
	}
}

func TestSetupTestDBPanicsOnOpenFailure(t *testing.T) {
	orig := openSQLite
	defer func() { openSQLite = orig }()
	openSQLite = func(string) (*gorm.DB, error) { return nil, errors.New("boom") }

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on open failure")
		}
	}()

	SetupTestDB(t)
}

func TestSetupTestDBPanicsOnMigrateFailure(t *testing.T) {
	orig := migrateSchema
	defer func() { migrateSchema = orig }()
	migrateSchema = func(*gorm.DB) error { return errors.New("migrate boom") }

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on migrate failure")
		}
	}()

	SetupTestDB(t)
}

func TestDropTablePanicsOnFailure(t *testing.T) {
	db := SetupTestDB(t)
	orig := dropTableFn
	defer func() { dropTableFn = orig }()
	dropTableFn = func(*gorm.DB, any) error { return errors.New("drop fail") }

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on drop failure")
		}
	}()

	DropTable(t, db, &models.User{})
}
