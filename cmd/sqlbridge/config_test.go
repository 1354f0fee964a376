package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruslano69/sqlbridge/pkg/client"
)

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	original := CreateSampleConfig(client.DriverODBC)
	original.Mirror = MirrorConfig{
		SourceTable: "Users",
		DestTable:   "users_mirror",
		Columns:     []string{"Id", "Name", "Email"},
		PageSize:    500,
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Database.Driver != client.DriverODBC {
		t.Errorf("Expected driver odbc, got %q", loaded.Database.Driver)
	}

	if loaded.Database.Schema != "dbo" {
		t.Errorf("Expected schema dbo, got %q", loaded.Database.Schema)
	}

	if loaded.Mirror.SourceTable != "Users" || loaded.Mirror.DestTable != "users_mirror" {
		t.Errorf("Unexpected mirror config: %+v", loaded.Mirror)
	}

	if len(loaded.Mirror.Columns) != 3 {
		t.Errorf("Expected 3 columns, got %d", len(loaded.Mirror.Columns))
	}

	if loaded.Retry.MaxAttempts != 3 || loaded.Retry.Strategy != "exponential" {
		t.Errorf("Unexpected retry config: %+v", loaded.Retry)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("database: [not a mapping"), 0644)

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestCreateSampleConfig_Drivers(t *testing.T) {
	pg := CreateSampleConfig(client.DriverPostgres)
	if pg.Database.Port != 5432 || pg.Database.Schema != "public" {
		t.Errorf("Unexpected postgres sample: %+v", pg.Database)
	}

	sqlite := CreateSampleConfig(client.DriverSQLite)
	if sqlite.Database.Database != "database.db" || sqlite.Database.Server != "" {
		t.Errorf("Unexpected sqlite sample: %+v", sqlite.Database)
	}

	mysql := CreateSampleConfig(client.DriverMySQL)
	if mysql.Database.Port != 3306 {
		t.Errorf("Unexpected mysql sample: %+v", mysql.Database)
	}
}
