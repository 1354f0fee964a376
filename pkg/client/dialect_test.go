package client

import (
	"strings"
	"testing"
)

func TestDialectFor(t *testing.T) {
	for _, driver := range []string{DriverODBC, DriverMSSQL, DriverPostgres, DriverMySQL, DriverSQLite} {
		d, err := DialectFor(driver)
		if err != nil {
			t.Errorf("Expected dialect for %s, got error: %v", driver, err)
		}
		if d == nil {
			t.Errorf("Expected non-nil dialect for %s", driver)
		}
	}

	if _, err := DialectFor("oracle"); err == nil {
		t.Error("Expected error for unknown driver")
	}
}

func TestDialect_QuoteIdentifier(t *testing.T) {
	tests := []struct {
		driver   string
		name     string
		expected string
	}{
		{DriverODBC, "Order Details", "[Order Details]"},
		{DriverMSSQL, "Users", "[Users]"},
		{DriverPostgres, "users", `"users"`},
		{DriverMySQL, "users", "`users`"},
		{DriverSQLite, "users", `"users"`},
	}

	for _, tt := range tests {
		d, _ := DialectFor(tt.driver)
		if got := d.QuoteIdentifier(tt.name); got != tt.expected {
			t.Errorf("%s: QuoteIdentifier(%q) = %q, want %q", tt.driver, tt.name, got, tt.expected)
		}
	}
}

func TestDialect_QuoteTable(t *testing.T) {
	mssql, _ := DialectFor(DriverMSSQL)

	// Схема из аргумента
	if got := mssql.QuoteTable("dbo", "Users"); got != "[dbo].[Users]" {
		t.Errorf("Expected [dbo].[Users], got %s", got)
	}

	// Схема в имени таблицы имеет приоритет
	if got := mssql.QuoteTable("dbo", "sales.Orders"); got != "[sales].[Orders]" {
		t.Errorf("Expected [sales].[Orders], got %s", got)
	}

	// Без схемы
	sqlite, _ := DialectFor(DriverSQLite)
	if got := sqlite.QuoteTable("", "users"); got != `"users"` {
		t.Errorf(`Expected "users", got %s`, got)
	}
}

func TestDialect_PaginationClause(t *testing.T) {
	mssql, _ := DialectFor(DriverMSSQL)
	if got := mssql.PaginationClause(200, 100); got != " OFFSET 200 ROWS FETCH NEXT 100 ROWS ONLY" {
		t.Errorf("Unexpected mssql pagination clause: %q", got)
	}

	pg, _ := DialectFor(DriverPostgres)
	if got := pg.PaginationClause(200, 100); got != " LIMIT 100 OFFSET 200" {
		t.Errorf("Unexpected postgres pagination clause: %q", got)
	}
}

func TestDialect_RequiresOrderBy(t *testing.T) {
	mssql, _ := DialectFor(DriverMSSQL)
	if !mssql.RequiresOrderBy() {
		t.Error("Expected mssql to require ORDER BY for pagination")
	}

	odbc, _ := DialectFor(DriverODBC)
	if !odbc.RequiresOrderBy() {
		t.Error("Expected odbc to require ORDER BY for pagination")
	}

	sqlite, _ := DialectFor(DriverSQLite)
	if sqlite.RequiresOrderBy() {
		t.Error("Expected sqlite to not require ORDER BY")
	}
}

func TestDialect_TruncateStatement(t *testing.T) {
	mssql, _ := DialectFor(DriverMSSQL)
	if got := mssql.TruncateStatement("[dbo].[Users]"); got != "TRUNCATE TABLE [dbo].[Users]" {
		t.Errorf("Unexpected truncate statement: %q", got)
	}

	// SQLite не поддерживает TRUNCATE
	sqlite, _ := DialectFor(DriverSQLite)
	if got := sqlite.TruncateStatement(`"users"`); got != `DELETE FROM "users"` {
		t.Errorf("Unexpected sqlite truncate statement: %q", got)
	}
}

func TestDialect_ListTablesQuery(t *testing.T) {
	mssql, _ := DialectFor(DriverMSSQL)
	if !strings.Contains(mssql.ListTablesQuery(), "INFORMATION_SCHEMA.TABLES") {
		t.Errorf("Unexpected mssql list query: %q", mssql.ListTablesQuery())
	}

	sqlite, _ := DialectFor(DriverSQLite)
	if !strings.Contains(sqlite.ListTablesQuery(), "sqlite_master") {
		t.Errorf("Unexpected sqlite list query: %q", sqlite.ListTablesQuery())
	}
}

func TestDialect_Placeholders(t *testing.T) {
	mssql, _ := DialectFor(DriverMSSQL)
	if got := mssql.Placeholders(3); got != "?, ?, ?" {
		t.Errorf("Expected '?, ?, ?', got %q", got)
	}

	pg, _ := DialectFor(DriverPostgres)
	if got := pg.Placeholders(3); got != "$1, $2, $3" {
		t.Errorf("Expected '$1, $2, $3', got %q", got)
	}

	if got := pg.Placeholders(0); got != "" {
		t.Errorf("Expected empty string for 0 placeholders, got %q", got)
	}
}

func TestDialect_RewritePlaceholders(t *testing.T) {
	pg, _ := DialectFor(DriverPostgres)

	tests := []struct {
		query    string
		expected string
	}{
		{
			"SELECT * FROM users WHERE id = ?",
			"SELECT * FROM users WHERE id = $1",
		},
		{
			"INSERT INTO t (a, b, c) VALUES (?, ?, ?)",
			"INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		},
		{
			// Вопросительный знак внутри строкового литерала не трогается
			"SELECT * FROM t WHERE q = 'what?' AND id = ?",
			"SELECT * FROM t WHERE q = 'what?' AND id = $1",
		},
		{
			// Экранированная кавычка '' внутри литерала
			"SELECT * FROM t WHERE name = 'O''Brien?' AND id = ?",
			"SELECT * FROM t WHERE name = 'O''Brien?' AND id = $1",
		},
		{
			"SELECT 1",
			"SELECT 1",
		},
	}

	for _, tt := range tests {
		if got := pg.RewritePlaceholders(tt.query); got != tt.expected {
			t.Errorf("RewritePlaceholders(%q) = %q, want %q", tt.query, got, tt.expected)
		}
	}

	// Для ?-style диалектов запрос не меняется
	mssql, _ := DialectFor(DriverMSSQL)
	query := "SELECT * FROM users WHERE id = ?"
	if got := mssql.RewritePlaceholders(query); got != query {
		t.Errorf("Expected unchanged query for mssql, got %q", got)
	}
}
