package client

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect описывает синтаксические особенности СУБД: экранирование
// идентификаторов, плейсхолдеры параметров, пагинация, TRUNCATE.
type Dialect struct {
	name string

	quoteOpen  string
	quoteClose string

	// numberedPlaceholders - true для PostgreSQL ($1, $2, ...),
	// false для ?-style (mssql/odbc/mysql/sqlite)
	numberedPlaceholders bool

	// offsetFetch - true для SQL Server (OFFSET ... ROWS FETCH NEXT ... ROWS ONLY),
	// false для LIMIT/OFFSET
	offsetFetch bool

	// hasTruncate - false для sqlite (используется DELETE FROM)
	hasTruncate bool
}

var dialects = map[string]*Dialect{
	DriverODBC:     {name: "mssql", quoteOpen: "[", quoteClose: "]", offsetFetch: true, hasTruncate: true},
	DriverMSSQL:    {name: "mssql", quoteOpen: "[", quoteClose: "]", offsetFetch: true, hasTruncate: true},
	DriverPostgres: {name: "postgres", quoteOpen: `"`, quoteClose: `"`, numberedPlaceholders: true, hasTruncate: true},
	DriverMySQL:    {name: "mysql", quoteOpen: "`", quoteClose: "`", hasTruncate: true},
	DriverSQLite:   {name: "sqlite", quoteOpen: `"`, quoteClose: `"`},
}

// DialectFor возвращает диалект для типа драйвера
func DialectFor(driver string) (*Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no dialect for driver %q", driver)
	}
	return d, nil
}

// Name возвращает имя диалекта ("mssql", "postgres", "mysql", "sqlite")
func (d *Dialect) Name() string {
	return d.name
}

// QuoteIdentifier экранирует имя таблицы или колонки.
// Колонки с пробелами обязаны быть в скобках, остальным не вредит.
func (d *Dialect) QuoteIdentifier(name string) string {
	return d.quoteOpen + name + d.quoteClose
}

// QuoteTable экранирует имя таблицы с учетом схемы.
// "Users" + схема "dbo" → "[dbo].[Users]", "dbo.Users" разбирается сам.
func (d *Dialect) QuoteTable(schema, table string) string {
	if parts := strings.SplitN(table, ".", 2); len(parts) == 2 {
		schema, table = parts[0], parts[1]
	}
	if schema == "" {
		return d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

// PaginationClause возвращает суффикс пагинации для запроса.
// SQL Server: " OFFSET n ROWS FETCH NEXT m ROWS ONLY" (требует ORDER BY),
// остальные: " LIMIT m OFFSET n".
func (d *Dialect) PaginationClause(offset, limit int) string {
	if d.offsetFetch {
		return fmt.Sprintf(" OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", offset, limit)
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

// RequiresOrderBy сообщает, требует ли пагинация ORDER BY в запросе
func (d *Dialect) RequiresOrderBy() bool {
	return d.offsetFetch
}

// TruncateStatement возвращает SQL очистки таблицы
func (d *Dialect) TruncateStatement(qualifiedTable string) string {
	if d.hasTruncate {
		return "TRUNCATE TABLE " + qualifiedTable
	}
	return "DELETE FROM " + qualifiedTable
}

// ListTablesQuery возвращает запрос списка пользовательских таблиц.
// Две колонки: схема (пустая для sqlite) и имя таблицы.
func (d *Dialect) ListTablesQuery() string {
	switch d.name {
	case "mssql":
		return `SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_SCHEMA, TABLE_NAME`
	case "postgres":
		return `SELECT table_schema, table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' AND table_schema NOT IN ('pg_catalog', 'information_schema') ORDER BY table_schema, table_name`
	case "mysql":
		return `SELECT table_schema, table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' AND table_schema = DATABASE() ORDER BY table_name`
	default: // sqlite
		return `SELECT '', name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	}
}

// Placeholders возвращает список плейсхолдеров для n параметров:
// "?, ?, ?" или "$1, $2, $3" для PostgreSQL
func (d *Dialect) Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		if d.numberedPlaceholders {
			parts[i] = "$" + strconv.Itoa(i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// RewritePlaceholders переписывает ?-плейсхолдеры в нумерованные ($1...)
// для PostgreSQL. Вопросительные знаки внутри строковых литералов '...'
// не трогаются. Для остальных диалектов запрос возвращается как есть.
func (d *Dialect) RewritePlaceholders(query string) string {
	if !d.numberedPlaceholders {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inString := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			// '' внутри литерала - экранированная кавычка
			if inString && i+1 < len(query) && query[i+1] == '\'' {
				b.WriteString("''")
				i++
				continue
			}
			inString = !inString
			b.WriteByte(ch)
		case ch == '?' && !inString:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}

	return b.String()
}
