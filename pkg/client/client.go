package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ruslano69/sqlbridge/pkg/audit"
)

// Client - одно подключение к БД поверх database/sql.
// Синхронный запрос/ответ, без собственного пула и конкурентности:
// все пулы и повторное использование соединений отдаются драйверу.
type Client struct {
	db      *sql.DB
	config  Config
	dialect *Dialect
	audit   audit.Logger
}

// Result - результат SELECT запроса: имена колонок и строки значений
// в том виде, в котором их вернул драйвер.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Len возвращает количество строк результата
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// RowStrings конвертирует строки результата в текстовое представление.
// NULL заменяется на nullToken, []byte и time.Time приводятся к строке.
// Используется экспортом и верификацией зеркала.
func (r *Result) RowStrings(nullToken string) [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = valueToString(v, nullToken)
		}
		out[i] = cells
	}
	return out
}

func valueToString(v any, nullToken string) string {
	switch val := v.(type) {
	case nil:
		return nullToken
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05.9999999")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Open открывает подключение к БД и проверяет его ping-ом
func Open(ctx context.Context, cfg Config) (*Client, error) {
	c := &Client{
		config: cfg,
		audit:  audit.NewNullLogger(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, c.opError("open", "", err)
	}

	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, c.opError("open", "", err)
	}
	c.dialect = dialect

	db, err := sql.Open(cfg.driverName(), cfg.BuildDSN())
	if err != nil {
		return nil, c.opError("open", "", fmt.Errorf("failed to open database: %w", err))
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	pingCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, c.opError("open", "", fmt.Errorf("failed to ping database: %w", err))
	}

	c.db = db
	return c, nil
}

// Close закрывает подключение
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return c.opError("close", "", err)
	}
	return nil
}

// Ping проверяет доступность БД
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return c.opError("ping", "", err)
	}
	return nil
}

// Dialect возвращает диалект SQL клиента
func (c *Client) Dialect() *Dialect {
	return c.dialect
}

// Config возвращает конфигурацию подключения
func (c *Client) Config() Config {
	return c.config
}

// Schema возвращает эффективную схему (из конфигурации или по умолчанию)
func (c *Client) Schema() string {
	return c.config.schemaOrDefault()
}

// SetAuditLogger включает аудит операций клиента
func (c *Client) SetAuditLogger(l audit.Logger) {
	if l == nil {
		l = audit.NewNullLogger()
	}
	c.audit = l
}

// Query выполняет SELECT запрос с позиционными ?-параметрами.
// Плейсхолдеры переписываются под диалект (PostgreSQL: $1, $2, ...).
func (c *Client) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	start := time.Now()

	rows, err := c.db.QueryContext(ctx, c.dialect.RewritePlaceholders(query), args...)
	if err != nil {
		c.record(ctx, audit.OpQuery, query, 0, start, err)
		return nil, c.opError("query", query, err)
	}
	defer rows.Close()

	result, err := scanAll(rows)
	if err != nil {
		c.record(ctx, audit.OpQuery, query, 0, start, err)
		return nil, c.opError("query", query, err)
	}

	c.record(ctx, audit.OpQuery, query, int64(result.Len()), start, nil)
	return result, nil
}

// Exec выполняет запрос без результата (INSERT/UPDATE/DELETE/DDL).
// Возвращает количество затронутых строк.
func (c *Client) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	start := time.Now()

	res, err := c.db.ExecContext(ctx, c.dialect.RewritePlaceholders(query), args...)
	if err != nil {
		c.record(ctx, audit.OpExec, query, 0, start, err)
		return 0, c.opError("exec", query, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// Не все драйверы сообщают RowsAffected
		affected = 0
	}

	c.record(ctx, audit.OpExec, query, affected, start, nil)
	return affected, nil
}

// ExecBatch выполняет один запрос для каждого набора параметров из batch
// в одной транзакции (аналог executemany). Запрос подготавливается один
// раз. Пустой batch - ошибка, все строки должны быть одной длины.
func (c *Client) ExecBatch(ctx context.Context, query string, batch [][]any) (int64, error) {
	start := time.Now()

	if len(batch) == 0 {
		err := fmt.Errorf("batch is empty")
		return 0, c.opError("exec_batch", query, err)
	}
	width := len(batch[0])
	for i, row := range batch {
		if len(row) != width {
			err := fmt.Errorf("batch row %d has %d values, expected %d", i, len(row), width)
			return 0, c.opError("exec_batch", query, err)
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, c.opError("exec_batch", query, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, c.dialect.RewritePlaceholders(query))
	if err != nil {
		return 0, c.opError("exec_batch", query, fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer stmt.Close()

	var written int64
	for i, row := range batch {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			c.record(ctx, audit.OpBatch, query, written, start, err)
			return 0, c.opError("exec_batch", query, fmt.Errorf("failed on batch row %d: %w", i, err))
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		c.record(ctx, audit.OpBatch, query, written, start, err)
		return 0, c.opError("exec_batch", query, fmt.Errorf("failed to commit transaction: %w", err))
	}

	c.record(ctx, audit.OpBatch, query, written, start, nil)
	return written, nil
}

// TruncateTable очищает таблицу. Деструктивная операция.
// Для sqlite выполняется DELETE FROM (TRUNCATE не поддерживается).
func (c *Client) TruncateTable(ctx context.Context, table string) error {
	start := time.Now()

	query := c.dialect.TruncateStatement(c.dialect.QuoteTable(c.Schema(), table))
	if _, err := c.db.ExecContext(ctx, query); err != nil {
		c.record(ctx, audit.OpTruncate, query, 0, start, err)
		return c.opError("truncate", query, err)
	}

	c.record(ctx, audit.OpTruncate, query, 0, start, nil)
	return nil
}

// ListTables возвращает имена пользовательских таблиц в формате
// "schema.table" (или "table", если схема неприменима)
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	result, err := c.Query(ctx, c.dialect.ListTablesQuery())
	if err != nil {
		return nil, err
	}

	tables := make([]string, 0, result.Len())
	for _, row := range result.RowStrings("") {
		if len(row) != 2 {
			continue
		}
		if row[0] == "" {
			tables = append(tables, row[1])
			continue
		}
		tables = append(tables, row[0]+"."+row[1])
	}
	return tables, nil
}

// scanAll читает все строки sql.Rows в Result
func scanAll(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &Result{Columns: columns}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// record пишет запись аудита (NullLogger по умолчанию)
func (c *Client) record(ctx context.Context, op audit.Operation, query string, rowCount int64, start time.Time, opErr error) {
	entry := audit.NewEntry(op, audit.StatusSuccess)
	if opErr != nil {
		entry.Status = audit.StatusFailure
		entry.Error = opErr.Error()
	}
	entry.Server = c.config.Server
	entry.Database = c.config.Database
	entry.Query = query
	entry.Rows = rowCount
	entry.Duration = time.Since(start)

	// Ошибки аудита не должны ломать операцию
	_ = c.audit.Log(ctx, entry)
}
