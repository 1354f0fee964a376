// Package mirror реализует массовое копирование данных между таблицами:
// постраничное чтение источника, батчевая вставка в приемник, опциональная
// колонка времени снимка, контрольные точки и верификация.
package mirror

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ruslano69/sqlbridge/pkg/audit"
	"github.com/ruslano69/sqlbridge/pkg/client"
	"github.com/ruslano69/sqlbridge/pkg/retry"
)

// DefaultTimestampColumn - имя колонки времени снимка по умолчанию.
// В SQL Server рекомендуется тип datetime2(7).
const DefaultTimestampColumn = "as_of_dtm"

// Options - параметры зеркалирования таблицы
type Options struct {
	// SourceTable - таблица-источник (может быть "schema.table")
	SourceTable string

	// DestTable - таблица-приемник, должна содержать все колонки
	// источника плюс колонку времени если AddTimestamp
	DestTable string

	// Columns - имена колонок источника. Скобки ставить не нужно,
	// экранирование делает диалект.
	Columns []string

	// OrderColumn - индекс колонки сортировки в Columns (по умолчанию 0)
	OrderColumn int

	// OrderDesc - сортировать по убыванию
	OrderDesc bool

	// PageSize - размер страницы чтения и батча вставки (по умолчанию 100)
	PageSize int

	// Limit - максимум строк для записи (0 = без лимита).
	// Последняя страница обрезается, чтобы записать ровно Limit строк.
	Limit int64

	// Truncate - очистить приемник перед записью
	Truncate bool

	// Where - условие фильтрации источника без слова WHERE,
	// например "ColumnA <> 'T' AND ColumnB <> 'R'"
	Where string

	// AddTimestamp - вставлять время снимка первой (или TimestampIndex-й)
	// колонкой каждой строки. Время берется один раз на страницу.
	AddTimestamp bool

	// TimestampColumn - имя колонки времени (по умолчанию as_of_dtm)
	TimestampColumn string

	// TimestampIndex - позиция колонки времени в приемнике
	TimestampIndex int

	// Checkpoint - менеджер контрольных точек для возобновляемых
	// зеркалирований (опционально)
	Checkpoint *StateManager

	// CheckpointKey - ключ состояния (по умолчанию "src->dst")
	CheckpointKey string

	// Resume - продолжить с сохраненной контрольной точки.
	// При возобновлении Truncate игнорируется.
	Resume bool

	// Retryer - повтор неудавшихся батчей (опционально)
	Retryer *retry.Retryer

	// Audit - логгер аудита (опционально)
	Audit audit.Logger
}

// DefaultOptions возвращает параметры зеркалирования по умолчанию:
// страница 100 строк, приемник очищается
func DefaultOptions(sourceTable, destTable string, columns []string) Options {
	return Options{
		SourceTable:     sourceTable,
		DestTable:       destTable,
		Columns:         columns,
		PageSize:        client.DefaultPageSize,
		Truncate:        true,
		TimestampColumn: DefaultTimestampColumn,
	}
}

// Result - итог зеркалирования
type Result struct {
	// RowsWritten - количество записанных строк
	RowsWritten int64

	// Pages - количество обработанных страниц
	Pages int

	// Duration - длительность операции
	Duration time.Duration
}

// Run копирует данные из таблицы источника в таблицу приемника.
// Источник читается постранично в порядке колонки сортировки,
// каждая страница вставляется одним батчем в транзакции приемника.
func Run(ctx context.Context, src, dst *client.Client, opts Options) (Result, error) {
	start := time.Now()

	if err := validate(&opts); err != nil {
		return Result{}, err
	}

	auditLog := opts.Audit
	if auditLog == nil {
		auditLog = audit.NewNullLogger()
	}

	key := opts.CheckpointKey
	if key == "" {
		key = opts.SourceTable + "->" + opts.DestTable
	}

	// Возобновление с контрольной точки
	resumeOffset := 0
	var rowsWritten int64
	if opts.Resume && opts.Checkpoint != nil {
		state := opts.Checkpoint.Get(key)
		resumeOffset = state.Offset
		rowsWritten = state.RowsWritten
	}

	// Очистка приемника. Деструктивно - при возобновлении пропускается.
	if opts.Truncate && resumeOffset == 0 {
		if err := dst.TruncateTable(ctx, opts.DestTable); err != nil {
			return Result{}, fmt.Errorf("failed to truncate destination: %w", err)
		}
	}

	insertSQL := buildInsertSQL(dst, opts)
	query := buildSourceQuery(src, opts)

	paginator := client.NewPaginator(src, query, opts.PageSize)
	paginator.Seek(resumeOffset)

	result := Result{RowsWritten: rowsWritten}

	for {
		// Остаток лимита до чтения страницы
		var remaining int64 = -1
		if opts.Limit > 0 {
			remaining = opts.Limit - result.RowsWritten
			if remaining <= 0 {
				break
			}
		}

		page, err := paginator.Next(ctx)
		if err != nil {
			recordRun(ctx, auditLog, dst, opts, result, start, err)
			return result, err
		}
		if page.Len() == 0 {
			break
		}

		batch := page.Rows
		if remaining >= 0 && int64(len(batch)) > remaining {
			batch = batch[:remaining]
		}

		if opts.AddTimestamp {
			batch = withTimestamp(batch, opts.TimestampIndex, time.Now())
		}

		if err := insertBatch(ctx, dst, insertSQL, opts, batch); err != nil {
			recordRun(ctx, auditLog, dst, opts, result, start, err)
			return result, err
		}

		result.RowsWritten += int64(len(batch))
		result.Pages++

		if opts.Checkpoint != nil {
			if err := opts.Checkpoint.Update(key, paginator.Offset(), result.RowsWritten); err != nil {
				return result, fmt.Errorf("failed to save checkpoint: %w", err)
			}
		}
	}

	result.Duration = time.Since(start)
	recordRun(ctx, auditLog, dst, opts, result, start, nil)
	return result, nil
}

// WriteOptions - параметры батчевой записи готовых строк
type WriteOptions struct {
	// PageSize - размер батча (по умолчанию 100)
	PageSize int

	// Truncate - очистить таблицу перед записью
	Truncate bool

	// AddTimestamp, TimestampColumn, TimestampIndex - как в Options.
	// Колонку времени не нужно включать в columns.
	AddTimestamp    bool
	TimestampColumn string
	TimestampIndex  int

	// Retryer - повтор неудавшихся батчей (опционально)
	Retryer *retry.Retryer

	// Audit - логгер аудита (опционально)
	Audit audit.Logger
}

// WriteRecords пишет список готовых строк в таблицу батчами.
// Возвращает количество записанных строк.
func WriteRecords(ctx context.Context, dst *client.Client, table string, columns []string, records [][]any, opts WriteOptions) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("columns list is empty")
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return 0, fmt.Errorf("record %d has %d values, expected %d", i, len(rec), len(columns))
		}
	}
	if opts.AddTimestamp {
		if opts.TimestampIndex < 0 || opts.TimestampIndex > len(columns) {
			return 0, fmt.Errorf("timestamp index %d out of range", opts.TimestampIndex)
		}
	}

	if opts.PageSize <= 0 {
		opts.PageSize = client.DefaultPageSize
	}
	if opts.TimestampColumn == "" {
		opts.TimestampColumn = DefaultTimestampColumn
	}

	start := time.Now()
	auditLog := opts.Audit
	if auditLog == nil {
		auditLog = audit.NewNullLogger()
	}

	if opts.Truncate {
		if err := dst.TruncateTable(ctx, table); err != nil {
			return 0, fmt.Errorf("failed to truncate table: %w", err)
		}
	}

	mirrorOpts := Options{
		DestTable:       table,
		Columns:         columns,
		AddTimestamp:    opts.AddTimestamp,
		TimestampColumn: opts.TimestampColumn,
		TimestampIndex:  opts.TimestampIndex,
		Retryer:         opts.Retryer,
	}
	insertSQL := buildInsertSQL(dst, mirrorOpts)

	var written int64
	for offset := 0; offset < len(records); offset += opts.PageSize {
		end := offset + opts.PageSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[offset:end]
		if opts.AddTimestamp {
			batch = withTimestamp(batch, opts.TimestampIndex, time.Now())
		}

		if err := insertBatch(ctx, dst, insertSQL, mirrorOpts, batch); err != nil {
			err = fmt.Errorf("failed to write records[%d:%d]: %w", offset, end, err)
			recordWrite(ctx, auditLog, dst, table, written, start, err)
			return written, err
		}
		written += int64(len(batch))
	}

	recordWrite(ctx, auditLog, dst, table, written, start, nil)
	return written, nil
}

// recordWrite пишет итог батчевой записи в аудит
func recordWrite(ctx context.Context, log audit.Logger, dst *client.Client, table string, written int64, start time.Time, writeErr error) {
	entry := audit.NewEntry(audit.OpWrite, audit.StatusSuccess)
	if writeErr != nil {
		entry.Status = audit.StatusFailure
		entry.Error = writeErr.Error()
	}
	cfg := dst.Config()
	entry.Server = cfg.Server
	entry.Database = cfg.Database
	entry.Table = table
	entry.Rows = written
	entry.Duration = time.Since(start)

	_ = log.Log(ctx, entry)
}

// validate проверяет параметры и проставляет значения по умолчанию
func validate(opts *Options) error {
	if len(opts.Columns) == 0 {
		return fmt.Errorf("columns list is empty")
	}
	if opts.OrderColumn < 0 || opts.OrderColumn >= len(opts.Columns) {
		return fmt.Errorf("order column index %d out of range (have %d columns)", opts.OrderColumn, len(opts.Columns))
	}
	if opts.PageSize <= 0 {
		opts.PageSize = client.DefaultPageSize
	}
	if opts.TimestampColumn == "" {
		opts.TimestampColumn = DefaultTimestampColumn
	}
	if opts.AddTimestamp {
		if opts.TimestampIndex < 0 || opts.TimestampIndex > len(opts.Columns) {
			return fmt.Errorf("timestamp index %d out of range", opts.TimestampIndex)
		}
	}
	return nil
}

// buildSourceQuery строит упорядоченный SELECT по источнику
func buildSourceQuery(src *client.Client, opts Options) string {
	d := src.Dialect()

	columns := make([]string, len(opts.Columns))
	for i, col := range opts.Columns {
		columns[i] = d.QuoteIdentifier(col)
	}

	query := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(columns, ", "),
		d.QuoteTable(src.Schema(), opts.SourceTable))

	if opts.Where != "" {
		query += " WHERE " + opts.Where
	}

	direction := "ASC"
	if opts.OrderDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", d.QuoteIdentifier(opts.Columns[opts.OrderColumn]), direction)

	return query
}

// buildInsertSQL строит INSERT в приемник с учетом колонки времени
func buildInsertSQL(dst *client.Client, opts Options) string {
	d := dst.Dialect()

	destColumns := destColumnNames(opts)
	quoted := make([]string, len(destColumns))
	for i, col := range destColumns {
		quoted[i] = d.QuoteIdentifier(col)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteTable(dst.Schema(), opts.DestTable),
		strings.Join(quoted, ", "),
		d.Placeholders(len(destColumns)))
}

// destColumnNames возвращает колонки приемника: колонки источника
// с колонкой времени на позиции TimestampIndex
func destColumnNames(opts Options) []string {
	if !opts.AddTimestamp {
		return opts.Columns
	}

	out := make([]string, 0, len(opts.Columns)+1)
	out = append(out, opts.Columns[:opts.TimestampIndex]...)
	out = append(out, opts.TimestampColumn)
	out = append(out, opts.Columns[opts.TimestampIndex:]...)
	return out
}

// withTimestamp возвращает копию батча со временем снимка на позиции idx
func withTimestamp(batch [][]any, idx int, now time.Time) [][]any {
	out := make([][]any, len(batch))
	for i, row := range batch {
		expanded := make([]any, 0, len(row)+1)
		expanded = append(expanded, row[:idx]...)
		expanded = append(expanded, now)
		expanded = append(expanded, row[idx:]...)
		out[i] = expanded
	}
	return out
}

// insertBatch вставляет батч, при наличии Retryer - с повторами
// и сохранением в DLQ при исчерпании попыток
func insertBatch(ctx context.Context, dst *client.Client, insertSQL string, opts Options, batch [][]any) error {
	doInsert := func(ctx context.Context) error {
		_, err := dst.ExecBatch(ctx, insertSQL, batch)
		return err
	}

	if opts.Retryer == nil {
		return doInsert(ctx)
	}

	return opts.Retryer.DoWithBatch(ctx, doInsert, &retry.FailedBatch{
		Table:     opts.DestTable,
		InsertSQL: insertSQL,
		Rows:      batch,
	})
}

// recordRun пишет итог зеркалирования в аудит
func recordRun(ctx context.Context, log audit.Logger, dst *client.Client, opts Options, result Result, start time.Time, runErr error) {
	entry := audit.NewEntry(audit.OpMirror, audit.StatusSuccess)
	if runErr != nil {
		entry.Status = audit.StatusFailure
		entry.Error = runErr.Error()
	}
	cfg := dst.Config()
	entry.Server = cfg.Server
	entry.Database = cfg.Database
	entry.Table = opts.DestTable
	entry.Rows = result.RowsWritten
	entry.Duration = time.Since(start)

	_ = log.Log(ctx, entry)
}
