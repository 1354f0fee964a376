package mirror

import (
	"context"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/ruslano69/sqlbridge/pkg/client"
)

// VerifyOptions - параметры верификации зеркала
type VerifyOptions struct {
	SourceTable string
	DestTable   string

	// Columns - сравниваемые колонки. Колонку времени снимка приемника
	// сюда включать не нужно.
	Columns []string

	// OrderColumn, OrderDesc - сортировка, должна совпадать с зеркалированием
	OrderColumn int
	OrderDesc   bool

	// Where - фильтр источника, как при зеркалировании
	Where string

	// PageSize - размер страницы чтения (по умолчанию 100)
	PageSize int
}

// Digest - результат подсчета контрольной суммы одной стороны
type Digest struct {
	Rows int64
	Hash string
}

// Verify сравнивает источник и приемник после зеркалирования:
// постранично читает обе таблицы в одинаковом порядке и считает
// xxh3 хеш текстового представления строк. Несовпадение количества
// строк или хеша - ошибка.
func Verify(ctx context.Context, src, dst *client.Client, opts VerifyOptions) (Digest, Digest, error) {
	if len(opts.Columns) == 0 {
		return Digest{}, Digest{}, fmt.Errorf("columns list is empty")
	}
	if opts.OrderColumn < 0 || opts.OrderColumn >= len(opts.Columns) {
		return Digest{}, Digest{}, fmt.Errorf("order column index %d out of range", opts.OrderColumn)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = client.DefaultPageSize
	}

	srcDigest, err := tableDigest(ctx, src, opts.SourceTable, opts, opts.Where)
	if err != nil {
		return Digest{}, Digest{}, fmt.Errorf("source digest failed: %w", err)
	}

	// Фильтр приемника не нужен: туда попали только отфильтрованные строки
	dstDigest, err := tableDigest(ctx, dst, opts.DestTable, opts, "")
	if err != nil {
		return srcDigest, Digest{}, fmt.Errorf("destination digest failed: %w", err)
	}

	if srcDigest.Rows != dstDigest.Rows {
		return srcDigest, dstDigest, fmt.Errorf(
			"row count mismatch: source has %d rows, destination has %d",
			srcDigest.Rows, dstDigest.Rows)
	}

	if srcDigest.Hash != dstDigest.Hash {
		return srcDigest, dstDigest, fmt.Errorf(
			"checksum mismatch: source %s, destination %s (data corruption or type drift)",
			srcDigest.Hash, dstDigest.Hash)
	}

	return srcDigest, dstDigest, nil
}

// tableDigest считает xxh3 хеш упорядоченного содержимого таблицы
func tableDigest(ctx context.Context, c *client.Client, table string, opts VerifyOptions, where string) (Digest, error) {
	query := buildSourceQuery(c, Options{
		SourceTable: table,
		Columns:     opts.Columns,
		OrderColumn: opts.OrderColumn,
		OrderDesc:   opts.OrderDesc,
		Where:       where,
	})

	hasher := xxh3.New()
	paginator := client.NewPaginator(c, query, opts.PageSize)

	var rows int64
	for {
		page, err := paginator.Next(ctx)
		if err != nil {
			return Digest{}, err
		}
		if page.Len() == 0 {
			break
		}

		for _, cells := range page.RowStrings("\x00NULL") {
			for _, cell := range cells {
				hasher.WriteString(cell)
				hasher.WriteString("\x1f") // unit separator между колонками
			}
			hasher.WriteString("\x1e") // record separator между строками
			rows++
		}
	}

	return Digest{
		Rows: rows,
		Hash: fmt.Sprintf("%016x", hasher.Sum64()),
	}, nil
}
