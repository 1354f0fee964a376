// Package export выгружает результаты запросов в файлы: текстовый
// формат с разделителем (опционально сжатый zstd), XLSX и S3.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/ruslano69/sqlbridge/pkg/client"
)

// FileOptions - параметры текстовой выгрузки
type FileOptions struct {
	// Delimiter - разделитель колонок (по умолчанию "|")
	Delimiter string

	// NullToken - представление NULL (по умолчанию пустая строка)
	NullToken string

	// Header - писать строку с именами колонок
	Header bool

	// Compress - сжимать выходной файл zstd
	Compress bool

	// CompressLevel - уровень zstd 1-19 (по умолчанию 3)
	CompressLevel int
}

// DefaultFileOptions возвращает параметры выгрузки по умолчанию
func DefaultFileOptions() FileOptions {
	return FileOptions{
		Delimiter:     "|",
		Header:        true,
		CompressLevel: 3,
	}
}

// WriteFile выгружает результат запроса в файл.
// Разделитель и переводы строк внутри значений экранируются
// HTML-сущностями, чтобы строки оставались однострочными.
func WriteFile(path string, result *client.Result, opts FileOptions) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}
	if opts.Delimiter == "" {
		opts.Delimiter = "|"
	}
	if opts.CompressLevel <= 0 {
		opts.CompressLevel = 3
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if opts.Compress {
		enc, err = zstd.NewWriter(f,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.CompressLevel)))
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		w = enc
	}

	buf := bufio.NewWriter(w)

	if opts.Header {
		if err := writeLine(buf, result.Columns, opts.Delimiter); err != nil {
			return err
		}
	}

	for _, row := range result.RowStrings(opts.NullToken) {
		if err := writeLine(buf, row, opts.Delimiter); err != nil {
			return err
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finish compression: %w", err)
		}
	}

	return nil
}

// ReadFile читает выгрузку обратно в память (для проверок и тестов).
// Сжатие определяется по zstd magic number.
func ReadFile(path string, opts FileOptions) ([][]string, error) {
	if opts.Delimiter == "" {
		opts.Delimiter = "|"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f

	magic := make([]byte, 4)
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek: %w", err)
	}

	if n == 4 && magic[0] == 0x28 && magic[1] == 0xb5 && magic[2] == 0x2f && magic[3] == 0xfd {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var rows [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		cells := strings.Split(scanner.Text(), opts.Delimiter)
		for i, cell := range cells {
			cells[i] = unescapeCell(cell, opts.Delimiter)
		}
		rows = append(rows, cells)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return rows, nil
}

func writeLine(w *bufio.Writer, cells []string, delimiter string) error {
	for i, cell := range cells {
		if i > 0 {
			if _, err := w.WriteString(delimiter); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		if _, err := w.WriteString(escapeCell(cell, delimiter)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// escapeCell экранирует разделитель и переводы строк внутри значения
func escapeCell(cell, delimiter string) string {
	cell = strings.ReplaceAll(cell, "&", "&amp;")
	cell = strings.ReplaceAll(cell, delimiter, "&#124;")
	cell = strings.ReplaceAll(cell, "\r\n", "&#10;")
	cell = strings.ReplaceAll(cell, "\n", "&#10;")
	return cell
}

// unescapeCell - обратная операция к escapeCell
func unescapeCell(cell, delimiter string) string {
	cell = strings.ReplaceAll(cell, "&#10;", "\n")
	cell = strings.ReplaceAll(cell, "&#124;", delimiter)
	cell = strings.ReplaceAll(cell, "&amp;", "&")
	return cell
}
