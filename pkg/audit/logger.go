package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Logger - интерфейс аудита операций.
// Ошибки логирования не должны прерывать основную операцию -
// вызывающая сторона может их игнорировать.
type Logger interface {
	Log(ctx context.Context, entry *Entry) error
	Close() error
}

// FileLogger - запись audit лога в файл, по одной записи на строку.
// Запись синхронная, файл защищен мьютексом.
type FileLogger struct {
	mu         sync.Mutex
	file       *os.File
	formatJSON bool
}

// FileLoggerConfig - конфигурация файлового логгера
type FileLoggerConfig struct {
	// FilePath - путь к файлу лога (директория создается)
	FilePath string

	// FormatJSON - true: JSON строки, false: текстовый формат
	FormatJSON bool
}

// NewFileLogger - создать файловый логгер
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	return &FileLogger{
		file:       file,
		formatJSON: config.FormatJSON,
	}, nil
}

// Log - записать entry в файл
func (l *FileLogger) Log(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is nil")
	}

	line, err := l.format(entry)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// format - сериализовать entry в строку
func (l *FileLogger) format(entry *Entry) (string, error) {
	if l.formatJSON {
		data, err := json.Marshal(entry)
		if err != nil {
			return "", fmt.Errorf("failed to marshal entry: %w", err)
		}
		return string(data), nil
	}

	line := fmt.Sprintf("%s [%s] %s %s server=%s db=%s rows=%d duration=%s",
		entry.Timestamp.Format("2006-01-02 15:04:05.000"),
		entry.ID,
		entry.Operation,
		entry.Status,
		entry.Server,
		entry.Database,
		entry.Rows,
		entry.Duration,
	)
	if entry.Table != "" {
		line += " table=" + entry.Table
	}
	if entry.Error != "" {
		line += " error=" + entry.Error
	}
	return line, nil
}

// Close - закрыть файл лога
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// NullLogger - пустой logger (по умолчанию и для тестов)
type NullLogger struct{}

// NewNullLogger - создать null logger
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

// Log - ничего не делает
func (nl *NullLogger) Log(ctx context.Context, entry *Entry) error {
	return nil
}

// Close - ничего не делает
func (nl *NullLogger) Close() error {
	return nil
}
