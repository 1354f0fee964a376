// Package notify публикует результаты зеркалирований и выгрузок
// во внешние системы, чтобы оркестратор мог отслеживать состояния
// без опроса БД: Redis (GET/SUBSCRIBE), RabbitMQ, Kafka.
package notify

import (
	"context"
	"time"
)

// RunResult представляет итог выполнения зеркалирования или выгрузки
type RunResult struct {
	// Name - имя задачи (ключ для оркестратора)
	Name string `json:"name"`

	// Table - таблица-приемник
	Table string `json:"table"`

	// Status - "success" | "failed"
	Status string `json:"status"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`

	// RowsWritten - количество записанных строк
	RowsWritten int64 `json:"rows_written"`

	// Error - текст ошибки при Status == failed
	Error *string `json:"error,omitempty"`
}

// NewRunResult собирает RunResult из итогов выполнения.
// runErr == nil означает успешное выполнение.
func NewRunResult(name, table string, started, finished time.Time, rowsWritten int64, runErr error) RunResult {
	result := RunResult{
		Name:        name,
		Table:       table,
		StartedAt:   started,
		FinishedAt:  finished,
		DurationMs:  finished.Sub(started).Milliseconds(),
		RowsWritten: rowsWritten,
		Status:      "success",
	}
	if runErr != nil {
		result.Status = "failed"
		errStr := runErr.Error()
		result.Error = &errStr
	}
	return result
}

// Publisher - интерфейс публикации результатов
type Publisher interface {
	Publish(ctx context.Context, result RunResult) error
	Close() error
}
