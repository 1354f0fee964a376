package audit

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Operation - тип операции
type Operation string

const (
	OpConnect  Operation = "connect"
	OpQuery    Operation = "query"
	OpExec     Operation = "exec"
	OpBatch    Operation = "exec_batch"
	OpTruncate Operation = "truncate"
	OpMirror   Operation = "mirror"
	OpWrite    Operation = "write_records"
	OpExport   Operation = "export"
)

// Status - статус выполнения операции
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry - запись в audit логе
type Entry struct {
	// ID - уникальный идентификатор записи
	ID string `json:"id"`

	// Timestamp - время операции
	Timestamp time.Time `json:"timestamp"`

	// Operation - тип операции
	Operation Operation `json:"operation"`

	// Status - статус выполнения
	Status Status `json:"status"`

	// Server, Database - контекст подключения
	Server   string `json:"server,omitempty"`
	Database string `json:"database,omitempty"`

	// Table - таблица или файл-приемник (mirror/write_records/export)
	Table string `json:"table,omitempty"`

	// Query - текст SQL запроса
	Query string `json:"query,omitempty"`

	// Rows - количество прочитанных или записанных строк
	Rows int64 `json:"rows"`

	// Duration - длительность операции
	Duration time.Duration `json:"duration_ns"`

	// Error - текст ошибки при Status == failure
	Error string `json:"error,omitempty"`
}

// NewEntry - создать запись с текущим временем и сгенерированным ID
func NewEntry(operation Operation, status Status) *Entry {
	return &Entry{
		ID:        generateID(),
		Timestamp: time.Now(),
		Operation: operation,
		Status:    status,
	}
}

// generateID - случайный 16-символьный hex идентификатор
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(b)
}
