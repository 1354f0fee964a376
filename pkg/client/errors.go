package client

import "fmt"

// OpError - ошибка операции с контекстом подключения.
// Каждый метод клиента заворачивает ошибку драйвера в OpError,
// чтобы в логах было видно сервер, базу и запрос.
type OpError struct {
	// Op - имя операции: "open", "query", "exec", "exec_batch", "truncate"
	Op string

	// Server, Database - откуда пришла ошибка
	Server   string
	Database string

	// Query - текст SQL запроса (пустой для open/close/ping)
	Query string

	// Err - исходная ошибка драйвера
	Err error
}

// Error реализует интерфейс error
func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s: server %s, db %s", e.Op, e.Server, e.Database)
	if e.Query != "" {
		msg += fmt.Sprintf(", query:\n%s", e.Query)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap возвращает исходную ошибку драйвера для errors.Is/As
func (e *OpError) Unwrap() error {
	return e.Err
}

// opError создает OpError для клиента
func (c *Client) opError(op, query string, err error) error {
	return &OpError{
		Op:       op,
		Server:   c.config.Server,
		Database: c.config.Database,
		Query:    query,
		Err:      err,
	}
}
