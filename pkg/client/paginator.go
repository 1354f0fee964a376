package client

import (
	"context"
	"fmt"
	"strings"
)

// DefaultPageSize - размер страницы по умолчанию
const DefaultPageSize = 100

// Paginator постранично выполняет каждый раз один и тот же запрос,
// дописывая к нему клаузу пагинации диалекта и сдвигая смещение.
// Для SQL Server запрос обязан содержать ORDER BY - этого требует
// грамматика OFFSET/FETCH.
type Paginator struct {
	client   *Client
	query    string
	args     []any
	pageSize int
	offset   int
}

// NewPaginator создает пагинатор. pageSize <= 0 заменяется на 100.
func NewPaginator(c *Client, query string, pageSize int, args ...any) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		client:   c,
		query:    query,
		args:     args,
		pageSize: pageSize,
	}
}

// Next возвращает следующую страницу результата и сдвигает смещение
// на размер страницы. Пустая страница означает конец данных.
func (p *Paginator) Next(ctx context.Context) (*Result, error) {
	d := p.client.Dialect()

	if d.RequiresOrderBy() && !strings.Contains(strings.ToLower(p.query), "order by") {
		err := fmt.Errorf("paginated queries must have an ORDER BY clause")
		return nil, p.client.opError("query_paginated", p.query, err)
	}

	paged := p.query + d.PaginationClause(p.offset, p.pageSize)
	result, err := p.client.Query(ctx, paged, p.args...)
	if err != nil {
		return nil, err
	}

	p.offset += p.pageSize
	return result, nil
}

// Offset возвращает текущее смещение (кратно размеру страницы)
func (p *Paginator) Offset() int {
	return p.offset
}

// PageSize возвращает размер страницы
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Seek устанавливает смещение. Используется для возобновления
// зеркалирования с контрольной точки.
func (p *Paginator) Seek(offset int) {
	if offset < 0 {
		offset = 0
	}
	p.offset = offset
}
