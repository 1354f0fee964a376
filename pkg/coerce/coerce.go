// Package coerce содержит помощники приведения значений к nullable
// представлению для безопасной передачи позиционных параметров драйверу.
// Все функции пропускают nil как есть: nil на входе означает SQL NULL.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Слои времени для разбора дат
const (
	// DateTimeLayout - формат datetime2 SQL Server
	DateTimeLayout = "2006-01-02 15:04:05.999999"
	// ISOLayout - ISO 8601 с миллисекундами и Z
	ISOLayout = "2006-01-02T15:04:05.999999Z"
)

// IntOrNull приводит значение к int64 или nil.
// Принимает целые, вещественные и строковые представления.
func IntOrNull(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case float32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce int %q: %w", val, err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("coerce int: unsupported type %T", v)
	}
}

// FloatOrNull приводит значение к float64 или nil
func FloatOrNull(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("coerce float %q: %w", val, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("coerce float: unsupported type %T", v)
	}
}

// DateOrNull разбирает строку в time.Time по заданному layout или
// пропускает nil/time.Time. Пустой layout заменяется на DateTimeLayout.
func DateOrNull(v any, layout string) (any, error) {
	if v == nil {
		return nil, nil
	}
	if layout == "" {
		layout = DateTimeLayout
	}

	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		t, err := time.Parse(layout, val)
		if err != nil {
			return nil, fmt.Errorf("coerce date %q: %w", val, err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("coerce date: unsupported type %T", v)
	}
}

// ISODateOrNull разбирает ISO 8601 дату ("2006-01-02T15:04:05.000Z")
func ISODateOrNull(v any) (any, error) {
	return DateOrNull(v, ISOLayout)
}

// BitOrNull приводит bool к 1/0 для SQL Server BIT колонок.
// Не-bool значения пропускаются как NULL.
func BitOrNull(v any) any {
	switch v {
	case true:
		return 1
	case false:
		return 0
	}
	return nil
}

// YesNoOrNull приводит bool к 'Y'/'N' для CHAR(1) флагов
func YesNoOrNull(v any) any {
	switch v {
	case true:
		return "Y"
	case false:
		return "N"
	}
	return nil
}

// UpperUUID приводит UUID к верхнему регистру, как хранит SQL Server.
// nil пропускается, прочие значения приводятся через Stringer/строку.
func UpperUUID(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		return strings.ToUpper(val)
	case fmt.Stringer:
		return strings.ToUpper(val.String())
	default:
		return strings.ToUpper(fmt.Sprintf("%v", val))
	}
}
