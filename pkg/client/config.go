package client

import (
	"fmt"
	"time"
)

// Поддерживаемые типы драйверов
const (
	// DriverODBC - подключение через unixODBC/ODBC Driver 17 for SQL Server
	DriverODBC = "odbc"
	// DriverMSSQL - нативный драйвер go-mssqldb
	DriverMSSQL = "mssql"
	// DriverPostgres - pgx через database/sql
	DriverPostgres = "postgres"
	// DriverMySQL - go-sql-driver/mysql
	DriverMySQL = "mysql"
	// DriverSQLite - modernc.org/sqlite (pure Go)
	DriverSQLite = "sqlite"
)

// Config - конфигурация подключения к БД
type Config struct {
	// Driver - тип драйвера: "odbc", "mssql", "postgres", "mysql", "sqlite"
	Driver string `yaml:"driver"`

	// Server - хост или IP сервера БД (для sqlite игнорируется)
	Server string `yaml:"server,omitempty"`

	// Port - порт подключения (0 = порт по умолчанию для драйвера)
	Port int `yaml:"port,omitempty"`

	// Database - имя базы данных или путь к файлу для sqlite
	Database string `yaml:"database"`

	// Username, Password - учетные данные (локальная учетная запись,
	// Kerberos/Windows auth не поддерживается)
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Schema - схема по умолчанию (dbo для SQL Server, public для PostgreSQL)
	Schema string `yaml:"schema,omitempty"`

	// SSLMode - режим SSL для PostgreSQL (по умолчанию disable)
	SSLMode string `yaml:"sslmode,omitempty"`

	// Timeout - таймаут установки соединения
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxConns - максимум открытых соединений в пуле database/sql
	// (0 = настройки пула не трогаем)
	MaxConns int `yaml:"max_conns,omitempty"`
}

// Validate проверяет обязательные поля конфигурации
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverODBC, DriverMSSQL, DriverPostgres, DriverMySQL:
		if c.Server == "" {
			return fmt.Errorf("server is required for driver %q", c.Driver)
		}
		if c.Database == "" {
			return fmt.Errorf("database is required for driver %q", c.Driver)
		}
	case DriverSQLite:
		if c.Database == "" {
			return fmt.Errorf("database (file path) is required for sqlite")
		}
	case "":
		return fmt.Errorf("driver is required")
	default:
		return fmt.Errorf("unsupported driver: %q", c.Driver)
	}
	return nil
}

// portOrDefault возвращает порт из конфигурации или порт по умолчанию
func (c *Config) portOrDefault() int {
	if c.Port != 0 {
		return c.Port
	}
	switch c.Driver {
	case DriverODBC, DriverMSSQL:
		return 1433
	case DriverPostgres:
		return 5432
	case DriverMySQL:
		return 3306
	default:
		return 0
	}
}

// BuildDSN строит строку подключения для database/sql
func (c *Config) BuildDSN() string {
	switch c.Driver {
	case DriverODBC:
		// Формат pyodbc-совместимый, без шифрования
		return fmt.Sprintf("DRIVER={ODBC Driver 17 for SQL Server};SERVER=%s,%d;DATABASE=%s;UID=%s;PWD=%s",
			c.Server, c.portOrDefault(), c.Database, c.Username, c.Password)

	case DriverMSSQL:
		return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			c.Username, c.Password, c.Server, c.portOrDefault(), c.Database)

	case DriverPostgres:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.Username, c.Password, c.Server, c.portOrDefault(), c.Database, sslMode)
		if c.Schema != "" {
			dsn += "&search_path=" + c.Schema
		}
		return dsn

	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.Username, c.Password, c.Server, c.portOrDefault(), c.Database)

	case DriverSQLite:
		return c.Database

	default:
		return ""
	}
}

// driverName возвращает имя драйвера для sql.Open
func (c *Config) driverName() string {
	switch c.Driver {
	case DriverODBC:
		return "odbc"
	case DriverMSSQL:
		return "mssql"
	case DriverPostgres:
		return "pgx"
	case DriverMySQL:
		return "mysql"
	case DriverSQLite:
		return "sqlite"
	default:
		return ""
	}
}

// schemaOrDefault возвращает схему из конфигурации или схему по умолчанию
// для диалекта (dbo для SQL Server, пустая для остальных)
func (c *Config) schemaOrDefault() string {
	if c.Schema != "" {
		return c.Schema
	}
	switch c.Driver {
	case DriverODBC, DriverMSSQL:
		return "dbo"
	default:
		return ""
	}
}
