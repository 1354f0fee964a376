package client

// Регистрация драйверов database/sql.
// Клиент выбирает драйвер по Config.Driver, сами драйверы
// подключаются здесь анонимным импортом.
import (
	_ "github.com/denisenkom/go-mssqldb"  // MS SQL Server (нативный TDS)
	_ "github.com/go-sql-driver/mysql"    // MySQL
	_ "github.com/jackc/pgx/v5/stdlib"    // PostgreSQL (pgx)
	_ "modernc.org/sqlite"                // SQLite (pure Go)
)
