//go:build cgo || windows

package client

// Драйвер ODBC требует cgo на unix-системах (unixODBC),
// поэтому подключается только в сборках с cgo или под Windows.
import (
	_ "github.com/alexbrainman/odbc" // ODBC (unixODBC / ODBC Driver 17 for SQL Server)
)
