package main

import "fmt"

const version = "1.2.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("sqlbridge version %s\n", version)
	fmt.Println("sqlbridge - thin SQL client, paginator and table mirror")
	fmt.Println("https://github.com/ruslano69/sqlbridge")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("sqlbridge - SQL Client Command Line Interface")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  sqlbridge [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println()

	fmt.Println("  Database Operations:")
	fmt.Println("    --query <sql>              Execute SELECT query and print result")
	fmt.Println("    --exec <sql>               Execute statement without result set")
	fmt.Println("    --truncate <table>         Truncate table")
	fmt.Println("    --list                     List user tables in the database")
	fmt.Println()

	fmt.Println("  Mirror:")
	fmt.Println("    --mirror                   Run table mirror job from config")
	fmt.Println("    --resume                   Resume mirror from last checkpoint")
	fmt.Println()

	fmt.Println("  Export:")
	fmt.Println("    --export-file <file>       Export query result to delimited file")
	fmt.Println("    --export-xlsx <file>       Export query result to XLSX")
	fmt.Println("    --export-s3 <key>          Upload exported file to S3")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println()

	fmt.Println("  General:")
	fmt.Println("    --config <file>            Configuration file (default: config.yaml)")
	fmt.Println("    --run-name <name>          Run name for result publication")
	fmt.Println()

	fmt.Println("  Pagination:")
	fmt.Println("    --order-by <clause>        ORDER BY for paginated reads (required for mssql/odbc)")
	fmt.Println("    --page-size <n>            Page size (default: 100)")
	fmt.Println("    --limit <n>                Maximum number of rows (0 = unlimited)")
	fmt.Println("    --offset <n>               Number of rows to skip")
	fmt.Println()

	fmt.Println("  Export Options:")
	fmt.Println("    --delimiter <char>         Field delimiter (default: |)")
	fmt.Println("    --sheet <name>             Excel sheet name (default: Sheet1)")
	fmt.Println("    --compress                 Enable zstd compression")
	fmt.Println("    --compress-level <n>       Compression level: 1 (fastest) - 19 (best), default: 3")
	fmt.Println()

	fmt.Println("  Configuration:")
	fmt.Println("    --create-config-odbc       Create ODBC (SQL Server) config template")
	fmt.Println("    --create-config-mssql      Create MS SQL config template")
	fmt.Println("    --create-config-pg         Create PostgreSQL config template")
	fmt.Println("    --create-config-mysql      Create MySQL config template")
	fmt.Println("    --create-config-sqlite     Create SQLite config template")
	fmt.Println()

	fmt.Println("  Misc:")
	fmt.Println("    --version                  Show version information")
	fmt.Println("    --help                     Show this help message")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println()

	fmt.Println("  # Run a query")
	fmt.Println("  sqlbridge --query \"SELECT id, name FROM users WHERE active = ?\" --config pg.yaml")
	fmt.Println()

	fmt.Println("  # Export query result to compressed file")
	fmt.Println("  sqlbridge --query \"SELECT * FROM orders\" --export-file orders.dat --compress")
	fmt.Println()

	fmt.Println("  # Export to XLSX")
	fmt.Println("  sqlbridge --query \"SELECT * FROM orders\" --export-xlsx orders.xlsx --sheet Orders")
	fmt.Println()

	fmt.Println("  # Run mirror job defined in config")
	fmt.Println("  sqlbridge --mirror --config mirror.yaml")
	fmt.Println()

	fmt.Println("  # Resume interrupted mirror from checkpoint")
	fmt.Println("  sqlbridge --mirror --resume --config mirror.yaml")
	fmt.Println()

	fmt.Println("  # Create config template")
	fmt.Println("  sqlbridge --create-config-odbc")
}
