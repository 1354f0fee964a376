package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Query      *string
	Exec       *string
	Mirror     *bool
	List       *bool
	Truncate   *string
	ExportFile *string
	ExportXLSX *string
	ExportS3   *string

	// Query Options
	OrderBy  *string
	PageSize *int
	Limit    *int
	Offset   *int

	// Mirror Options
	Resume *bool

	// Options
	Config    *string
	Sheet     *string
	Delimiter *string
	RunName   *string

	// Compression
	Compress      *bool
	CompressLevel *int

	// Config Creation
	CreateConfigODBC   *bool
	CreateConfigMSSQL  *bool
	CreateConfigPG     *bool
	CreateConfigMySQL  *bool
	CreateConfigSQLite *bool

	// Misc
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := defineFlags(flag.CommandLine)
	flag.Parse()
	return f
}

// defineFlags registers all flags on the given flag set
func defineFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}

	// Commands
	f.Query = fs.String("query", "", "Execute SELECT query and print result (SQL text)")
	f.Exec = fs.String("exec", "", "Execute statement without result set (SQL text)")
	f.Mirror = fs.Bool("mirror", false, "Run table mirror job from config")
	f.List = fs.Bool("list", false, "List user tables in the database")
	f.Truncate = fs.String("truncate", "", "Truncate table (table name)")
	f.ExportFile = fs.String("export-file", "", "Export query result to delimited file (use with --query)")
	f.ExportXLSX = fs.String("export-xlsx", "", "Export query result to XLSX file (use with --query)")
	f.ExportS3 = fs.String("export-s3", "", "Upload exported file to S3 (object key, use with --export-file)")

	// Query Options
	f.OrderBy = fs.String("order-by", "", "ORDER BY clause appended to --query for pagination")
	f.PageSize = fs.Int("page-size", 100, "Page size for paginated reads")
	f.Limit = fs.Int("limit", 0, "Maximum number of rows (0 = unlimited)")
	f.Offset = fs.Int("offset", 0, "Number of rows to skip")

	// Mirror Options
	f.Resume = fs.Bool("resume", false, "Resume mirror from last checkpoint instead of restarting")

	// Options
	f.Config = fs.String("config", "config.yaml", "Configuration file path")
	f.Sheet = fs.String("sheet", "Sheet1", "Excel sheet name for XLSX export")
	f.Delimiter = fs.String("delimiter", "|", "Field delimiter for file export")
	f.RunName = fs.String("run-name", "", "Run name for result publication (default: dest table)")

	// Compression
	f.Compress = fs.Bool("compress", false, "Enable zstd compression for exported files")
	f.CompressLevel = fs.Int("compress-level", 3, "Compression level: 1 (fastest) - 19 (best)")

	// Config Creation
	f.CreateConfigODBC = fs.Bool("create-config-odbc", false, "Create sample ODBC (SQL Server) config file")
	f.CreateConfigMSSQL = fs.Bool("create-config-mssql", false, "Create sample MS SQL config file")
	f.CreateConfigPG = fs.Bool("create-config-pg", false, "Create sample PostgreSQL config file")
	f.CreateConfigMySQL = fs.Bool("create-config-mysql", false, "Create sample MySQL config file")
	f.CreateConfigSQLite = fs.Bool("create-config-sqlite", false, "Create sample SQLite config file")

	// Misc
	f.Version = fs.Bool("version", false, "Show version information")
	f.Help = fs.Bool("help", false, "Show detailed help with examples")

	return f
}
