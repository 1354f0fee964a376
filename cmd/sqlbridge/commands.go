package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ruslano69/sqlbridge/pkg/audit"
	"github.com/ruslano69/sqlbridge/pkg/client"
	"github.com/ruslano69/sqlbridge/pkg/export"
	"github.com/ruslano69/sqlbridge/pkg/mirror"
	"github.com/ruslano69/sqlbridge/pkg/notify"
	"github.com/ruslano69/sqlbridge/pkg/retry"
)

// openClient opens a database client with audit logging from config.
// The returned logger is a NullLogger when audit is disabled.
func openClient(ctx context.Context, config *Config) (*client.Client, audit.Logger, error) {
	c, err := client.Open(ctx, config.Database)
	if err != nil {
		return nil, nil, err
	}

	var logger audit.Logger = audit.NewNullLogger()
	if config.Audit.Enabled {
		fileLogger, err := audit.NewFileLogger(audit.FileLoggerConfig{
			FilePath:   config.Audit.File,
			FormatJSON: config.Audit.JSON,
		})
		if err != nil {
			c.Close()
			return nil, nil, fmt.Errorf("failed to create audit logger: %w", err)
		}
		c.SetAuditLogger(fileLogger)
		logger = fileLogger
	}

	entry := audit.NewEntry(audit.OpConnect, audit.StatusSuccess)
	entry.Server = config.Database.Server
	entry.Database = config.Database.Database
	_ = logger.Log(ctx, entry)

	return c, logger, nil
}

// runQuery executes a paginated SELECT and prints or exports the result
func runQuery(ctx context.Context, config *Config, flags *Flags) error {
	c, auditLog, err := openClient(ctx, config)
	if err != nil {
		return err
	}
	defer c.Close()

	query := *flags.Query
	if *flags.OrderBy != "" {
		query = query + " ORDER BY " + *flags.OrderBy
	}

	result, err := collectPages(ctx, c, query, *flags.PageSize, *flags.Offset, *flags.Limit)
	if err != nil {
		return err
	}

	// Export takes precedence over stdout
	if *flags.ExportXLSX != "" {
		err := export.WriteXLSX(*flags.ExportXLSX, result, *flags.Sheet)
		recordExport(ctx, auditLog, config, *flags.ExportXLSX, query, int64(result.Len()), err)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d rows to %s\n", result.Len(), *flags.ExportXLSX)
		return nil
	}

	if *flags.ExportFile != "" {
		opts := export.DefaultFileOptions()
		opts.Delimiter = *flags.Delimiter
		opts.NullToken = config.Export.NullToken
		opts.Compress = *flags.Compress || config.Export.Compress
		opts.CompressLevel = *flags.CompressLevel
		err := export.WriteFile(*flags.ExportFile, result, opts)
		recordExport(ctx, auditLog, config, *flags.ExportFile, query, int64(result.Len()), err)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d rows to %s\n", result.Len(), *flags.ExportFile)

		if *flags.ExportS3 != "" {
			if config.Export.S3Bucket == "" {
				return fmt.Errorf("s3_bucket is not set in config")
			}
			err := export.UploadS3(ctx, *flags.ExportFile, export.S3Options{
				Bucket:   config.Export.S3Bucket,
				Key:      *flags.ExportS3,
				Region:   config.Export.S3Region,
				Endpoint: config.Export.S3Endpoint,
			})
			if err != nil {
				return err
			}
			fmt.Printf("✓ Uploaded to s3://%s/%s\n", config.Export.S3Bucket, *flags.ExportS3)
		}
		return nil
	}

	printResult(result)
	return nil
}

// recordExport writes the export outcome to the audit log
func recordExport(ctx context.Context, log audit.Logger, config *Config, path, query string, rows int64, expErr error) {
	entry := audit.NewEntry(audit.OpExport, audit.StatusSuccess)
	if expErr != nil {
		entry.Status = audit.StatusFailure
		entry.Error = expErr.Error()
	}
	entry.Server = config.Database.Server
	entry.Database = config.Database.Database
	entry.Table = path
	entry.Query = query
	entry.Rows = rows

	_ = log.Log(ctx, entry)
}

// collectPages reads a query page by page into a single result
func collectPages(ctx context.Context, c *client.Client, query string, pageSize, offset, limit int) (*client.Result, error) {
	p := client.NewPaginator(c, query, pageSize)
	if offset > 0 {
		p.Seek(offset)
	}

	var total *client.Result
	for {
		page, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if page.Len() == 0 {
			break
		}
		if total == nil {
			total = &client.Result{Columns: page.Columns}
		}
		total.Rows = append(total.Rows, page.Rows...)

		if limit > 0 && len(total.Rows) >= limit {
			total.Rows = total.Rows[:limit]
			break
		}
		if page.Len() < pageSize {
			break
		}
	}

	if total == nil {
		total = &client.Result{}
	}
	return total, nil
}

// printResult prints query result as an aligned table
func printResult(result *client.Result) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))
	for _, row := range result.RowStrings("NULL") {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Printf("\n(%d rows)\n", result.Len())
}

// runExec executes a statement without a result set
func runExec(ctx context.Context, config *Config, flags *Flags) error {
	c, _, err := openClient(ctx, config)
	if err != nil {
		return err
	}
	defer c.Close()

	affected, err := c.Exec(ctx, *flags.Exec)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Statement executed, %d rows affected\n", affected)
	return nil
}

// runList prints user tables in the database
func runList(ctx context.Context, config *Config) error {
	c, _, err := openClient(ctx, config)
	if err != nil {
		return err
	}
	defer c.Close()

	tables, err := c.ListTables(ctx)
	if err != nil {
		return err
	}

	for _, table := range tables {
		fmt.Println(table)
	}
	fmt.Printf("\n(%d tables)\n", len(tables))
	return nil
}

// runTruncate truncates a table
func runTruncate(ctx context.Context, config *Config, flags *Flags) error {
	c, _, err := openClient(ctx, config)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.TruncateTable(ctx, *flags.Truncate); err != nil {
		return err
	}

	fmt.Printf("✓ Truncated table %s\n", *flags.Truncate)
	return nil
}

// runMirror runs the mirror job defined in config
func runMirror(ctx context.Context, config *Config, flags *Flags) error {
	if config.Mirror.SourceTable == "" || config.Mirror.DestTable == "" {
		return fmt.Errorf("mirror section is missing source_table or dest_table")
	}

	c, _, err := openClient(ctx, config)
	if err != nil {
		return err
	}
	defer c.Close()

	opts := mirror.DefaultOptions(config.Mirror.SourceTable, config.Mirror.DestTable, config.Mirror.Columns)
	opts.OrderColumn = config.Mirror.OrderColumn
	opts.OrderDesc = config.Mirror.OrderDesc
	opts.Where = config.Mirror.Where
	opts.AddTimestamp = config.Mirror.AddTimestamp
	opts.Resume = *flags.Resume

	if config.Mirror.PageSize > 0 {
		opts.PageSize = config.Mirror.PageSize
	}
	if config.Mirror.Limit > 0 {
		opts.Limit = int64(config.Mirror.Limit)
	}
	if config.Mirror.Truncate != nil {
		opts.Truncate = *config.Mirror.Truncate
	}
	if config.Mirror.TimestampColumn != "" {
		opts.TimestampColumn = config.Mirror.TimestampColumn
	}
	if config.Mirror.TimestampIndex > 0 {
		opts.TimestampIndex = config.Mirror.TimestampIndex
	}

	if config.Mirror.CheckpointFile != "" {
		sm, err := mirror.NewStateManager(config.Mirror.CheckpointFile, true)
		if err != nil {
			return fmt.Errorf("failed to open checkpoint file: %w", err)
		}
		opts.Checkpoint = sm
	}

	if config.Retry.Enabled {
		retryer, err := buildRetryer(config.Retry)
		if err != nil {
			return err
		}
		defer retryer.Close()
		opts.Retryer = retryer
	}

	runName := *flags.RunName
	if runName == "" {
		runName = config.Mirror.DestTable
	}

	started := time.Now()
	result, runErr := mirror.Run(ctx, c, c, opts)
	finished := time.Now()

	// Publish run result regardless of outcome
	if pubErr := publishResult(ctx, config, runName, started, finished, result.RowsWritten, runErr); pubErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to publish run result: %v\n", pubErr)
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("✓ Mirrored %s -> %s: %d rows, %d pages in %v\n",
		config.Mirror.SourceTable, config.Mirror.DestTable,
		result.RowsWritten, result.Pages, result.Duration.Round(time.Millisecond))
	return nil
}

// buildRetryer builds a retryer from config
func buildRetryer(cfg RetryConfig) (*retry.Retryer, error) {
	rc := retry.DefaultConfig()
	rc.Enabled = true
	if cfg.MaxAttempts > 0 {
		rc.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.Strategy != "" {
		rc.BackoffStrategy = retry.BackoffStrategy(cfg.Strategy)
	}
	if cfg.InitialWait > 0 {
		rc.InitialDelay = time.Duration(cfg.InitialWait) * time.Millisecond
	}
	if cfg.MaxWait > 0 {
		rc.MaxDelay = time.Duration(cfg.MaxWait) * time.Millisecond
	}
	if !cfg.Jitter {
		rc.Jitter = 0
	}
	if cfg.DLQFile != "" {
		rc.DLQ = retry.DLQConfig{
			Enabled:  true,
			FilePath: cfg.DLQFile,
			MaxSize:  1000,
		}
	}
	return retry.NewRetryer(rc)
}

// publishResult publishes a run result to the configured broker
func publishResult(ctx context.Context, config *Config, name string, started, finished time.Time, rowsWritten int64, runErr error) error {
	publisher, err := buildPublisher(config.Notify)
	if err != nil {
		return err
	}
	if publisher == nil {
		return nil
	}
	defer publisher.Close()

	result := notify.NewRunResult(name, config.Mirror.DestTable, started, finished, rowsWritten, runErr)
	return publisher.Publish(ctx, result)
}

// buildPublisher builds a publisher from config, nil when notification is off
func buildPublisher(cfg NotifyConfig) (notify.Publisher, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "redis":
		return notify.NewRedisPublisher(cfg.Redis), nil
	case "rabbitmq":
		return notify.NewRabbitPublisher(cfg.RabbitMQ)
	case "kafka":
		return notify.NewKafkaPublisher(cfg.Kafka), nil
	default:
		return nil, fmt.Errorf("unknown notify type: %s (expected redis, rabbitmq or kafka)", cfg.Type)
	}
}
