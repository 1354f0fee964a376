package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	ctx := context.Background()

	// Parse flags
	flags := ParseFlags()

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}

	// Handle config creation
	if *flags.CreateConfigODBC {
		createConfigTemplate("odbc")
		return
	}
	if *flags.CreateConfigMSSQL {
		createConfigTemplate("mssql")
		return
	}
	if *flags.CreateConfigPG {
		createConfigTemplate("postgres")
		return
	}
	if *flags.CreateConfigMySQL {
		createConfigTemplate("mysql")
		return
	}
	if *flags.CreateConfigSQLite {
		createConfigTemplate("sqlite")
		return
	}

	// If no command was specified, show help
	if !commandWasSpecified(flags) {
		PrintHelp()
		os.Exit(1)
	}

	// Load configuration
	config, err := LoadConfig(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}

	// Route commands
	var cmdErr error

	switch {
	case *flags.Mirror:
		cmdErr = runMirror(ctx, config, flags)
	case *flags.Query != "":
		cmdErr = runQuery(ctx, config, flags)
	case *flags.Exec != "":
		cmdErr = runExec(ctx, config, flags)
	case *flags.List:
		cmdErr = runList(ctx, config)
	case *flags.Truncate != "":
		cmdErr = runTruncate(ctx, config, flags)
	}

	// Handle errors
	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// createConfigTemplate creates a sample configuration file
func createConfigTemplate(driver string) {
	config := CreateSampleConfig(driver)

	if err := SaveConfig("config.yaml", config); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created sample %s config: config.yaml\n", driver)
	fmt.Println("Edit the file with your database credentials and run:")
	fmt.Printf("  sqlbridge --query \"SELECT 1\" --config config.yaml\n")
}

// commandWasSpecified checks if any command was specified
func commandWasSpecified(flags *Flags) bool {
	return *flags.Mirror ||
		*flags.List ||
		*flags.Query != "" ||
		*flags.Exec != "" ||
		*flags.Truncate != ""
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
