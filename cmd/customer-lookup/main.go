package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tarmac-project/customer-lookup/connection"
	"github.com/tarmac-project/customer-lookup/customer"
	"github.com/tarmac-project/customer-lookup/logging"
	"github.com/tarmac-project/customer-lookup/metrics"
	"github.com/tarmac-project/customer-lookup/sql"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultEnvFile = ".env"

type options struct {
	verbose        bool
	logLevel       string
	logFormat      string
	driver         string
	envFile        string
	connectionFile string
	connectionEnv  string
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&o.logFormat, "log-format", logging.FormatText, "log format (text, json)")
	fs.StringVar(&o.driver, "driver", sql.DefaultDriver, "database/sql driver (odbc, sqlserver, mssql)")
	fs.StringVar(&o.envFile, "env-file", "", "dotenv file to load before reading the environment (default .env when present)")
	fs.StringVar(&o.connectionFile, "connection-file", "", "YAML connection file with a connectionString config or secret")
	fs.StringVar(&o.connectionEnv, "connection-env", connection.DefaultEnvVar, "environment variable holding the connection string")
}

func (o *options) loadEnv() error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", o.envFile, err)
		}
		return nil
	}
	if _, err := os.Stat(defaultEnvFile); err == nil {
		if err := godotenv.Load(defaultEnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", defaultEnvFile, err)
		}
	}
	return nil
}

func (o *options) logger() (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:   o.logLevel,
		Verbose: o.verbose,
		Format:  o.logFormat,
	})
}

func (o *options) connection() (connection.Custom, error) {
	if o.connectionFile != "" {
		return connection.FromFile(o.connectionFile)
	}
	return connection.FromEnv(o.connectionEnv)
}

func (o *options) lookup(log *slog.Logger, m *metrics.Metrics) (*customer.Lookup, error) {
	return customer.New(customer.Config{
		Logger:     log,
		DriverName: o.driver,
		Metrics:    m,
	})
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "customer-lookup",
		Short: "Look up SalesLT customers by name.",
		Long: `customer-lookup queries the [SalesLT].[Customer] table for customers matching
a first, middle and last name and prints them as JSON. It can also serve the
lookup as an MCP tool for agent and workflow frameworks.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadEnv()
		},
	}
	opts.bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newInvokeCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "customer-lookup %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var inputErr *inputError
		if errors.As(err, &inputErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
