package sql

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/jmoiron/sqlx"
)

const (
	// DriverODBC is the driver name registered by the ODBC driver.
	DriverODBC = "odbc"

	// DriverSQLServer is the SQL Server driver name using @pN placeholders.
	DriverSQLServer = "sqlserver"

	// DriverMSSQL is the legacy SQL Server driver name using ? placeholders.
	DriverMSSQL = "mssql"

	// DefaultDriver is used when no explicit driver name is provided.
	DefaultDriver = DriverODBC
)

var (
	// ErrInvalidQuery indicates an empty or invalid SQL query.
	ErrInvalidQuery = errors.New("query is invalid")

	// ErrInvalidConnectionString indicates an empty connection string.
	ErrInvalidConnectionString = errors.New("connection string is invalid")

	// ErrConnect wraps failures while opening or verifying a database session.
	ErrConnect = errors.New("failed to connect to database")

	// ErrQuery wraps failures while executing a statement.
	ErrQuery = errors.New("failed to execute query")

	// ErrScan wraps failures while reading rows from an executed statement.
	ErrScan = errors.New("failed to read query results")
)

// Opener opens and verifies a database handle. sqlx.ConnectContext satisfies it.
type Opener func(ctx context.Context, driverName, dataSourceName string) (*sqlx.DB, error)

// Client defines the SQL capability interface.
type Client interface {
	// Query executes a statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (QueryResult, error)

	// Close releases resources held by the client.
	Close() error
}

// Factory opens a Client for the supplied configuration.
type Factory func(ctx context.Context, cfg Config) (Client, error)

// Config controls how a Client connects to the database.
type Config struct {
	// DriverName is the database/sql driver to use. If empty, DefaultDriver is used.
	DriverName string

	// ConnectionString is the driver-level data source name.
	ConnectionString string

	// Open overrides how the database handle is opened.
	Open Opener
}

// QueryResult holds the rows returned by a statement.
type QueryResult struct {
	// Columns are the column names returned by the query, in database order.
	Columns []string
	// Rows holds one value per column for each returned row. UNIQUEIDENTIFIER
	// values are formatted as GUID text and valid UTF-8 []byte values become
	// strings. Other []byte values are kept as bytes.
	Rows [][]any
}

// DBClient is the SQL capability client implementation.
type DBClient struct {
	db     *sqlx.DB
	driver string
}

// Ensure DBClient satisfies the Client interface at compile time.
var _ Client = (*DBClient)(nil)

// New opens a database session and verifies it is reachable.
func New(ctx context.Context, config Config) (*DBClient, error) {
	if strings.TrimSpace(config.ConnectionString) == "" {
		return nil, ErrInvalidConnectionString
	}

	driver := config.DriverName
	if driver == "" {
		driver = DefaultDriver
	}

	open := config.Open
	if open == nil {
		open = sqlx.ConnectContext
	}

	db, err := open(ctx, driver, config.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrConnect, err)
	}

	// One session per client; nothing is shared between invocations.
	db.SetMaxOpenConns(1)

	return &DBClient{db: db, driver: driver}, nil
}

// Connect is a Factory backed by New.
func Connect(ctx context.Context, config Config) (Client, error) {
	c, err := New(ctx, config)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Rebind rewrites ? placeholders into the bind syntax expected by driverName.
func Rebind(driverName, query string) string {
	if driverName == "" {
		driverName = DefaultDriver
	}
	return sqlx.Rebind(sqlx.BindType(driverName), query)
}

// Query executes a statement that returns rows. The query must use ?
// placeholders; they are rebound for the client's driver.
func (c *DBClient) Query(ctx context.Context, query string, args ...any) (QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return QueryResult{}, ErrInvalidQuery
	}

	rows, err := c.db.QueryContext(ctx, Rebind(c.driver, query), args...)
	if err != nil {
		return QueryResult{}, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, errors.Join(ErrScan, err)
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return QueryResult{}, errors.Join(ErrScan, err)
	}
	dbTypes := make([]string, len(columns))
	for i, ct := range types {
		if i < len(dbTypes) {
			dbTypes[i] = strings.ToUpper(ct.DatabaseTypeName())
		}
	}

	result := QueryResult{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return QueryResult{}, errors.Join(ErrScan, err)
		}

		for i, v := range values {
			values[i] = convertValue(dbTypes[i], v)
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return QueryResult{}, errors.Join(ErrScan, err)
	}

	return result, nil
}

// convertValue normalizes a scanned value. go-mssqldb returns
// UNIQUEIDENTIFIER columns as 16 bytes in SQL Server's mixed-endian layout.
func convertValue(dbType string, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if dbType == "UNIQUEIDENTIFIER" && len(b) == 16 {
		var u mssql.UniqueIdentifier
		if err := u.Scan(b); err == nil {
			return u.String()
		}
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return b
}

// Close releases the database session.
func (c *DBClient) Close() error {
	return c.db.Close()
}
