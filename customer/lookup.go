package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/tarmac-project/customer-lookup/connection"
	"github.com/tarmac-project/customer-lookup/metrics"
	"github.com/tarmac-project/customer-lookup/sql"
)

// Config controls how a Lookup reaches the database.
type Config struct {
	// Logger receives failure and debug entries. Required.
	Logger *slog.Logger

	// DriverName is the database/sql driver used to connect. If empty,
	// sql.DefaultDriver is used.
	DriverName string

	// Connect opens a database client per invocation. If nil, sql.Connect is used.
	Connect sql.Factory

	// Metrics records lookup outcomes. Optional.
	Metrics *metrics.Metrics

	// Clock measures lookup duration. If nil, the real clock is used.
	Clock clockwork.Clock
}

// Validate checks required fields and fills in defaults.
func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if cfg.DriverName == "" {
		cfg.DriverName = sql.DefaultDriver
	}
	if cfg.Connect == nil {
		cfg.Connect = sql.Connect
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Lookup finds customers by name. It holds no per-call state and is safe for
// concurrent use; every invocation opens and releases its own connection.
type Lookup struct {
	log     *slog.Logger
	cfg     Config
	metrics *metrics.Metrics
}

// New creates a Lookup.
func New(cfg Config) (*Lookup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate customer lookup config: %w", err)
	}
	return &Lookup{
		log:     cfg.Logger,
		cfg:     cfg,
		metrics: cfg.Metrics,
	}, nil
}

// Invoke returns the customers matching input, read through the database
// named by conn.
//
// Errors are returned only for malformed input (ErrInvalidInput) or a
// descriptor without a connectionString field. A blank connection string and
// failures to connect, execute or read rows are logged and produce an empty
// ResultSet with a nil error.
func (l *Lookup) Invoke(ctx context.Context, input any, conn connection.Descriptor) (ResultSet, error) {
	q, err := ParseQuery(input)
	if err != nil {
		l.metrics.ObserveLookup(metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	// A present but blank connection string is a connection failure, not an
	// input error.
	connString, err := connection.ConnectionString(conn)
	if err != nil && !connection.HasConnectionString(conn) {
		l.metrics.ObserveLookup(metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	return l.Find(ctx, q, connString), nil
}

// Find runs the lookup for an already normalized query. It never fails:
// database errors are logged and yield an empty ResultSet.
func (l *Lookup) Find(ctx context.Context, q Query, connString string) ResultSet {
	start := l.cfg.Clock.Now()
	rs, err := l.query(ctx, q.normalized(), connString)
	elapsed := l.cfg.Clock.Since(start)

	if err != nil {
		msg := "customer: query failed"
		if errors.Is(err, sql.ErrConnect) || errors.Is(err, sql.ErrInvalidConnectionString) {
			msg = "customer: connection could not be established"
		}
		l.log.Error(msg, "driver", l.cfg.DriverName, "duration", elapsed, "error", err)
		l.metrics.ObserveLookup(metrics.OutcomeFailed, elapsed, 0)
		return ResultSet{}
	}

	outcome := metrics.OutcomeFound
	if len(rs) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	l.metrics.ObserveLookup(outcome, elapsed, len(rs))
	l.log.Debug("customer: lookup completed", "records", len(rs), "duration", elapsed)

	return rs
}

func (l *Lookup) query(ctx context.Context, q Query, connString string) (ResultSet, error) {
	client, err := l.cfg.Connect(ctx, sql.Config{
		DriverName:       l.cfg.DriverName,
		ConnectionString: connString,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := client.Close(); err != nil {
			l.log.Warn("customer: failed to close database connection", "error", err)
		}
	}()

	res, err := client.Query(ctx, Statement, q.Args()...)
	if err != nil {
		return nil, err
	}
	return newResultSet(res), nil
}
