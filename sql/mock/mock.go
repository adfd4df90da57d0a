package mock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sdk "github.com/tarmac-project/customer-lookup/sql"
)

// Operation names recorded in Calls.
const (
	OpConnect = "CONNECT"
	OpQuery   = "QUERY"
	OpClose   = "CLOSE"
)

var (
	// ErrUnexpectedQuery is returned when a statement does not match ExpectedQuery.
	ErrUnexpectedQuery = errors.New("unexpected query")

	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("session is closed")

	// ErrExample is a sentinel error to help tests script failures.
	ErrExample = errors.New("sql mock example error")
)

// Config configures the mock client.
type Config struct {
	// Columns and Rows form the result returned for any statement without a
	// scripted response.
	Columns []string
	Rows    [][]any

	// ExpectedQuery, when set, must equal every executed statement.
	ExpectedQuery string

	// ArgsValidator, when set, validates the bound arguments of every statement.
	ArgsValidator func(args []any) error

	// ConnectError, when set, fails every Factory call.
	ConnectError error
}

// Response describes a scripted outcome.
type Response struct {
	// Columns and Rows are returned by a query.
	Columns []string
	Rows    [][]any
	// Err is returned instead of a result.
	Err error
}

// ResponseBuilder allows fluent configuration of responses.
type ResponseBuilder struct {
	m   *Client
	key string // composite key: OP + " " + target
}

// ReturnRows sets the columns and rows returned for the configured statement.
func (b *ResponseBuilder) ReturnRows(columns []string, rows [][]any) *Client {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	r := b.m.responses[b.key]
	r.Columns = append([]string(nil), columns...)
	r.Rows = copyRows(rows)
	b.m.responses[b.key] = r
	return b.m
}

// ReturnError sets an error for the configured operation.
func (b *ResponseBuilder) ReturnError(err error) *Client {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	r := b.m.responses[b.key]
	r.Err = err
	b.m.responses[b.key] = r
	return b.m
}

// Call records an operation performed against the mock.
type Call struct {
	Op               string
	DriverName       string
	ConnectionString string
	Query            string
	Args             []any
}

// Client is a scripted sql backend. It is safe for concurrent use.
type Client struct {
	mu        sync.Mutex
	cfg       Config
	responses map[string]Response
	calls     []Call
	open      int
}

// New creates a new mock SQL client.
func New(cfg Config) *Client {
	cfg.Columns = append([]string(nil), cfg.Columns...)
	cfg.Rows = copyRows(cfg.Rows)
	return &Client{
		cfg:       cfg,
		responses: make(map[string]Response),
	}
}

// OnQuery configures the response for a statement.
func (m *Client) OnQuery(query string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpQuery + " " + query}
}

// OnConnect configures the response for a connection string.
func (m *Client) OnConnect(connectionString string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpConnect + " " + connectionString}
}

// Factory implements sql.Factory by handing out in-memory sessions.
func (m *Client) Factory(_ context.Context, cfg sdk.Config) (sdk.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Op: OpConnect, DriverName: cfg.DriverName, ConnectionString: cfg.ConnectionString})

	if strings.TrimSpace(cfg.ConnectionString) == "" {
		return nil, sdk.ErrInvalidConnectionString
	}
	if m.cfg.ConnectError != nil {
		return nil, errors.Join(sdk.ErrConnect, m.cfg.ConnectError)
	}
	if r, ok := m.responses[OpConnect+" "+cfg.ConnectionString]; ok && r.Err != nil {
		return nil, errors.Join(sdk.ErrConnect, r.Err)
	}

	m.open++
	return &session{m: m, cfg: cfg}, nil
}

// Calls returns a copy of the recorded operations.
func (m *Client) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsFor returns the recorded operations of a single kind.
func (m *Client) CallsFor(op string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// OpenSessions reports sessions handed out by Factory and not yet closed.
func (m *Client) OpenSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Client) query(cfg sdk.Config, query string, args []any) (sdk.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{
		Op:               OpQuery,
		DriverName:       cfg.DriverName,
		ConnectionString: cfg.ConnectionString,
		Query:            query,
		Args:             append([]any(nil), args...),
	})

	if query == "" {
		return sdk.QueryResult{}, sdk.ErrInvalidQuery
	}

	if m.cfg.ExpectedQuery != "" && m.cfg.ExpectedQuery != query {
		return sdk.QueryResult{}, fmt.Errorf("%w: expected %q, got %q", ErrUnexpectedQuery, m.cfg.ExpectedQuery, query)
	}

	if m.cfg.ArgsValidator != nil {
		if err := m.cfg.ArgsValidator(args); err != nil {
			return sdk.QueryResult{}, err
		}
	}

	if r, ok := m.responses[OpQuery+" "+query]; ok {
		if r.Err != nil {
			return sdk.QueryResult{}, errors.Join(sdk.ErrQuery, r.Err)
		}
		return sdk.QueryResult{Columns: append([]string(nil), r.Columns...), Rows: copyRows(r.Rows)}, nil
	}

	return sdk.QueryResult{Columns: append([]string(nil), m.cfg.Columns...), Rows: copyRows(m.cfg.Rows)}, nil
}

func (m *Client) close(cfg sdk.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: OpClose, DriverName: cfg.DriverName, ConnectionString: cfg.ConnectionString})
	m.open--
}

// session is a single connection handed out by Factory.
type session struct {
	m      *Client
	cfg    sdk.Config
	closed bool
}

// Query implements sql.Client.
func (s *session) Query(_ context.Context, query string, args ...any) (sdk.QueryResult, error) {
	if s.closed {
		return sdk.QueryResult{}, ErrSessionClosed
	}
	return s.m.query(s.cfg, query, args)
}

// Close implements sql.Client.
func (s *session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	s.m.close(s.cfg)
	return nil
}

func copyRows(rows [][]any) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, append([]any(nil), r...))
	}
	return out
}
