package mock

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/tarmac-project/customer-lookup/sql"
)

func TestMock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	m := New(Config{
		Columns:       []string{"id", "name"},
		Rows:          [][]any{{1, "alpha"}},
		ExpectedQuery: "",
	})
	m.OnQuery("SELECT broken").ReturnError(ErrExample)
	m.OnQuery("SELECT other").ReturnRows([]string{"n"}, [][]any{{7}})
	m.OnConnect("down").ReturnError(ErrExample)

	t.Run("default rows", func(t *testing.T) {
		c, err := m.Factory(ctx, sdk.Config{ConnectionString: "up"})
		if err != nil {
			t.Fatalf("Factory returned error: %v", err)
		}
		defer c.Close() //nolint:errcheck

		got, err := c.Query(ctx, "SELECT *", "a", nil)
		if err != nil {
			t.Fatalf("Query returned error: %v", err)
		}
		if len(got.Rows) != 1 || got.Rows[0][1] != "alpha" {
			t.Fatalf("unexpected rows %v", got.Rows)
		}

		// Results are copies; mutating them must not leak into the mock.
		got.Rows[0][1] = "mutated"
		again, _ := c.Query(ctx, "SELECT *")
		if again.Rows[0][1] != "alpha" {
			t.Fatalf("mock rows were mutated through a result")
		}
	})

	t.Run("scripted rows", func(t *testing.T) {
		c, _ := m.Factory(ctx, sdk.Config{ConnectionString: "up"})
		defer c.Close() //nolint:errcheck

		got, err := c.Query(ctx, "SELECT other")
		if err != nil {
			t.Fatalf("Query returned error: %v", err)
		}
		if len(got.Columns) != 1 || got.Columns[0] != "n" {
			t.Fatalf("unexpected columns %v", got.Columns)
		}
	})

	t.Run("scripted query error", func(t *testing.T) {
		c, _ := m.Factory(ctx, sdk.Config{ConnectionString: "up"})
		defer c.Close() //nolint:errcheck

		_, err := c.Query(ctx, "SELECT broken")
		if !errors.Is(err, sdk.ErrQuery) || !errors.Is(err, ErrExample) {
			t.Fatalf("expected ErrQuery and ErrExample, got %v", err)
		}
	})

	t.Run("scripted connect error", func(t *testing.T) {
		_, err := m.Factory(ctx, sdk.Config{ConnectionString: "down"})
		if !errors.Is(err, sdk.ErrConnect) {
			t.Fatalf("expected ErrConnect, got %v", err)
		}
	})

	t.Run("closed session", func(t *testing.T) {
		c, _ := m.Factory(ctx, sdk.Config{ConnectionString: "up"})
		if err := c.Close(); err != nil {
			t.Fatalf("Close returned error: %v", err)
		}
		if _, err := c.Query(ctx, "SELECT *"); !errors.Is(err, ErrSessionClosed) {
			t.Fatalf("expected ErrSessionClosed, got %v", err)
		}
		if err := c.Close(); !errors.Is(err, ErrSessionClosed) {
			t.Fatalf("expected ErrSessionClosed on double close, got %v", err)
		}
	})

	if n := m.OpenSessions(); n != 0 {
		t.Fatalf("expected all sessions closed, %d open", n)
	}
	if len(m.CallsFor(OpConnect)) != 5 {
		t.Fatalf("expected 5 connect calls, got %d", len(m.CallsFor(OpConnect)))
	}
}

func TestMock_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tt := []struct {
		name    string
		cfg     Config
		query   string
		args    []any
		wantErr error
	}{
		{
			name:  "matching query",
			cfg:   Config{ExpectedQuery: "SELECT 1"},
			query: "SELECT 1",
		},
		{
			name:    "unexpected query",
			cfg:     Config{ExpectedQuery: "SELECT 1"},
			query:   "SELECT 2",
			wantErr: ErrUnexpectedQuery,
		},
		{
			name:    "empty query",
			query:   "",
			wantErr: sdk.ErrInvalidQuery,
		},
		{
			name: "args rejected",
			cfg: Config{ArgsValidator: func(args []any) error {
				if len(args) != 2 {
					return ErrExample
				}
				return nil
			}},
			query:   "SELECT 1",
			args:    []any{"only-one"},
			wantErr: ErrExample,
		},
		{
			name:    "connect error",
			cfg:     Config{ConnectError: ErrExample},
			query:   "SELECT 1",
			wantErr: sdk.ErrConnect,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := New(tc.cfg)
			c, err := m.Factory(ctx, sdk.Config{ConnectionString: "dsn"})
			if err != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("unexpected Factory error: want %v got %v", tc.wantErr, err)
				}
				return
			}
			defer c.Close() //nolint:errcheck

			_, err = c.Query(ctx, tc.query, tc.args...)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("unexpected Query error: want %v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestMock_EmptyConnectionString(t *testing.T) {
	t.Parallel()

	m := New(Config{})
	for _, cs := range []string{"", "   "} {
		if _, err := m.Factory(context.Background(), sdk.Config{ConnectionString: cs}); !errors.Is(err, sdk.ErrInvalidConnectionString) {
			t.Fatalf("expected ErrInvalidConnectionString for %q, got %v", cs, err)
		}
	}
	if m.OpenSessions() != 0 {
		t.Fatalf("expected no open sessions, got %d", m.OpenSessions())
	}
}
