/*
Package mock provides an in-memory implementation of the sql.Client interface
for testing code that runs statements through the sql package.

No driver or database is involved. A mock hands out sessions through its
Factory method, validates the statements and arguments it receives, returns
scripted rows or failures, and records every operation so tests can assert on
what was sent and that every session was closed.

# Basic Usage

	m := mock.New(mock.Config{
		Columns: []string{"CustomerID", "FirstName"},
		Rows:    [][]any{{int64(1), "Orlando"}},
	})

	lookup, _ := customer.New(customer.Config{Connect: m.Factory})

# Overriding Behavior

Override responses per statement or per connection string:

	m.OnQuery("SELECT 1").ReturnRows([]string{"n"}, [][]any{{1}})
	m.OnQuery("SELECT 2").ReturnError(errors.New("deadlock"))
	m.OnConnect("Server=down").ReturnError(errors.New("login timeout"))

# Validating Requests

Leave ExpectedQuery and ArgsValidator empty for a wildcard; when set, a
mismatching call fails with ErrUnexpectedQuery or the validator's error.

# Inspecting Calls

	for _, c := range m.Calls() {
		// c.Op, c.Query, c.Args, c.ConnectionString
	}
	if m.OpenSessions() != 0 {
		// a session leaked
	}
*/
package mock
