/*
Package customer looks up customer records by name.

A Lookup turns caller input into a Query, opens one database connection from
the caller's connection descriptor, runs a single parameterized read against
[SalesLT].[Customer] and returns the matching rows as a ResultSet.

Input may arrive as a native mapping or as the same mapping encoded as JSON
text; both are normalized before any field is read. Malformed input is
reported to the caller as ErrInvalidInput. Database failures are not: they are
logged and the lookup returns an empty ResultSet.
*/
package customer
