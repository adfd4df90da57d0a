/*
Package sql provides a client for running parameterized, read-only statements
against a SQL database reached through database/sql.

A Client is meant to be short lived: Connect opens and verifies one database
session, Query runs statements on it and Close releases it. Query always
releases its result cursor before returning, whether or not reading the rows
succeeded. Rows are returned with their column names in the order the database
reported them.

The default driver name is "odbc" and must be registered by the importing
program. The "sqlserver" and "mssql" drivers come from go-mssqldb, which this
package links to decode UNIQUEIDENTIFIER columns. The driver name also selects
the placeholder syntax for a statement.

Scanned []byte values become strings when they are valid UTF-8; other binary
values are returned as []byte.
*/
package sql
