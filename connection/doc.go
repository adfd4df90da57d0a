/*
Package connection provides the connection descriptor handed to a customer
lookup by its caller.

A descriptor is an opaque, read-only bag of named values. The lookup only ever
reads the connectionString field from it. Custom is the concrete descriptor
used throughout the module; it mirrors the custom-connection layout used by
workflow frameworks, where non-sensitive values live under configs and
credentials under secrets.
*/
package connection
