/*
Package metrics defines the Prometheus collectors recorded by customer lookups.

New registers the collectors on a caller-supplied registerer so tests and
embedding programs can keep their own registries. A nil *Metrics is valid and
records nothing.
*/
package metrics
