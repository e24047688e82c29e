/*
Package observability provides lifecycle hooks for monitoring a traversal.

Metrics counts state entries and jump starts and ends with Prometheus counters;
LoggingHooks writes the same events to a structured logger. Combine them with
domain.ChainHooks.
*/
package observability
