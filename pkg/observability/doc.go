/*
Package observability exposes editor activity as Prometheus metrics.

It counts committed and aborted transactions, command executions by outcome, and
upcast elements that were converted or skipped, and it times conversions. A nil
*Metrics is valid and records nothing.
*/
package observability
