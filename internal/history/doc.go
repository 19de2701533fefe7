// Package history keeps a local SQLite ledger of the executions and batch jobs
// submitted from this machine, so handles can be found again later without
// querying the orchestration service.
package history
