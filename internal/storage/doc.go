// Package storage persists normalized draw records.
//
// Every run overwrites its output: CSV is the default format, XLSX is available for
// spreadsheet users, and SQLite keeps the latest run queryable next to a history of
// runs. Failures are returned as *SinkError so callers can tell a storage problem
// apart from a run that collected nothing.
package storage
