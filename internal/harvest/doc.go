// Package harvest runs the per-year acquisition loop.
//
// Process turns one year's raw table into a PeriodBatch with an ok, empty or failed
// status. Aggregator fetches a range of years from a Source, isolates every per-year
// failure, and concatenates the records of the successful years in year order.
package harvest
