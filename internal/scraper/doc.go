// Package scraper fetches the yearly Mark Six results pages and reads their HTML tables.
//
// The scraper requests https://lottery.hk/en/mark-six/results/<year>, paces requests
// with a rate limiter so a 30 year run stays within what the site tolerates, and
// optionally retries transport failures with exponential backoff. ParseTables converts
// every <table> on a page into a draw.RawTable, repeating colspan cells the way the
// month divider rows expect.
package scraper
