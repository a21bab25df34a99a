// Package cli implements the command-line interface for marksix-history.
//
// The cli package provides the Cobra-based CLI with a history command (every year
// from 1993 to the current one) and a current command (a single year). It wires the
// scraper, the harvest loop, the storage sinks and run metrics together, and renders
// the final run summary as text or JSON.
package cli
