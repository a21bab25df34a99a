// Package draw turns raw Mark Six result tables into fixed-schema draw records.
//
// A raw table is whatever the results page yields for one year: month divider rows,
// placeholder rows, and a "Balls Drawn" column packing every drawn number into one string.
// Clean drops the rows that are not draws, and Normalize reshapes what is left into
// DrawRecord values with exactly one date and seven positional number slots.
package draw
