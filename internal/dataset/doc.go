// Package dataset reads fauxness files.
//
// A Reader streams records one at a time from a delimited file whose header
// names at least the four required columns. Text is decoded permissively:
// bytes that are invalid in the configured encoding are dropped rather than
// failing the read, and a leading UTF-8 byte order mark is ignored. Every
// error a Reader returns, other than io.EOF, is a structural error.
//
// Frame loads a whole file into memory for column-wise computation, and
// Registry remembers the latest validation outcome of each path.
package dataset
