// Package sink writes generated rows somewhere: a file, standard output, an
// S3 object, an HTTP endpoint, or a SQL table.
//
// File-like destinations share a set of encoders (json, jsonl, yaml, csv,
// text). SQL destinations are chosen by the URL scheme of the target and
// receive one INSERT per row inside a single transaction.
package sink
