// Package engine is the row generation core. A Generator holds a set of
// registered properties, resolves the order in which they must be produced,
// and drives their providers row by row while enforcing the unique and
// not-null constraints and the weighted distributions each property declares.
package engine
