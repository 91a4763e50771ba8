// Package dag holds the dependency graph between generated properties and
// resolves it into a generation order.
//
// Nodes are property ids. An edge from A to B means B consumes A's value,
// so A must be generated first within every row. TopologicalOrder walks the
// graph depth-first in registration order, which makes the order of
// independent properties stable and predictable, and reports any cycle with
// the full path that forms it.
package dag
