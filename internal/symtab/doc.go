// Package symtab indexes the symbols of a binary by address.
//
// A Table answers "which function contains this address?" with a floor
// lookup: a function is assumed to start at its symbol address and to extend
// up to, but not including, the next higher symbol address. The table is
// populated once and then queried; it is not safe for concurrent use because
// Lookup restores sort order lazily.
package symtab
