package symtab

import (
	"slices"
	"sort"
)

// Table maps symbol addresses to names and resolves arbitrary addresses to
// the enclosing symbol.
type Table struct {
	addrs []uint64          // registered addresses, sorted unless dirty
	names map[uint64]string // address -> name
	dirty bool              // addrs needs sorting before the next lookup

	last    uint64 // most recently inserted address
	hasLast bool

	entry EntryPoint
}

// New creates an empty table.
func New() *Table {
	return &Table{
		names: make(map[uint64]string),
	}
}

// Add registers name at address. Address 0 marks undefined/external symbols
// and is ignored.
//
// Known quirk: only immediately consecutive duplicates are dropped. Adding the same
// address twice in a row keeps the first name. A duplicate separated by other
// insertions overwrites the name while the address stays registered once.
func (t *Table) Add(address uint64, name string) {
	if address == 0 {
		return
	}
	if t.hasLast && t.last == address {
		return
	}
	t.last = address
	t.hasLast = true

	if _, ok := t.names[address]; !ok {
		if n := len(t.addrs); n > 0 && t.addrs[n-1] > address {
			t.dirty = true
		}
		t.addrs = append(t.addrs, address)
	}
	t.names[address] = name
}

// Lookup returns the name of the symbol with the greatest address <= address.
// The boolean is false when no such symbol exists.
func (t *Table) Lookup(address uint64) (string, bool) {
	if t.dirty {
		slices.Sort(t.addrs)
		t.dirty = false
	}

	// First index whose address is above the query; the floor is just before it.
	idx := sort.Search(len(t.addrs), func(i int) bool {
		return t.addrs[i] > address
	})
	if idx == 0 {
		return "", false
	}
	return t.names[t.addrs[idx-1]], true
}

// Len returns the number of registered addresses.
func (t *Table) Len() int {
	return len(t.addrs)
}

// EntryPoint returns the program entry address, or ErrUnsetValue.
func (t *Table) EntryPoint() (uint64, error) {
	return t.entry.Get()
}

// SetEntryPoint records the program entry address. It fails with
// ErrDuplicateWrite if one was already recorded.
func (t *Table) SetEntryPoint(address uint64) error {
	return t.entry.Set(address)
}
