package symtab

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsetValue is returned when the entry point is read before it was recorded.
	ErrUnsetValue = errors.New("entry point undefined")

	// ErrDuplicateWrite is returned when the entry point is recorded twice.
	ErrDuplicateWrite = errors.New("duplicate entry point")
)

// EntryPoint is a write-once program entry address. The zero value is unset.
type EntryPoint struct {
	addr uint64
	set  bool
}

// Get returns the recorded address or ErrUnsetValue.
func (e *EntryPoint) Get() (uint64, error) {
	if !e.set {
		return 0, ErrUnsetValue
	}
	return e.addr, nil
}

// Set records addr. A second call fails with ErrDuplicateWrite and leaves
// the first value in place.
func (e *EntryPoint) Set(addr uint64) error {
	if e.set {
		return fmt.Errorf("%w: already 0x%x, got 0x%x", ErrDuplicateWrite, e.addr, addr)
	}
	e.addr = addr
	e.set = true
	return nil
}

// IsSet reports whether an address has been recorded.
func (e *EntryPoint) IsSet() bool {
	return e.set
}
