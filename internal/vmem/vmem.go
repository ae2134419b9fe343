// Package vmem reserves, commits and releases ranges of virtual address space.
//
// A Region is reserved up front without physical backing. Sub-ranges become
// usable only after Commit. The whole range is handed back with Release.
package vmem

import (
	"os"

	"github.com/pkg/errors"
)

// Region is a reserved range of address space. The zero Region is empty.
type Region struct {
	mem []byte
}

// Reserve reserves n bytes of address space. None of it is readable or
// writable until committed.
func Reserve(n int) (Region, error) {
	if n <= 0 {
		return Region{}, errors.Errorf("vmem: invalid reservation size %d", n)
	}
	if n%os.Getpagesize() != 0 {
		return Region{}, errors.Errorf("vmem: reservation size %d is not a multiple of the page size", n)
	}
	mem, err := reserve(n)
	if err != nil {
		return Region{}, errors.Wrapf(err, "vmem: reserve %d bytes", n)
	}
	return Region{mem: mem}, nil
}

// Commit backs [off, off+n) with physical memory. Both off and n must be
// page aligned.
func (r Region) Commit(off, n int) error {
	if n == 0 {
		return nil
	}
	page := os.Getpagesize()
	if off < 0 || n < 0 || off%page != 0 || n%page != 0 {
		return errors.Errorf("vmem: commit range [%d, %d) is not page aligned", off, off+n)
	}
	if off+n > len(r.mem) {
		return errors.Errorf("vmem: commit range [%d, %d) exceeds reservation of %d bytes", off, off+n, len(r.mem))
	}
	if err := commit(r.mem[off : off+n]); err != nil {
		return errors.Wrapf(err, "vmem: commit [%d, %d)", off, off+n)
	}
	return nil
}

// Release returns the whole range to the OS. The Region must not be used
// afterwards.
func (r Region) Release() error {
	if r.mem == nil {
		return nil
	}
	if err := release(r.mem); err != nil {
		return errors.Wrapf(err, "vmem: release %d bytes", len(r.mem))
	}
	return nil
}

// Bytes returns the reserved range. Only committed sub-ranges may be touched.
func (r Region) Bytes() []byte { return r.mem }

// Len returns the size of the reservation in bytes.
func (r Region) Len() int { return len(r.mem) }

// IsZero reports whether r holds no reservation.
func (r Region) IsZero() bool { return r.mem == nil }
