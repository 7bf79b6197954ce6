// Package primitives defines the basic numeric types of the beacon chain
// used across the attestation pool.
package primitives

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnderflow is returned when a subtraction would wrap below zero.
var ErrUnderflow = errors.New("arithmetic underflow")

// Slot represents a single slot.
type Slot uint64

// Add increases the slot by x.
func (s Slot) Add(x uint64) Slot {
	return s + Slot(x)
}

// SafeSub subtracts x from the slot, returning an error on underflow.
func (s Slot) SafeSub(x uint64) (Slot, error) {
	if uint64(s) < x {
		return 0, errors.Wrapf(ErrUnderflow, "%d - %d", s, x)
	}
	return s - Slot(x), nil
}

// SubSlot returns s - x, clamped at zero.
func (s Slot) SubSlot(x Slot) Slot {
	if x > s {
		return 0
	}
	return s - x
}

// Mod returns s % x.
func (s Slot) Mod(x uint64) Slot {
	return Slot(uint64(s) % x)
}

// String returns the decimal representation of the slot.
func (s Slot) String() string {
	return fmt.Sprintf("%d", uint64(s))
}
