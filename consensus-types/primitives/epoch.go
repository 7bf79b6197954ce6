package primitives

import (
	"fmt"

	"github.com/pkg/errors"
)

// Epoch represents a single epoch.
type Epoch uint64

// Add increases the epoch by x.
func (e Epoch) Add(x uint64) Epoch {
	return e + Epoch(x)
}

// SafeSub subtracts x from the epoch, returning an error on underflow.
func (e Epoch) SafeSub(x uint64) (Epoch, error) {
	if uint64(e) < x {
		return 0, errors.Wrapf(ErrUnderflow, "%d - %d", e, x)
	}
	return e - Epoch(x), nil
}

// Mul multiplies the epoch by x.
func (e Epoch) Mul(x uint64) Epoch {
	return e * Epoch(x)
}

// String returns the decimal representation of the epoch.
func (e Epoch) String() string {
	return fmt.Sprintf("%d", uint64(e))
}

// MaxEpoch returns the larger of the two epochs.
func MaxEpoch(a, b Epoch) Epoch {
	if a > b {
		return a
	}
	return b
}
