package primitives_test

import (
	"testing"

	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSlot_SafeSub(t *testing.T) {
	s, err := primitives.Slot(10).SafeSub(3)
	require.NoError(t, err)
	require.Equal(t, primitives.Slot(7), s)

	_, err = primitives.Slot(2).SafeSub(3)
	require.True(t, errors.Is(err, primitives.ErrUnderflow))
}

func TestSlot_SubSlot(t *testing.T) {
	require.Equal(t, primitives.Slot(0), primitives.Slot(1).SubSlot(5))
	require.Equal(t, primitives.Slot(4), primitives.Slot(9).SubSlot(5))
}

func TestEpoch_Arithmetic(t *testing.T) {
	require.Equal(t, primitives.Epoch(6), primitives.Epoch(3).Mul(2))
	require.Equal(t, primitives.Epoch(5), primitives.Epoch(3).Add(2))
	require.Equal(t, primitives.Epoch(9), primitives.MaxEpoch(9, 4))

	_, err := primitives.Epoch(0).SafeSub(1)
	require.ErrorIs(t, err, primitives.ErrUnderflow)
}
