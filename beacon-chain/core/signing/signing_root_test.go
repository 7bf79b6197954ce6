package signing_test

import (
	"testing"

	"github.com/ethbeacon/attpool/beacon-chain/core/signing"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/encoding/bytesutil"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningRoot_ComputeDomain(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MainnetConfig())
	forkRoot := []byte{245, 165, 253, 66, 209, 106, 32, 48, 39, 152, 239, 110, 211, 9, 151, 155, 67, 0, 61, 35, 32, 217, 240, 232, 234, 152, 49, 169}
	tests := []struct {
		domainType [4]byte
		domain     []byte
	}{
		{domainType: [4]byte{4, 0, 0, 0}, domain: append([]byte{4, 0, 0, 0}, forkRoot...)},
		{domainType: [4]byte{5, 0, 0, 0}, domain: append([]byte{5, 0, 0, 0}, forkRoot...)},
	}
	for _, tt := range tests {
		got, err := signing.ComputeDomain(tt.domainType, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.domain, got)
	}
}

func TestSigningRoot_ComputeSigningRoot(t *testing.T) {
	data := &ethpb.AttestationData{
		Slot:            3,
		BeaconBlockRoot: bytesutil.PadTo([]byte{'b'}, 32),
		Source:          &ethpb.Checkpoint{Root: make([]byte, 32)},
		Target:          &ethpb.Checkpoint{Root: make([]byte, 32)},
	}
	d1, err := signing.ComputeDomain(params.BeaconConfig().DomainBeaconAttester, nil, nil)
	require.NoError(t, err)
	d2, err := signing.ComputeDomain(params.BeaconConfig().DomainBeaconAttester, []byte{1, 0, 0, 0}, nil)
	require.NoError(t, err)

	r1, err := signing.ComputeSigningRoot(data, d1)
	require.NoError(t, err)
	r2, err := signing.ComputeSigningRoot(data, d2)
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2, "different forks must produce different signing roots")

	again, err := signing.ComputeSigningRoot(data, d1)
	require.NoError(t, err)
	assert.Equal(t, r1, again)
}

func TestSigningRoot_NilObject(t *testing.T) {
	_, err := signing.ComputeSigningRoot(nil, make([]byte, 32))
	require.ErrorContains(t, err, "cannot compute signing root of nil")
}

func TestSigningRoot_BadDomainLength(t *testing.T) {
	data := &ethpb.Checkpoint{Root: make([]byte, 32)}
	_, err := signing.ComputeSigningRoot(data, []byte{1, 2})
	require.Error(t, err)
}
