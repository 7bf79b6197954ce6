// Package testing includes a committee source backed by a fixed list of keys.
package testing

import (
	"context"

	"github.com/ethbeacon/attpool/beacon-chain/core/signing"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/crypto/bls"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/pkg/errors"
)

// MockCommitteeSource treats Keys as the committee of every attestation.
type MockCommitteeSource struct {
	Keys      []bls.PublicKey
	DomainErr error
}

// AttestingPubkeys --
func (m *MockCommitteeSource) AttestingPubkeys(_ context.Context, att *ethpb.Attestation) ([]bls.PublicKey, error) {
	if att.AggregationBits.Len() != uint64(len(m.Keys)) {
		return nil, errors.Errorf("bitlist length %d does not match committee size %d", att.AggregationBits.Len(), len(m.Keys))
	}
	var keys []bls.PublicKey
	for _, i := range att.AggregationBits.BitIndices() {
		keys = append(keys, m.Keys[i])
	}
	return keys, nil
}

// Domain --
func (m *MockCommitteeSource) Domain(_ context.Context, _ primitives.Epoch) ([]byte, error) {
	if m.DomainErr != nil {
		return nil, m.DomainErr
	}
	return signing.ComputeDomain(params.BeaconConfig().DomainBeaconAttester, nil, nil)
}
