package verifier

import (
	"context"
	"testing"

	dbtest "github.com/ethbeacon/attpool/beacon-chain/db/testing"
	mockcommittee "github.com/ethbeacon/attpool/beacon-chain/operations/attestations/verifier/testing"
	"github.com/ethbeacon/attpool/config/features"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/crypto/bls"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/runtime/interop"
	"github.com/ethbeacon/attpool/testing/util"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fullSetup struct {
	verifier  *FullVerifier
	keys      []bls.SecretKey
	blockRoot [32]byte
	data      *ethpb.AttestationData
}

func setupFullVerifier(t *testing.T) *fullSetup {
	ctx := context.Background()
	db := dbtest.SetupDB(t)
	secrets, pubkeys, err := interop.DeterministicallyGenerateKeys(0, 8)
	require.NoError(t, err)

	blk := util.NewBeaconBlockAtSlot(slots.EpochStart(3)+1, [32]byte{}, "full")
	require.NoError(t, db.SaveBlock(ctx, blk))
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	v := NewFullVerifier(db, &mockcommittee.MockCommitteeSource{Keys: pubkeys}, 4)
	t.Cleanup(v.Stop)
	return &fullSetup{
		verifier:  v,
		keys:      secrets,
		blockRoot: root,
		data: &ethpb.AttestationData{
			Slot:            slots.EpochStart(3) + 2,
			BeaconBlockRoot: root[:],
			Source:          &ethpb.Checkpoint{Epoch: 2, Root: make([]byte, 32)},
			Target:          &ethpb.Checkpoint{Epoch: 3, Root: root[:]},
		},
	}
}

func (s *fullSetup) signed(t *testing.T, positions ...uint64) *ethpb.ReceivedAttestation {
	return ethpb.NewReceivedAttestation("peer", util.NewSignedAttestation(t, s.keys, s.data.Copy(), positions...))
}

func TestFullVerifier_DisjointAggregate(t *testing.T) {
	s := setupFullVerifier(t)
	batch := []*ethpb.ReceivedAttestation{
		s.signed(t, 0),
		s.signed(t, 1, 2),
		s.signed(t, 3),
		s.signed(t, 1, 4), // Overlaps with the second attestation.
	}
	res := s.verifier.VerifyBatch(context.Background(), batch)
	assert.Len(t, res.Valid, 4)
	assert.Len(t, res.Invalid, 0)
}

func TestFullVerifier_BadSignatureFallsBack(t *testing.T) {
	s := setupFullVerifier(t)
	good1 := s.signed(t, 0)
	good2 := s.signed(t, 1)
	bad := s.signed(t, 2)
	// Signed by the wrong member.
	bad.Attestation.Signature = util.SignAttestationData(t, s.keys, s.data, 5)

	res := s.verifier.VerifyBatch(context.Background(), []*ethpb.ReceivedAttestation{good1, bad, good2})
	assert.ElementsMatch(t, []*ethpb.ReceivedAttestation{good1, good2}, res.Valid)
	assert.Equal(t, []*ethpb.ReceivedAttestation{bad}, res.Invalid)
}

func TestFullVerifier_SingleAttestation(t *testing.T) {
	s := setupFullVerifier(t)
	good := s.signed(t, 6, 7)
	res := s.verifier.VerifyBatch(context.Background(), []*ethpb.ReceivedAttestation{good})
	assert.Equal(t, []*ethpb.ReceivedAttestation{good}, res.Valid)

	bad := s.signed(t, 6)
	bad.Attestation.AggregationBits = util.Bitlist(8, 7)
	res = s.verifier.VerifyBatch(context.Background(), []*ethpb.ReceivedAttestation{bad})
	assert.Empty(t, res.Valid)
	assert.Equal(t, []*ethpb.ReceivedAttestation{bad}, res.Invalid)
}

func TestFullVerifier_BlockConsistency(t *testing.T) {
	s := setupFullVerifier(t)
	tests := []struct {
		name   string
		mutate func(d *ethpb.AttestationData)
	}{
		{
			name: "unknown block",
			mutate: func(d *ethpb.AttestationData) {
				d.BeaconBlockRoot = make([]byte, 32)
			},
		},
		{
			name: "block after target",
			mutate: func(d *ethpb.AttestationData) {
				d.Target.Epoch = 2
				d.Slot = slots.EpochStart(2)
			},
		},
		{
			name: "older block is not the target root",
			mutate: func(d *ethpb.AttestationData) {
				d.Target = &ethpb.Checkpoint{Epoch: 4, Root: make([]byte, 32)}
				d.Slot = slots.EpochStart(4)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := s.data.Copy()
			tt.mutate(data)
			att := ethpb.NewReceivedAttestation("peer", util.NewSignedAttestation(t, s.keys, data, 0))
			res := s.verifier.VerifyBatch(context.Background(), []*ethpb.ReceivedAttestation{att})
			assert.Empty(t, res.Valid)
			assert.Len(t, res.Invalid, 1)
		})
	}
}

func TestFullVerifier_OlderBlockMatchingTarget(t *testing.T) {
	s := setupFullVerifier(t)
	data := s.data.Copy()
	data.Target.Epoch = primitives.Epoch(4)
	data.Slot = slots.EpochStart(4)
	att := ethpb.NewReceivedAttestation("peer", util.NewSignedAttestation(t, s.keys, data, 3))
	res := s.verifier.VerifyBatch(context.Background(), []*ethpb.ReceivedAttestation{att})
	assert.Len(t, res.Valid, 1)
}

func TestFullVerifier_MixedGroups(t *testing.T) {
	s := setupFullVerifier(t)
	other := s.data.Copy()
	other.CommitteeIndex = 1
	batch := []*ethpb.ReceivedAttestation{
		s.signed(t, 0),
		ethpb.NewReceivedAttestation("peer", util.NewSignedAttestation(t, s.keys, other, 0)),
		s.signed(t, 1),
	}
	res := s.verifier.VerifyBatch(context.Background(), batch)
	assert.Len(t, res.Valid, 3)
}

func TestFullVerifier_DomainError(t *testing.T) {
	s := setupFullVerifier(t)
	s.verifier.committees.(*mockcommittee.MockCommitteeSource).DomainErr = errors.New("no state")
	res := s.verifier.VerifyBatch(context.Background(), []*ethpb.ReceivedAttestation{s.signed(t, 0), s.signed(t, 1)})
	assert.Empty(t, res.Valid)
	assert.Len(t, res.Invalid, 2)
}

func TestFullVerifier_SkipBLSVerify(t *testing.T) {
	resetCfg := features.InitWithReset(&features.Flags{SkipBLSVerify: true})
	defer resetCfg()

	s := setupFullVerifier(t)
	att := s.signed(t, 0)
	att.Attestation.Signature = make([]byte, 96)
	res := s.verifier.VerifyBatch(context.Background(), []*ethpb.ReceivedAttestation{att})
	assert.Len(t, res.Valid, 1)
}
