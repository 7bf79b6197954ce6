package verifier

import (
	"testing"

	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/testing/util"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var finalizedRoot = [32]byte{'f'}

func readyLightVerifier(t *testing.T) *LightVerifier {
	v := NewLightVerifier()
	v.FeedFinalizedCheckpoint(&ethpb.Checkpoint{Epoch: 2, Root: finalizedRoot[:]})
	v.FeedNewSlot(slots.EpochStart(4))
	require.True(t, v.Initialized())
	return v
}

func lightVote(source, target primitives.Epoch, mutate func(*ethpb.Attestation)) *ethpb.ReceivedAttestation {
	att := util.HydrateAttestation(&ethpb.Attestation{
		AggregationBits: util.Bitlist(8, 3),
		Data: &ethpb.AttestationData{
			Slot:   slots.EpochStart(target) + 1,
			Source: &ethpb.Checkpoint{Epoch: source, Root: finalizedRoot[:]},
			Target: &ethpb.Checkpoint{Epoch: target},
		},
	})
	if mutate != nil {
		mutate(att)
	}
	return ethpb.NewReceivedAttestation("peer", att)
}

func TestLightVerifier_NotInitialized(t *testing.T) {
	v := NewLightVerifier()
	assert.ErrorIs(t, v.Verify(lightVote(2, 3, nil)), ErrNotInitialized)

	v.FeedNewSlot(10)
	assert.False(t, v.Initialized())
	assert.ErrorIs(t, v.Verify(lightVote(2, 3, nil)), ErrNotInitialized)

	v.FeedFinalizedCheckpoint(&ethpb.Checkpoint{Epoch: 0, Root: make([]byte, 32)})
	assert.True(t, v.Initialized())
}

func TestLightVerifier_Verify(t *testing.T) {
	params.SetupTestConfigCleanup(t)

	tests := []struct {
		name    string
		att     *ethpb.ReceivedAttestation
		wantErr error
	}{
		{
			name: "valid vote from the finalized checkpoint",
			att:  lightVote(2, 3, nil),
		},
		{
			name: "valid vote at the lookahead limit",
			att:  lightVote(3, 5, nil),
		},
		{
			name:    "nil data",
			att:     ethpb.NewReceivedAttestation("peer", &ethpb.Attestation{AggregationBits: util.Bitlist(8, 1)}),
			wantErr: ErrMalformedAttestation,
		},
		{
			name: "no bits set",
			att: lightVote(2, 3, func(a *ethpb.Attestation) {
				a.AggregationBits = util.Bitlist(8)
			}),
			wantErr: ErrMalformedAttestation,
		},
		{
			name: "short signature",
			att: lightVote(2, 3, func(a *ethpb.Attestation) {
				a.Signature = make([]byte, 10)
			}),
			wantErr: ErrMalformedAttestation,
		},
		{
			name: "bitlist longer than a committee",
			att: lightVote(2, 3, func(a *ethpb.Attestation) {
				a.AggregationBits = util.Bitlist(params.BeaconConfig().MaxValidatorsPerCommittee+1, 0)
			}),
			wantErr: ErrBitlistTooLong,
		},
		{
			name:    "source equals target",
			att:     lightVote(3, 3, nil),
			wantErr: ErrSourceNotBeforeTarget,
		},
		{
			name:    "target already finalized",
			att:     lightVote(1, 2, nil),
			wantErr: ErrTargetNotAfterFinalized,
		},
		{
			name:    "source before finalized",
			att:     lightVote(1, 3, nil),
			wantErr: ErrSourceBeforeFinalized,
		},
		{
			name: "source root differs from finalized root",
			att: lightVote(2, 3, func(a *ethpb.Attestation) {
				a.Data.Source.Root = make([]byte, 32)
			}),
			wantErr: ErrSourceRootMismatch,
		},
		{
			name:    "target beyond lookahead",
			att:     lightVote(2, 6, nil),
			wantErr: ErrTargetTooFarAhead,
		},
		{
			name: "committee index out of range",
			att: lightVote(2, 3, func(a *ethpb.Attestation) {
				a.Data.CommitteeIndex = primitives.CommitteeIndex(params.BeaconConfig().MaxCommitteesPerSlot)
			}),
			wantErr: ErrCommitteeIndexOutOfRange,
		},
		{
			name: "slot outside the target epoch",
			att: lightVote(2, 3, func(a *ethpb.Attestation) {
				a.Data.Slot = slots.EpochStart(4)
			}),
			wantErr: ErrSlotTargetMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := readyLightVerifier(t)
			err := v.Verify(tt.att)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLightVerifier_RemembersRejections(t *testing.T) {
	v := readyLightVerifier(t)
	bad := lightVote(1, 3, nil)
	require.ErrorIs(t, v.Verify(bad), ErrSourceBeforeFinalized)
	assert.ErrorIs(t, v.Verify(bad), ErrRecentlyRejected)

	// A vote too far ahead becomes valid once the chain catches up.
	early := lightVote(2, 6, nil)
	require.ErrorIs(t, v.Verify(early), ErrTargetTooFarAhead)
	v.FeedNewSlot(slots.EpochStart(5))
	assert.NoError(t, v.Verify(early))
}

func TestLightVerifier_FinalizedCheckpointMoves(t *testing.T) {
	v := readyLightVerifier(t)
	att := lightVote(2, 4, nil)
	require.NoError(t, v.Verify(att))

	newRoot := [32]byte{'g'}
	v.FeedFinalizedCheckpoint(&ethpb.Checkpoint{Epoch: 3, Root: newRoot[:]})
	assert.ErrorIs(t, v.Verify(lightVote(2, 4, func(a *ethpb.Attestation) {
		a.AggregationBits = util.Bitlist(8, 5)
	})), ErrSourceBeforeFinalized)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "target_root_mismatch", reason(ErrTargetRootMismatch))
	assert.Equal(t, "unknown_block", reason(ErrUnknownBlock))
	assert.Equal(t, "other", reason(ErrMalformedAttestation))
}
