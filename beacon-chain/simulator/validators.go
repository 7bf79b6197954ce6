package simulator

import (
	"context"

	"github.com/ethbeacon/attpool/beacon-chain/core/signing"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/crypto/bls"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/runtime/interop"
	"github.com/pkg/errors"
)

// Validators is a fixed interop validator set. Validator i attests in the
// slot i mod SLOTS_PER_EPOCH of every epoch, and the validators of a slot are
// dealt round robin over the committees of that slot.
type Validators struct {
	secrets           []bls.SecretKey
	pubkeys           []bls.PublicKey
	committeesPerSlot uint64
}

// NewValidators derives count deterministic validators.
func NewValidators(count uint64) (*Validators, error) {
	if count == 0 {
		return nil, errors.New("no validators")
	}
	secrets, pubkeys, err := interop.DeterministicallyGenerateKeys(0, count)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate interop keys")
	}
	cfg := params.BeaconConfig()
	perSlot := count / uint64(cfg.SlotsPerEpoch) / cfg.TargetCommitteeSize
	if perSlot > cfg.MaxCommitteesPerSlot {
		perSlot = cfg.MaxCommitteesPerSlot
	}
	if perSlot == 0 {
		perSlot = 1
	}
	return &Validators{
		secrets:           secrets,
		pubkeys:           pubkeys,
		committeesPerSlot: perSlot,
	}, nil
}

// Count returns the number of validators.
func (v *Validators) Count() int {
	return len(v.pubkeys)
}

// CommitteesPerSlot returns the number of committees attesting in every slot.
func (v *Validators) CommitteesPerSlot() uint64 {
	return v.committeesPerSlot
}

// Committee returns the validator indices of a committee, in committee order.
func (v *Validators) Committee(slot primitives.Slot, index primitives.CommitteeIndex) ([]primitives.ValidatorIndex, error) {
	if uint64(index) >= v.committeesPerSlot {
		return nil, errors.Errorf("committee index %d out of range, %d committees per slot", index, v.committeesPerSlot)
	}
	slotsPerEpoch := uint64(params.BeaconConfig().SlotsPerEpoch)
	offset := uint64(slot) % slotsPerEpoch
	var committee []primitives.ValidatorIndex
	position := uint64(0)
	for i := offset; i < uint64(len(v.pubkeys)); i += slotsPerEpoch {
		if position%v.committeesPerSlot == uint64(index) {
			committee = append(committee, primitives.ValidatorIndex(i))
		}
		position++
	}
	return committee, nil
}

// AttestingPubkeys returns the public keys of the members whose bits are set.
func (v *Validators) AttestingPubkeys(_ context.Context, att *ethpb.Attestation) ([]bls.PublicKey, error) {
	if att == nil || att.Data == nil {
		return nil, errors.New("nil attestation")
	}
	committee, err := v.Committee(att.Data.Slot, att.Data.CommitteeIndex)
	if err != nil {
		return nil, err
	}
	if att.AggregationBits.Len() != uint64(len(committee)) {
		return nil, errors.Errorf("bitlist length %d does not match committee size %d", att.AggregationBits.Len(), len(committee))
	}
	indices := att.AggregationBits.BitIndices()
	keys := make([]bls.PublicKey, 0, len(indices))
	for _, i := range indices {
		keys = append(keys, v.pubkeys[committee[i]])
	}
	return keys, nil
}

// Domain returns the attester domain of the interop network, which never forks.
func (v *Validators) Domain(_ context.Context, _ primitives.Epoch) ([]byte, error) {
	cfg := params.BeaconConfig()
	return signing.ComputeDomain(cfg.DomainBeaconAttester, cfg.GenesisForkVersion, nil)
}

// Sign returns the signature of a validator over the attestation data.
func (v *Validators) Sign(ctx context.Context, index primitives.ValidatorIndex, data *ethpb.AttestationData) ([]byte, error) {
	if uint64(index) >= uint64(len(v.secrets)) {
		return nil, errors.Errorf("unknown validator %d", index)
	}
	domain, err := v.Domain(ctx, data.Target.Epoch)
	if err != nil {
		return nil, errors.Wrap(err, "could not compute domain")
	}
	root, err := signing.ComputeSigningRoot(data, domain)
	if err != nil {
		return nil, errors.Wrap(err, "could not compute signing root")
	}
	return v.secrets[index].Sign(root[:]).Marshal(), nil
}
