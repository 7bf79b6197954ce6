package churn

import (
	"sort"

	"github.com/ethbeacon/attpool/crypto/bls"
	"github.com/ethbeacon/attpool/encoding/bytesutil"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/proto/prysm/v1alpha1/attestation"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

var (
	// ErrBitsOverlap is returned when two bitlists overlap with each other.
	ErrBitsOverlap = errors.New("overlapping aggregation bits")
	// ErrBitsDifferentLen is returned when two bitlists have different lengths.
	ErrBitsDifferentLen = errors.New("different bitlist lengths")
	// ErrDataMismatch is returned when two attestations vote for different data.
	ErrDataMismatch = errors.New("attestation data differs")
	// ErrEmptyAggregate is returned when finalizing an aggregate with no members.
	ErrEmptyAggregate = errors.New("aggregate has no attestations")
)

// AttestationAggregate accumulates attestations voting for the same data
// with pairwise disjoint bits. It is owned by a single aggregation pass.
type AttestationAggregate struct {
	data    *ethpb.AttestationData
	bits    bitfield.Bitlist
	members []*ethpb.Attestation
}

// NewAttestationAggregate starts an aggregate from a single attestation.
func NewAttestationAggregate(att *ethpb.Attestation) *AttestationAggregate {
	return &AttestationAggregate{
		data:    att.Data,
		bits:    att.AggregationBits,
		members: []*ethpb.Attestation{att},
	}
}

// CanAdd returns nil if att may join the aggregate.
func (a *AttestationAggregate) CanAdd(att *ethpb.Attestation) error {
	if !a.data.Equal(att.Data) {
		return ErrDataMismatch
	}
	if a.bits.Len() != att.AggregationBits.Len() {
		return ErrBitsDifferentLen
	}
	overlaps, err := a.bits.Overlaps(att.AggregationBits)
	if err != nil {
		return errors.Wrap(ErrBitsDifferentLen, err.Error())
	}
	if overlaps {
		return ErrBitsOverlap
	}
	return nil
}

// Add merges att into the aggregate and reports whether it was accepted.
func (a *AttestationAggregate) Add(att *ethpb.Attestation) bool {
	if err := a.CanAdd(att); err != nil {
		return false
	}
	bits, err := a.bits.Or(att.AggregationBits)
	if err != nil {
		return false
	}
	a.bits = bits
	a.members = append(a.members, att)
	return true
}

// Data returns the vote shared by every member.
func (a *AttestationAggregate) Data() *ethpb.AttestationData {
	return a.data
}

// Bits returns the union of the member bits.
func (a *AttestationAggregate) Bits() bitfield.Bitlist {
	return a.bits
}

// Len returns the number of merged attestations.
func (a *AttestationAggregate) Len() int {
	return len(a.members)
}

// Finalize combines the member signatures into a single attestation.
func (a *AttestationAggregate) Finalize() (*ethpb.Attestation, error) {
	if len(a.members) == 0 {
		return nil, ErrEmptyAggregate
	}
	sigs := make([]bls.Signature, 0, len(a.members))
	for _, m := range a.members {
		sig, err := bls.SignatureFromBytes(m.Signature)
		if err != nil {
			return nil, errors.Wrap(err, "could not decode member signature")
		}
		sigs = append(sigs, sig)
	}
	return &ethpb.Attestation{
		AggregationBits: bytesutil.SafeCopyBytes(a.bits),
		Data:            a.data.Copy(),
		Signature:       bls.AggregateSignatures(sigs).Marshal(),
	}, nil
}

// GroupAttestations packs attestations into as few aggregates as a greedy
// first-fit allows. Attestations are partitioned by data in the order the
// data was first seen; inside a partition larger attestations are placed
// first, ties keeping their input order.
func GroupAttestations(atts []*ethpb.Attestation) ([]*AttestationAggregate, error) {
	partitions := make(map[attestation.Id][]*ethpb.Attestation)
	order := make([]attestation.Id, 0)
	for _, att := range atts {
		root, err := attestation.NewId(att, attestation.Data)
		if err != nil {
			return nil, err
		}
		if _, ok := partitions[root]; !ok {
			order = append(order, root)
		}
		partitions[root] = append(partitions[root], att)
	}

	aggregates := make([]*AttestationAggregate, 0, len(order))
	for _, root := range order {
		partition := partitions[root]
		sort.SliceStable(partition, func(i, j int) bool {
			return partition[i].AggregationBits.Count() > partition[j].AggregationBits.Count()
		})
		var open []*AttestationAggregate
		for _, att := range partition {
			placed := false
			for _, agg := range open {
				if agg.Add(att) {
					placed = true
					break
				}
			}
			if !placed {
				open = append(open, NewAttestationAggregate(att))
			}
		}
		aggregates = append(aggregates, open...)
	}
	return aggregates, nil
}
