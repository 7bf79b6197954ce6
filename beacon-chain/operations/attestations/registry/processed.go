// Package registry holds the single-owner bookkeeping of the attestation pool:
// the registry of processed attestations, the epoch bucketed delay store and
// the pool of attestations waiting for an unknown block.
//
// None of the types in this package are safe for concurrent use. The pool
// service owns them from a single goroutine.
package registry

import (
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/proto/prysm/v1alpha1/attestation"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/pkg/errors"
)

// ProcessedAttestations remembers the fingerprints of attestations that went
// through the pool, bounded to the most recent ones.
type ProcessedAttestations struct {
	cache *simplelru.LRU[[32]byte, struct{}]
}

// NewProcessedAttestations creates a registry holding at most size fingerprints.
func NewProcessedAttestations(size int) (*ProcessedAttestations, error) {
	cache, err := simplelru.NewLRU[[32]byte, struct{}](size, func([32]byte, struct{}) {
		processedEvictedCount.Inc()
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create processed attestations cache")
	}
	return &ProcessedAttestations{cache: cache}, nil
}

// Add records the attestation and reports whether its fingerprint was new.
// Inserting at capacity evicts the least recently added fingerprint.
func (p *ProcessedAttestations) Add(att *ethpb.ReceivedAttestation) (bool, error) {
	root, err := fingerprint(att)
	if err != nil {
		return false, err
	}
	if p.cache.Contains(root) {
		return false, nil
	}
	p.cache.Add(root, struct{}{})
	return true, nil
}

// Contains reports whether the attestation was already recorded, without
// recording it.
func (p *ProcessedAttestations) Contains(att *ethpb.ReceivedAttestation) (bool, error) {
	root, err := fingerprint(att)
	if err != nil {
		return false, err
	}
	return p.cache.Contains(root), nil
}

func fingerprint(att *ethpb.ReceivedAttestation) ([32]byte, error) {
	if att == nil {
		return [32]byte{}, errors.New("nil received attestation")
	}
	id, err := attestation.NewId(att.Attestation, attestation.Full)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute attestation fingerprint")
	}
	return id, nil
}

// Len returns the number of fingerprints held.
func (p *ProcessedAttestations) Len() int {
	return p.cache.Len()
}
