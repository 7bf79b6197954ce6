package verifier

import (
	"context"

	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/crypto/bls"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
)

// CommitteeSource resolves the committee data needed to check attestation
// signatures.
type CommitteeSource interface {
	// AttestingPubkeys returns the public keys of the committee members whose
	// aggregation bits are set, in committee order.
	AttestingPubkeys(ctx context.Context, att *ethpb.Attestation) ([]bls.PublicKey, error)
	// Domain returns the signature domain of attestations targeting the epoch.
	Domain(ctx context.Context, epoch primitives.Epoch) ([]byte, error)
}
