package eth

// ReceivedAttestation is an attestation together with the peer that delivered it.
// It is created at the network boundary and never mutated afterwards.
type ReceivedAttestation struct {
	PeerID      string
	Attestation *Attestation
}

// NewReceivedAttestation wraps an attestation received from the given peer.
func NewReceivedAttestation(peer string, att *Attestation) *ReceivedAttestation {
	return &ReceivedAttestation{PeerID: peer, Attestation: att}
}

// HashTreeRoot returns the fingerprint of the wrapped vote. Two received
// attestations with the same vote share a fingerprint regardless of sender.
func (r *ReceivedAttestation) HashTreeRoot() ([32]byte, error) {
	return r.Attestation.HashTreeRoot()
}
