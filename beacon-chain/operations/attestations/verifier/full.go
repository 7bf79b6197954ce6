package verifier

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ethbeacon/attpool/beacon-chain/core/signing"
	"github.com/ethbeacon/attpool/beacon-chain/db/iface"
	"github.com/ethbeacon/attpool/config/features"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/crypto/bls"
	"github.com/ethbeacon/attpool/encoding/bytesutil"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/proto/prysm/v1alpha1/attestation"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a full verification batch.
type Result struct {
	Valid   []*ethpb.ReceivedAttestation
	Invalid []*ethpb.ReceivedAttestation
}

func (r *Result) merge(other Result) {
	r.Valid = append(r.Valid, other.Valid...)
	r.Invalid = append(r.Invalid, other.Invalid...)
}

func (r *Result) reject(reasonErr error, atts ...*ethpb.ReceivedAttestation) {
	fullRejectedCount.WithLabelValues(reason(reasonErr)).Add(float64(len(atts)))
	r.Invalid = append(r.Invalid, atts...)
}

// FullVerifier checks batches of attestations against the voted block and
// their BLS signatures. Attestations sharing the same data are checked with
// one aggregate signature whenever their bits are disjoint.
type FullVerifier struct {
	blocks     iface.ReadOnlyDatabase
	committees CommitteeSource
	workers    *workerpool.WorkerPool
}

// NewFullVerifier creates a verifier running at most maxThreads signature
// checks at once.
func NewFullVerifier(blocks iface.ReadOnlyDatabase, committees CommitteeSource, maxThreads int) *FullVerifier {
	if maxThreads < 1 {
		maxThreads = 1
	}
	return &FullVerifier{
		blocks:     blocks,
		committees: committees,
		workers:    workerpool.New(maxThreads),
	}
}

// Stop waits for the running checks and releases the workers.
func (v *FullVerifier) Stop() {
	v.workers.StopWait()
}

// VerifyBatch splits the batch into valid and invalid attestations. Every
// attestation of the batch ends up in exactly one of the two.
func (v *FullVerifier) VerifyBatch(ctx context.Context, batch []*ethpb.ReceivedAttestation) Result {
	ctx, span := trace.StartSpan(ctx, "verifier.FullVerifier.VerifyBatch")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("batchSize", int64(len(batch))))

	start := time.Now()
	defer func() {
		fullBatchLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()
	fullBatchSize.Observe(float64(len(batch)))

	var result Result
	epochs, err := v.blockEpochs(ctx, batch)
	if err != nil {
		log.WithError(err).Error("Could not read voted blocks")
		result.reject(err, batch...)
		return result
	}

	groups, order := make(map[attestation.Id][]*ethpb.ReceivedAttestation), make([]attestation.Id, 0)
	for _, att := range batch {
		if err := checkBlock(att.Attestation, epochs); err != nil {
			log.WithError(err).WithField("peer", att.PeerID).Debug("Attestation failed block consistency")
			result.reject(err, att)
			continue
		}
		dataRoot, err := attestation.NewId(att.Attestation, attestation.Data)
		if err != nil {
			result.reject(err, att)
			continue
		}
		if _, ok := groups[dataRoot]; !ok {
			order = append(order, dataRoot)
		}
		groups[dataRoot] = append(groups[dataRoot], att)
	}

	var lock sync.Mutex
	var wg sync.WaitGroup
	for _, dataRoot := range order {
		group := groups[dataRoot]
		wg.Add(1)
		v.workers.Submit(func() {
			defer wg.Done()
			r := v.verifyGroup(ctx, group)
			lock.Lock()
			result.merge(r)
			lock.Unlock()
		})
	}
	wg.Wait()

	log.WithFields(logrus.Fields{
		"valid":   len(result.Valid),
		"invalid": len(result.Invalid),
		"groups":  len(order),
	}).Trace("Verified attestation batch")
	return result
}

// blockEpochs reads the voted blocks of the batch in parallel and returns the
// epoch of every block found.
func (v *FullVerifier) blockEpochs(ctx context.Context, batch []*ethpb.ReceivedAttestation) (map[[32]byte]primitives.Epoch, error) {
	ctx, span := trace.StartSpan(ctx, "verifier.FullVerifier.blockEpochs")
	defer span.End()

	roots := make(map[[32]byte]bool)
	for _, att := range batch {
		roots[att.Attestation.BlockRoot()] = true
	}
	epochs := make(map[[32]byte]primitives.Epoch, len(roots))
	var lock sync.Mutex
	eg, egctx := errgroup.WithContext(ctx)
	for root := range roots {
		root := root
		eg.Go(func() error {
			header, err := v.blocks.Block(egctx, root)
			if err != nil {
				return err
			}
			if header == nil || header.Header == nil {
				return nil
			}
			lock.Lock()
			epochs[root] = slots.ToEpoch(header.Header.Slot)
			lock.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return epochs, nil
}

// checkBlock requires the voted block to be known and consistent with the
// target checkpoint.
func checkBlock(att *ethpb.Attestation, epochs map[[32]byte]primitives.Epoch) error {
	blockRoot := att.BlockRoot()
	blockEpoch, ok := epochs[blockRoot]
	if !ok {
		return ErrUnknownBlock
	}
	target := att.Data.Target
	if blockEpoch > target.Epoch {
		return errors.Wrapf(ErrBlockAfterTarget, "block epoch %d, target %d", blockEpoch, target.Epoch)
	}
	if blockEpoch < target.Epoch && blockRoot != bytesutil.ToBytes32(target.Root) {
		return ErrTargetRootMismatch
	}
	return nil
}

type candidate struct {
	att     *ethpb.ReceivedAttestation
	bits    bitfield.Bitlist
	pubkeys []bls.PublicKey
	sig     bls.Signature
}

// verifyGroup checks the signatures of attestations sharing the same data.
// Smaller attestations go first so that the aggregate covers as many of them
// as possible; if the aggregate fails every attestation is checked alone.
func (v *FullVerifier) verifyGroup(ctx context.Context, group []*ethpb.ReceivedAttestation) Result {
	ctx, span := trace.StartSpan(ctx, "verifier.FullVerifier.verifyGroup")
	defer span.End()

	var result Result
	if features.Get().SkipBLSVerify {
		result.Valid = group
		return result
	}
	data := group[0].Attestation.Data
	domain, err := v.committees.Domain(ctx, data.Target.Epoch)
	if err != nil {
		result.reject(errors.Wrap(err, "could not get domain"), group...)
		return result
	}
	signingRoot, err := signing.ComputeSigningRoot(data, domain)
	if err != nil {
		result.reject(errors.Wrap(err, "could not compute signing root"), group...)
		return result
	}

	candidates := make([]*candidate, 0, len(group))
	for _, att := range group {
		pubkeys, err := v.committees.AttestingPubkeys(ctx, att.Attestation)
		if err != nil {
			log.WithError(err).WithField("peer", att.PeerID).Debug("Could not resolve attesting keys")
			result.reject(err, att)
			continue
		}
		sig, err := bls.SignatureFromBytes(att.Attestation.Signature)
		if err != nil {
			result.reject(err, att)
			continue
		}
		candidates = append(candidates, &candidate{
			att:     att,
			bits:    att.Attestation.AggregationBits,
			pubkeys: pubkeys,
			sig:     sig,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].bits.Count() < candidates[j].bits.Count()
	})

	var aggregated, single []*candidate
	var union bitfield.Bitlist
	for _, c := range candidates {
		if union == nil {
			union = c.bits
			aggregated = append(aggregated, c)
			continue
		}
		if overlaps, err := union.Overlaps(c.bits); err != nil || overlaps {
			single = append(single, c)
			continue
		}
		merged, err := union.Or(c.bits)
		if err != nil {
			single = append(single, c)
			continue
		}
		union = merged
		aggregated = append(aggregated, c)
	}

	if len(aggregated) > 1 {
		sigs := make([]bls.Signature, 0, len(aggregated))
		pubkeys := make([]bls.PublicKey, 0)
		for _, c := range aggregated {
			sigs = append(sigs, c.sig)
			pubkeys = append(pubkeys, c.pubkeys...)
		}
		if bls.AggregateSignatures(sigs).FastAggregateVerify(pubkeys, signingRoot) {
			for _, c := range aggregated {
				result.Valid = append(result.Valid, c.att)
			}
		} else {
			aggregateFallbackCount.Inc()
			single = candidates
		}
	} else {
		single = candidates
	}

	for _, c := range single {
		if c.sig.FastAggregateVerify(c.pubkeys, signingRoot) {
			result.Valid = append(result.Valid, c.att)
			continue
		}
		result.reject(signing.ErrSigFailedToVerify, c.att)
	}
	return result
}
