package registry

import (
	"container/list"

	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrBaselineNotAdvanced is returned when the delay store baseline would not move forward.
var ErrBaselineNotAdvanced = errors.New("baseline must be strictly greater than the current one")

// Queue parks attestations by (epoch, root) over a sliding window of epochs
// starting at the baseline. The window is a ring of buckets addressed by
// epoch - baseline, so advancing the baseline only resets the buckets that
// fall out of it.
type Queue struct {
	buckets     []*epochBucket
	head        int
	tracked     primitives.Epoch
	maxSize     int
	size        int
	baseline    primitives.Epoch
	initialized bool
}

// NewQueue returns an uninitialized store tracking the given number of epochs
// and holding at most maxSize attestations.
func NewQueue(trackedEpochs primitives.Epoch, maxSize int) *Queue {
	if trackedEpochs == 0 || maxSize <= 0 {
		panic("delay store needs a positive window and capacity")
	}
	buckets := make([]*epochBucket, trackedEpochs)
	for i := range buckets {
		buckets[i] = newEpochBucket()
	}
	return &Queue{
		buckets: buckets,
		tracked: trackedEpochs,
		maxSize: maxSize,
	}
}

// AdvanceBaseline moves the window to start at epoch. Buckets of epochs
// before the new baseline are dropped with their attestations.
func (q *Queue) AdvanceBaseline(epoch primitives.Epoch) error {
	if !q.initialized {
		q.baseline = epoch
		q.initialized = true
		return nil
	}
	if epoch <= q.baseline {
		return errors.Wrapf(ErrBaselineNotAdvanced, "current %d, requested %d", q.baseline, epoch)
	}
	shift := epoch - q.baseline
	if shift >= q.tracked {
		for _, b := range q.buckets {
			q.size -= b.reset()
		}
		q.head = 0
	} else {
		for i := primitives.Epoch(0); i < shift; i++ {
			q.size -= q.buckets[q.head].reset()
			q.head = (q.head + 1) % len(q.buckets)
		}
	}
	q.baseline = epoch
	return nil
}

// Park stores the attestation under the epoch and root. Attestations outside
// the window, or parked before the first baseline, are ignored. Parking over
// capacity drops the oldest attestations of the lowest epochs first.
func (q *Queue) Park(epoch primitives.Epoch, root [32]byte, att *ethpb.ReceivedAttestation) bool {
	if !q.initialized {
		delayStoreRejectedCount.WithLabelValues("uninitialized").Inc()
		return false
	}
	if epoch < q.baseline {
		delayStoreRejectedCount.WithLabelValues("before_window").Inc()
		return false
	}
	if epoch >= q.baseline+q.tracked {
		delayStoreRejectedCount.WithLabelValues("after_window").Inc()
		return false
	}
	q.bucket(epoch).add(root, att)
	q.size++
	q.purge()
	return true
}

// EvictByRoot removes and returns every attestation parked under root, in
// all epochs, lowest epoch first.
func (q *Queue) EvictByRoot(root [32]byte) []*ethpb.ReceivedAttestation {
	if !q.initialized {
		return nil
	}
	var evicted []*ethpb.ReceivedAttestation
	for i := range q.buckets {
		atts := q.buckets[(q.head+i)%len(q.buckets)].evict(root)
		q.size -= len(atts)
		evicted = append(evicted, atts...)
	}
	return evicted
}

// Size returns the number of parked attestations.
func (q *Queue) Size() int {
	return q.size
}

// Baseline returns the first tracked epoch, and false before the first
// AdvanceBaseline call.
func (q *Queue) Baseline() (primitives.Epoch, bool) {
	return q.baseline, q.initialized
}

// TrackedEpochs returns the length of the window.
func (q *Queue) TrackedEpochs() primitives.Epoch {
	return q.tracked
}

// Contains reports whether epoch falls inside the current window.
func (q *Queue) Contains(epoch primitives.Epoch) bool {
	return q.initialized && epoch >= q.baseline && epoch < q.baseline+q.tracked
}

func (q *Queue) bucket(epoch primitives.Epoch) *epochBucket {
	return q.buckets[(q.head+int(epoch-q.baseline))%len(q.buckets)]
}

func (q *Queue) purge() {
	for i := 0; i < len(q.buckets) && q.size > q.maxSize; i++ {
		b := q.buckets[(q.head+i)%len(q.buckets)]
		for b.len() > 0 && q.size > q.maxSize {
			dropped := b.removeOldest()
			q.size--
			delayStoreEvictedCount.Inc()
			log.WithFields(logrus.Fields{
				"epoch": q.baseline + primitives.Epoch(i),
				"peer":  dropped.PeerID,
			}).Trace("Dropped parked attestation at capacity")
		}
	}
}

type bucketEntry struct {
	root [32]byte
	att  *ethpb.ReceivedAttestation
}

// epochBucket keeps the attestations of one epoch in arrival order, indexed
// by root. The front of entries is the oldest attestation of the bucket,
// which is also the first attestation of the root that arrived earliest.
type epochBucket struct {
	entries *list.List
	byRoot  map[[32]byte][]*list.Element
}

func newEpochBucket() *epochBucket {
	return &epochBucket{
		entries: list.New(),
		byRoot:  make(map[[32]byte][]*list.Element),
	}
}

func (b *epochBucket) add(root [32]byte, att *ethpb.ReceivedAttestation) {
	e := b.entries.PushBack(&bucketEntry{root: root, att: att})
	b.byRoot[root] = append(b.byRoot[root], e)
}

func (b *epochBucket) evict(root [32]byte) []*ethpb.ReceivedAttestation {
	elems, ok := b.byRoot[root]
	if !ok {
		return nil
	}
	delete(b.byRoot, root)
	atts := make([]*ethpb.ReceivedAttestation, len(elems))
	for i, e := range elems {
		atts[i] = b.entries.Remove(e).(*bucketEntry).att
	}
	return atts
}

func (b *epochBucket) removeOldest() *ethpb.ReceivedAttestation {
	front := b.entries.Front()
	if front == nil {
		return nil
	}
	entry := b.entries.Remove(front).(*bucketEntry)
	elems := b.byRoot[entry.root]
	if len(elems) <= 1 {
		delete(b.byRoot, entry.root)
	} else {
		b.byRoot[entry.root] = elems[1:]
	}
	return entry.att
}

func (b *epochBucket) len() int {
	return b.entries.Len()
}

// reset empties the bucket and returns the number of attestations dropped.
func (b *epochBucket) reset() int {
	n := b.entries.Len()
	if n > 0 {
		b.entries.Init()
		b.byRoot = make(map[[32]byte][]*list.Element)
	}
	return n
}
