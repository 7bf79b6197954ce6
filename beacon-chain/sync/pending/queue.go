package pending

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// bucket is an insertion ordered set of items sharing a key.
type bucket[T any] struct {
	items []T
	seen  map[[32]byte]struct{}
}

// keyedQueue holds items under a key until the whole bucket is released.
// It is unbounded; every bucket is released at most once.
type keyedQueue[K comparable, T any] struct {
	name    string
	lock    sync.Mutex
	buckets map[K]*bucket[T]
	size    int
	id      func(T) ([32]byte, error)
}

func newKeyedQueue[K comparable, T any](name string, id func(T) ([32]byte, error)) *keyedQueue[K, T] {
	return &keyedQueue[K, T]{
		name:    name,
		buckets: make(map[K]*bucket[T]),
		id:      id,
	}
}

// add stores item under key and reports whether it was not there already.
func (q *keyedQueue[K, T]) add(key K, item T) (bool, error) {
	id, err := q.id(item)
	if err != nil {
		return false, errors.Wrap(err, "could not compute item id")
	}
	q.lock.Lock()
	defer q.lock.Unlock()
	b, ok := q.buckets[key]
	if !ok {
		b = &bucket[T]{seen: make(map[[32]byte]struct{})}
		q.buckets[key] = b
	}
	if _, ok := b.seen[id]; ok {
		return false, nil
	}
	b.seen[id] = struct{}{}
	b.items = append(b.items, item)
	q.size++
	queuedCount.WithLabelValues(q.name).Inc()
	queueSize.WithLabelValues(q.name).Set(float64(q.size))
	return true, nil
}

// take removes and returns the bucket under key.
func (q *keyedQueue[K, T]) take(key K) []T {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.removeLocked(key)
}

// takeWhere removes every bucket whose key matches, ordered by less.
func (q *keyedQueue[K, T]) takeWhere(match func(K) bool, less func(a, b K) bool) [][]T {
	q.lock.Lock()
	defer q.lock.Unlock()
	keys := make([]K, 0)
	for k := range q.buckets {
		if match(k) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	batches := make([][]T, 0, len(keys))
	for _, k := range keys {
		batches = append(batches, q.removeLocked(k))
	}
	return batches
}

func (q *keyedQueue[K, T]) removeLocked(key K) []T {
	b, ok := q.buckets[key]
	if !ok {
		return nil
	}
	delete(q.buckets, key)
	q.size -= len(b.items)
	dequeuedCount.WithLabelValues(q.name).Add(float64(len(b.items)))
	queueSize.WithLabelValues(q.name).Set(float64(q.size))
	return b.items
}

func (q *keyedQueue[K, T]) len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.size
}
