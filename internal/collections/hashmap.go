package collections

const (
	defaultCapacity = 16
	loadFactor      = 0.75

	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// StringHash computes the FNV-1a hash of s: XOR each byte into the running
// hash, then multiply by the FNV prime, wrapping modulo 2^32.
func StringHash(s string) uint32 {
	hash := fnvOffsetBasis
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= fnvPrime
	}
	return hash
}

// hashEntry is one key-value pair in a bucket chain.
type hashEntry[K, V any] struct {
	key   K
	value V
	next  *hashEntry[K, V]
}

// HashMap is a key-value store with separate chaining. The hash and equality
// functions are injected at construction, so any key type works as long as
// it can be hashed consistently with its equality. Capacity doubles whenever
// the load factor would reach 0.75.
type HashMap[K, V any] struct {
	buckets []*hashEntry[K, V]
	size    int
	hash    func(K) uint32
	equal   func(a, b K) bool
}

// NewHashMap creates an empty HashMap with the default capacity of 16.
func NewHashMap[K, V any](hash func(K) uint32, equal func(a, b K) bool) *HashMap[K, V] {
	return &HashMap[K, V]{
		buckets: make([]*hashEntry[K, V], defaultCapacity),
		hash:    hash,
		equal:   equal,
	}
}

// NewStringMap creates a HashMap keyed by strings using FNV-1a hashing.
func NewStringMap[V any]() *HashMap[string, V] {
	return NewHashMap[string, V](StringHash, Equal[string]())
}

// bucketIndex reduces the key's hash modulo capacity. The same function is
// used during resize with the new capacity, so every entry is rehashed
// rather than redistributed by bit masking.
func (m *HashMap[K, V]) bucketIndex(key K, capacity int) int {
	return int(m.hash(key) % uint32(capacity))
}

// Put stores value under key, overwriting any existing value. The table
// resizes before the insert whenever the element count has reached 75% of
// capacity.
func (m *HashMap[K, V]) Put(key K, value V) {
	if float64(m.size) >= float64(len(m.buckets))*loadFactor {
		m.resize()
	}

	idx := m.bucketIndex(key, len(m.buckets))
	if m.buckets[idx] == nil {
		m.buckets[idx] = &hashEntry[K, V]{key: key, value: value}
		m.size++
		return
	}

	current := m.buckets[idx]
	for {
		if m.equal(current.key, key) {
			current.value = value
			return
		}
		if current.next == nil {
			break
		}
		current = current.next
	}
	current.next = &hashEntry[K, V]{key: key, value: value}
	m.size++
}

// resize doubles the bucket array and rehashes every entry against the new
// capacity.
func (m *HashMap[K, V]) resize() {
	newCapacity := len(m.buckets) * 2
	newBuckets := make([]*hashEntry[K, V], newCapacity)

	for _, entry := range m.buckets {
		for entry != nil {
			next := entry.next
			idx := m.bucketIndex(entry.key, newCapacity)
			entry.next = newBuckets[idx]
			newBuckets[idx] = entry
			entry = next
		}
	}
	m.buckets = newBuckets
}

// Get returns the value stored under key and whether the key was present.
func (m *HashMap[K, V]) Get(key K) (V, bool) {
	idx := m.bucketIndex(key, len(m.buckets))
	for entry := m.buckets[idx]; entry != nil; entry = entry.next {
		if m.equal(entry.key, key) {
			return entry.value, true
		}
	}
	var zero V
	return zero, false
}

// ContainsKey reports whether key is present.
func (m *HashMap[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove unlinks the entry for key, re-pointing either the bucket head or
// the previous entry's link. Removing an absent key is a no-op.
func (m *HashMap[K, V]) Remove(key K) {
	idx := m.bucketIndex(key, len(m.buckets))
	var prev *hashEntry[K, V]
	for entry := m.buckets[idx]; entry != nil; entry = entry.next {
		if m.equal(entry.key, key) {
			if prev == nil {
				m.buckets[idx] = entry.next
			} else {
				prev.next = entry.next
			}
			m.size--
			return
		}
		prev = entry
	}
}

// Len returns the number of entries.
func (m *HashMap[K, V]) Len() int {
	return m.size
}

// IsEmpty reports whether the map has no entries.
func (m *HashMap[K, V]) IsEmpty() bool {
	return m.size == 0
}

// Keys returns every key in bucket-then-chain order. The order is not
// sorted and changes across resizes.
func (m *HashMap[K, V]) Keys() *List[K] {
	keys := NewList[K](m.equal)
	for _, entry := range m.buckets {
		for ; entry != nil; entry = entry.next {
			keys.Add(entry.key)
		}
	}
	return keys
}

// Clear drops every entry, resetting the table to its default capacity.
func (m *HashMap[K, V]) Clear() {
	m.buckets = make([]*hashEntry[K, V], defaultCapacity)
	m.size = 0
}
