package container

// IdMap is shaped like Map but keyed by a child record's own oid field value
// rather than a caller-chosen key (§3). On encode, the owning codec excludes
// the oid field from each child's payload since it is already the map key
// (§4.6); IdMap itself only needs to know how to extract a key from a value,
// supplied once at construction as keyOf.
type IdMap[K Key, V any] struct {
	*Map[K, V]
	keyOf func(V) K
}

// NewIdMap returns an empty IdMap whose key for a given value is produced by
// keyOf (ordinarily "read the value's oid field").
func NewIdMap[K Key, V any](keyOf func(V) K) *IdMap[K, V] {
	return &IdMap[K, V]{Map: NewMap[K, V](), keyOf: keyOf}
}

// Add installs obj under its own key, marking the IdMap changed.
func (m *IdMap[K, V]) Add(obj V) {
	m.Set(m.keyOf(obj), obj)
}

// Remove deletes obj's entry by its own key, marking the IdMap changed and
// recording a tombstone.
func (m *IdMap[K, V]) Remove(obj V) {
	m.Delete(m.keyOf(obj))
}

// Has reports whether obj's key is currently present.
func (m *IdMap[K, V]) Has(obj V) bool {
	return m.Map.Has(m.keyOf(obj))
}

// XXXAdd installs obj under its own key without marking the IdMap changed.
// Used exclusively by the decoder.
func (m *IdMap[K, V]) XXXAdd(obj V) {
	m.XXXRawSet(m.keyOf(obj), obj)
}
