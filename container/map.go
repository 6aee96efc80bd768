package container

import "sort"

// Map is an unordered (on the wire: insertion-sorted for lookup) mapping from
// a primitive key to a value (scalar or nested record). It owns a `changed`
// flag plus a `removed` set recording keys deleted since the last clear, so
// delta encoding can emit explicit null tombstones (§3, §4.4). Grounded on
// the sorted-slice-plus-binary-search shape of the teacher's (now removed)
// clawc/languages/go/segment Maps[K,V] type: entries are kept sorted by key
// so lookup is O(log n) without a Go builtin map, keeping element storage
// amenable to the same kind of in-place sync-mode decode a builtin map would
// make awkward to reason about deterministically.
type Map[K Key, V any] struct {
	keys    []K
	values  []V
	changed bool
	removed map[any]struct{}
}

// NewMap returns an empty Map.
func NewMap[K Key, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

func (m *Map[K, V]) find(key K) (int, bool) {
	i := sort.Search(len(m.keys), func(i int) bool { return compareKeys(m.keys[i], key) >= 0 })
	if i < len(m.keys) && compareKeys(m.keys[i], key) == 0 {
		return i, true
	}
	return i, false
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored at key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	i, ok := m.find(key)
	if !ok {
		return zero, false
	}
	return m.values[i], true
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.find(key)
	return ok
}

// Set installs key->value, marking the Map changed and clearing any pending
// tombstone for key.
func (m *Map[K, V]) Set(key K, value V) {
	m.rawSet(key, value)
	m.changed = true
}

// Delete removes key, marking the Map changed and recording key in the
// removed tombstone set so a subsequent delta-encode can emit `key: null`.
func (m *Map[K, V]) Delete(key K) {
	i, ok := m.find(key)
	if !ok {
		return
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	if m.removed == nil {
		m.removed = make(map[any]struct{})
	}
	m.removed[key] = struct{}{}
	m.changed = true
}

// Clear empties the Map (every prior live key becomes a tombstone) and marks
// it changed.
func (m *Map[K, V]) Clear() {
	for _, k := range m.keys {
		if m.removed == nil {
			m.removed = make(map[any]struct{})
		}
		m.removed[k] = struct{}{}
	}
	m.keys = nil
	m.values = nil
	m.changed = true
}

// Keys returns the live keys in sorted order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	return m.keys
}

// Values returns the live values, aligned with Keys().
func (m *Map[K, V]) Values() []V {
	if m == nil {
		return nil
	}
	return m.values
}

// Removed returns the set of keys tombstoned since the last ClearChanged.
func (m *Map[K, V]) Removed() []K {
	if m == nil || len(m.removed) == 0 {
		return nil
	}
	out := make([]K, 0, len(m.removed))
	for k := range m.removed {
		out = append(out, k.(K))
	}
	return out
}

// Changed reports whether any public mutation occurred since the last
// ClearChanged.
func (m *Map[K, V]) Changed() bool {
	if m == nil {
		return false
	}
	return m.changed
}

// ClearChanged resets the changed flag and drops the tombstone set, without
// touching live entries.
func (m *Map[K, V]) ClearChanged() {
	if m == nil {
		return
	}
	m.changed = false
	m.removed = nil
}

func (m *Map[K, V]) rawSet(key K, value V) {
	i, ok := m.find(key)
	if ok {
		m.values[i] = value
		if m.removed != nil {
			delete(m.removed, key)
		}
		return
	}

	var zeroK K
	m.keys = append(m.keys, zeroK)
	copy(m.keys[i+1:], m.keys[i:len(m.keys)-1])
	m.keys[i] = key

	var zeroV V
	m.values = append(m.values, zeroV)
	copy(m.values[i+1:], m.values[i:len(m.values)-1])
	m.values[i] = value

	if m.removed != nil {
		delete(m.removed, key)
	}
}

// XXXRawSet installs key->value without marking the Map changed; like Set, it
// drops any pending tombstone for key. Used exclusively by the decoder for override-mode
// rebuilds and sync-mode in-place updates (§4.5: "install via the internal
// raw setter (no dirty marking)").
func (m *Map[K, V]) XXXRawSet(key K, value V) {
	m.rawSet(key, value)
}

// EachKV calls fn once per live entry, in key order. fn receives the key and
// value as `any` so non-generic callers (the codec package) can range over a
// Map[K, V] without knowing K/V at compile time.
func (m *Map[K, V]) EachKV(fn func(key, value any)) {
	if m == nil {
		return
	}
	for i, k := range m.keys {
		fn(k, m.values[i])
	}
}

// EachRemoved calls fn once per tombstoned key since the last ClearChanged.
func (m *Map[K, V]) EachRemoved(fn func(key any)) {
	if m == nil {
		return
	}
	for k := range m.removed {
		fn(k)
	}
}

// GetAny returns the value stored at key (boxed as `any`) and whether it was
// present, for callers that don't know K/V at compile time.
func (m *Map[K, V]) GetAny(key any) (any, bool) {
	return m.Get(key.(K))
}

// XXXRawSetAny is XXXRawSet through type-erased `any` key/value, for the
// decoder driving a Map[K, V] or IdMap[K, V] it did not instantiate itself.
func (m *Map[K, V]) XXXRawSetAny(key, value any) {
	m.XXXRawSet(key.(K), value.(V))
}

// XXXRawDeleteAny is XXXRawDelete through a type-erased `any` key.
func (m *Map[K, V]) XXXRawDeleteAny(key any) {
	m.XXXRawDelete(key.(K))
}

// DictIterable is the type-erased surface the codec package drives to encode
// or decode any Map[K, V] or IdMap[K, V] without importing a concrete
// instantiation.
type DictIterable interface {
	Len() int
	Changed() bool
	ClearChanged()
	Clear()
	EachKV(fn func(key, value any))
	EachRemoved(fn func(key any))
	GetAny(key any) (any, bool)
	XXXRawSetAny(key, value any)
	XXXRawDeleteAny(key any)
}

// XXXRawDelete removes key without marking the Map changed or recording a
// tombstone. Used exclusively by the decoder applying a sync-mode null delete
// that originated from the peer, not from local mutation.
func (m *Map[K, V]) XXXRawDelete(key K) {
	i, ok := m.find(key)
	if !ok {
		return
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
}
