package record

import "github.com/bearlytools/recordmodel/container"

// GetRecord returns the stored sub-record for a record-typed field, lazily
// materializing one via create if the field is absent (§4.2: "a companion
// get_<name> method that auto-materializes"). Materializing does not mark the
// field dirty — only an explicit SetRecord does.
func GetRecord[T any](b *Base, index uint16, create func() T) T {
	v, present := GetAny(b, index)
	if present {
		return v.(T)
	}
	nv := create()
	b.XXXSetAny(index, nv)
	return nv
}

// SetRecord replaces the sub-record stored at index, always marking the
// field dirty (§3: "setting a container field replaces the container ... and
// marks the field dirty" — the same rule applies to a nested record, whose
// identity has changed).
func SetRecord[T any](b *Base, index uint16, value T) error {
	return SetAny(b, index, value, true)
}

// GetArray returns the Array stored at index, lazily installing an empty one
// if absent (§4.2: "container fields: getter lazily installs an empty
// container of the right kind").
func GetArray[T any](b *Base, index uint16) *container.Array[T] {
	v, present := GetAny(b, index)
	if present {
		return v.(*container.Array[T])
	}
	a := container.NewArray[T](nil)
	b.XXXSetAny(index, a)
	return a
}

// SetArray replaces the Array stored at index, always marking the field dirty.
func SetArray[T any](b *Base, index uint16, value *container.Array[T]) error {
	return SetAny(b, index, value, true)
}

// GetMap returns the Map stored at index, lazily installing an empty one if
// absent.
func GetMap[K container.Key, V any](b *Base, index uint16) *container.Map[K, V] {
	v, present := GetAny(b, index)
	if present {
		return v.(*container.Map[K, V])
	}
	m := container.NewMap[K, V]()
	b.XXXSetAny(index, m)
	return m
}

// SetMap replaces the Map stored at index, always marking the field dirty.
func SetMap[K container.Key, V any](b *Base, index uint16, value *container.Map[K, V]) error {
	return SetAny(b, index, value, true)
}

// GetIdMap returns the IdMap stored at index, lazily installing an empty one
// (keyed via keyOf) if absent.
func GetIdMap[K container.Key, V any](b *Base, index uint16, keyOf func(V) K) *container.IdMap[K, V] {
	v, present := GetAny(b, index)
	if present {
		return v.(*container.IdMap[K, V])
	}
	m := container.NewIdMap[K, V](keyOf)
	b.XXXSetAny(index, m)
	return m
}

// SetIdMap replaces the IdMap stored at index, always marking the field dirty.
func SetIdMap[K container.Key, V any](b *Base, index uint16, value *container.IdMap[K, V]) error {
	return SetAny(b, index, value, true)
}
