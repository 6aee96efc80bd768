package record

import (
	"github.com/bearlytools/recordmodel/container"
	"github.com/bearlytools/recordmodel/field"
)

// changer is implemented by container.Array/Map/IdMap: a value with its own
// independent changed flag, not tracked through the owning record's DirtySet
// (§4.3 — "mutating a container in place does not touch the record's
// DirtySet directly").
type changer interface {
	Changed() bool
	ClearChanged()
}

// nestedRecord is implemented by any type embedding Base: the promoted
// HasChanged/ClearChanged methods below give every record type this shape for
// free, which is what lets Base recurse into nested record-typed fields
// without importing the concrete sub-record type.
type nestedRecord interface {
	HasChanged(name string, recursive bool) bool
	ClearChanged(recursive bool, names ...string)
}

// HasChanged reports whether the named field (or, if name == "", any field)
// is dirty. If recursive, containers and nested records reachable from the
// inspected field(s) are also consulted (§4.3).
func (b *Base) HasChanged(name string, recursive bool) bool {
	if name != "" {
		f, ok := b.proto.ByName(name)
		if !ok {
			return false
		}
		if b.dirty.IsDirty(f.Index) {
			return true
		}
		if recursive {
			return b.childChanged(f.Index)
		}
		return false
	}

	if b.dirty.HasAnyDirty() {
		return true
	}
	if recursive {
		for _, f := range b.proto.Fields() {
			if b.childChanged(f.Index) {
				return true
			}
		}
	}
	return false
}

func (b *Base) childChanged(index uint16) bool {
	f, ok := b.proto.ByIndex(index)
	if !ok {
		return false
	}
	if f.Ref {
		// A ref field's own dirty bit (already checked by the caller) fully
		// captures whether it changed: the target's internal dirtiness is the
		// target's own business, not this field's (§4.3 — only the oid is
		// encoded here, the target is never owned).
		return false
	}
	v, present := GetAny(b, index)
	if !present {
		return false
	}

	switch f.Kind {
	case field.Array:
		arr, ok := v.(container.Iface)
		if !ok {
			return false
		}
		if arr.Changed() {
			return true
		}
		if f.Type != field.Record {
			return false
		}
		found := false
		arr.EachElem(func(_ int, ev any) {
			if found {
				return
			}
			if nr, ok := ev.(nestedRecord); ok && nr.HasChanged("", true) {
				found = true
			}
		})
		return found

	case field.Map, field.IDMap:
		m, ok := v.(container.DictIterable)
		if !ok {
			return false
		}
		if m.Changed() {
			return true
		}
		if f.Type != field.Record {
			return false
		}
		found := false
		m.EachKV(func(_, val any) {
			if found {
				return
			}
			if nr, ok := val.(nestedRecord); ok && nr.HasChanged("", true) {
				found = true
			}
		})
		return found

	default:
		switch t := v.(type) {
		case changer:
			return t.Changed()
		case nestedRecord:
			return t.HasChanged("", true)
		}
		return false
	}
}

// ClearChanged clears the named fields' dirty bits (or all, if names is
// empty). If recursive, also clears containers' and nested records' own
// changed state reachable from the cleared fields.
func (b *Base) ClearChanged(recursive bool, names ...string) {
	if len(names) == 0 {
		for _, f := range b.proto.Fields() {
			if recursive {
				b.clearChild(f.Index)
			}
		}
		b.dirty.ClearAll()
		return
	}
	for _, n := range names {
		f, ok := b.proto.ByName(n)
		if !ok {
			continue
		}
		b.dirty.ClearDirty(f.Index)
		if recursive {
			b.clearChild(f.Index)
		}
	}
}

func (b *Base) clearChild(index uint16) {
	f, ok := b.proto.ByIndex(index)
	if !ok {
		return
	}
	if f.Ref {
		// Clearing this record's changes must not reach into a referenced
		// record it does not own.
		return
	}
	v, present := GetAny(b, index)
	if !present {
		return
	}

	switch f.Kind {
	case field.Array:
		arr, ok := v.(container.Iface)
		if !ok {
			return
		}
		arr.ClearChanged()
		if f.Type == field.Record {
			arr.EachElem(func(_ int, ev any) {
				if nr, ok := ev.(nestedRecord); ok {
					nr.ClearChanged(true)
				}
			})
		}

	case field.Map, field.IDMap:
		m, ok := v.(container.DictIterable)
		if !ok {
			return
		}
		m.ClearChanged()
		if f.Type == field.Record {
			m.EachKV(func(_, val any) {
				if nr, ok := val.(nestedRecord); ok {
					nr.ClearChanged(true)
				}
			})
		}

	default:
		switch t := v.(type) {
		case changer:
			t.ClearChanged()
		case nestedRecord:
			t.ClearChanged(true)
		}
	}
}

// SetChanged marks the named fields dirty (or all fields, if names is empty),
// honoring SkipChanged (§6).
func (b *Base) SetChanged(names ...string) {
	if len(names) == 0 {
		for _, f := range b.proto.Fields() {
			if !f.SkipChanged {
				b.dirty.SetDirty(f.Index)
			}
		}
		return
	}
	for _, n := range names {
		f, ok := b.proto.ByName(n)
		if !ok || f.SkipChanged {
			continue
		}
		b.dirty.SetDirty(f.Index)
	}
}

// ClearData drops every schema field slot back to absent, without touching
// dirty state (§6: "drops all schema field slots from the instance").
func (b *Base) ClearData() {
	for _, f := range b.proto.Fields() {
		b.clearSlot(f.Index)
	}
}

// SetData bulk-assigns field values by name without marking any field dirty
// (§6), using the decoder's internal raw setter. Unknown names are ignored.
func (b *Base) SetData(values map[string]any) {
	for name, v := range values {
		f, ok := b.proto.ByName(name)
		if !ok {
			continue
		}
		b.XXXSetAny(f.Index, v)
	}
}
