// Package record implements the runtime storage and generic accessors every
// declared record type embeds: Base holds index-keyed field slots plus the
// per-instance DirtySet, and the free generic functions below are the Go
// realization of the schema registrar's synthesized accessors (§4.2, §9 —
// "flat function table indexed by field index"), grounded directly on the
// teacher's languages/go/structs.GetNumber[N]/SetNumber[N] shape.
package record

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/bearlytools/recordmodel/dirtyset"
	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/field"
	"github.com/bearlytools/recordmodel/schema"
)

// Number is any type usable with the numeric Get/Set/Add/Sub accessors.
type Number interface {
	constraints.Integer | constraints.Float
}

// fieldSlot holds one field's value plus a presence bit, independent of the
// stored zero value — the resolution SPEC_FULL.md §9 gives for "Go has no
// nilable-by-default scalars": a field explicitly set to 0/false/"" is still
// present, and distinguishable from a field never touched.
type fieldSlot struct {
	value   any
	present bool
}

// Base is the storage every record type embeds. It is not meant to be used
// directly by callers; record types expose typed methods that call the
// generic Get*/Set* functions below with their own field indexes.
type Base struct {
	proto *schema.Protocol
	slots []fieldSlot
	dirty dirtyset.Set
}

// Init binds proto to this instance and allocates its field-slot storage. It
// must be called once, by the concrete record type's constructor, before any
// other Base method.
func (b *Base) Init(proto *schema.Protocol) {
	b.proto = proto
	max := uint16(0)
	for _, f := range proto.Fields() {
		if f.Index > max {
			max = f.Index
		}
	}
	b.slots = make([]fieldSlot, max+1)
}

// Protocol returns the bound schema.
func (b *Base) Protocol() *schema.Protocol { return b.proto }

// AsBase returns b itself. Every concrete record type embeds Base, so this
// method is promoted automatically, giving the codec and schema packages a
// uniform way to reach an instance's storage without importing the concrete
// type: accept an `any`, type-assert to Instance, call AsBase().
func (b *Base) AsBase() *Base { return b }

// Instance is satisfied by any type embedding Base. It is the seam the codec
// package uses to walk a record graph generically.
type Instance interface {
	AsBase() *Base
}

// OID returns the value of the record's "oid" field as a string, or "" if the
// type declares no oid field or it is unset.
func (b *Base) OID() string {
	f, ok := b.proto.OIDField()
	if !ok {
		return ""
	}
	if !b.slots[f.Index].present {
		return ""
	}
	s, _ := b.slots[f.Index].value.(string)
	return s
}

func (b *Base) field(ctx errs.Context, index uint16) (*schema.Field, error) {
	f, ok := b.proto.ByIndex(index)
	if !ok {
		return nil, errs.E(ctx, errs.CatUser, errs.KindNoField,
			fmt.Errorf("no field at index %d", index))
	}
	return f, nil
}

// GetBool returns the stored value for a bool field, or its default if absent.
func GetBool(b *Base, index uint16) (bool, error) {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return false, err
	}
	if f.Type != field.Bool {
		return false, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not bool", f.Name))
	}
	slot := &b.slots[index]
	if !slot.present {
		d, _ := f.Default.(bool)
		return d, nil
	}
	v, _ := slot.value.(bool)
	return v, nil
}

// SetBool stores value into a bool field, marking it dirty iff the value
// changed (§4.3).
func SetBool(b *Base, index uint16, value bool) error {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return err
	}
	if f.Type != field.Bool {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not bool", f.Name))
	}
	slot := &b.slots[index]
	cur, _ := slot.value.(bool)
	changed := !slot.present || cur != value
	slot.value = value
	slot.present = true
	if changed && !f.SkipChanged {
		b.dirty.SetDirty(index)
	}
	return nil
}

// GetNumber returns the stored value for a numeric field, or its default if
// absent, converted to N.
func GetNumber[N Number](b *Base, index uint16) (N, error) {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return 0, err
	}
	if !field.IsNumber(f.Type) {
		return 0, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not numeric", f.Name))
	}
	slot := &b.slots[index]
	if !slot.present {
		if f.Default != nil {
			return toNumber[N](f.Default), nil
		}
		return 0, nil
	}
	return toNumber[N](slot.value), nil
}

// SetNumber stores value into a numeric field, marking it dirty iff changed.
func SetNumber[N Number](b *Base, index uint16, value N) error {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return err
	}
	if !field.IsNumber(f.Type) {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not numeric", f.Name))
	}
	slot := &b.slots[index]
	changed := true
	if slot.present {
		changed = toNumber[N](slot.value) != value
	}
	slot.value = value
	slot.present = true
	if changed && !f.SkipChanged {
		b.dirty.SetDirty(index)
	}
	return nil
}

// AddNumber adds delta to the stored value and returns (delta, newValue).
// Overflow is not checked here (only Sub is checked per §4.2/§8); signed
// wraparound is the caller's concern same as ordinary Go arithmetic.
func AddNumber[N Number](b *Base, index uint16, delta N) (N, N, error) {
	cur, err := GetNumber[N](b, index)
	if err != nil {
		return 0, 0, err
	}
	newVal := cur + delta
	if err := SetNumber(b, index, newVal); err != nil {
		return 0, 0, err
	}
	return delta, newVal, nil
}

// SubNumber subtracts delta from the stored value, returning (delta,
// newValue). Fails with OverflowLower iff old-delta would go below the
// field's declared MinValue (or 0, for unsigned fields with no MinValue) —
// precisely the rule in §8: "subtraction fails iff old - delta < min_value."
func SubNumber[N Number](b *Base, index uint16, delta N) (N, N, error) {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return 0, 0, err
	}
	cur, err := GetNumber[N](b, index)
	if err != nil {
		return 0, 0, err
	}

	newVal := cur - delta

	var min N
	hasMin := false
	if f.MinValue != nil {
		min = toNumber[N](f.MinValue)
		hasMin = true
	} else if field.IsUnsigned(f.Type) {
		min = 0
		hasMin = true
	}
	if hasMin && newVal < min {
		return 0, cur, errs.E(ctx, errs.CatUser, errs.KindOverflowLower,
			fmt.Errorf("field %q: %v - %v < min_value %v", f.Name, cur, delta, min))
	}

	if err := SetNumber(b, index, newVal); err != nil {
		return 0, 0, err
	}
	return delta, newVal, nil
}

// GetString returns the stored value for a string field, or its default.
func GetString(b *Base, index uint16) (string, error) {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return "", err
	}
	if f.Type != field.String {
		return "", errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not string", f.Name))
	}
	slot := &b.slots[index]
	if !slot.present {
		d, _ := f.Default.(string)
		return d, nil
	}
	v, _ := slot.value.(string)
	return v, nil
}

// SetString stores value into a string field, marking it dirty iff changed.
// Per §7/§8, a string whose length does not fit uint16 is rejected here so
// the invariant is enforced at the point of mutation, not deferred to encode.
func SetString(b *Base, index uint16, value string) error {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return err
	}
	if f.Type != field.String {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not string", f.Name))
	}
	if len(value) > 65535 {
		return errs.E(ctx, errs.CatUser, errs.KindStringTooLong,
			fmt.Errorf("field %q: string of length %d exceeds 65535", f.Name, len(value)))
	}
	slot := &b.slots[index]
	changed := !slot.present || slot.value.(string) != value
	slot.value = value
	slot.present = true
	if changed && !f.SkipChanged {
		b.dirty.SetDirty(index)
	}
	return nil
}

// GetBytes returns the stored value for a bytes field, or its default.
func GetBytes(b *Base, index uint16) ([]byte, error) {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return nil, err
	}
	if f.Type != field.Bytes {
		return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not bytes", f.Name))
	}
	slot := &b.slots[index]
	if !slot.present {
		d, _ := f.Default.([]byte)
		return d, nil
	}
	v, _ := slot.value.([]byte)
	return v, nil
}

// SetBytes stores value into a bytes field, marking it dirty iff changed.
func SetBytes(b *Base, index uint16, value []byte) error {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return err
	}
	if f.Type != field.Bytes {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q is not bytes", f.Name))
	}
	if len(value) > 65535 {
		return errs.E(ctx, errs.CatUser, errs.KindStringTooLong,
			fmt.Errorf("field %q: bytes of length %d exceeds 65535", f.Name, len(value)))
	}
	slot := &b.slots[index]
	changed := true
	if slot.present {
		if old, ok := slot.value.([]byte); ok {
			changed = string(old) != string(value)
		}
	}
	slot.value = value
	slot.present = true
	if changed && !f.SkipChanged {
		b.dirty.SetDirty(index)
	}
	return nil
}

// GetAny returns the raw stored value for any field kind (used by container
// and record-typed field accessors, and by the codec package, which knows
// how to interpret the result given the Field descriptor).
func GetAny(b *Base, index uint16) (any, bool) {
	slot := &b.slots[index]
	return slot.value, slot.present
}

// SetAny stores value verbatim and marks the field dirty iff changed
// (compared with Go's == where applicable; container/record-typed fields are
// always considered changed on assignment per §3: "setting a container field
// always marks dirty (container identity changed)").
func SetAny(b *Base, index uint16, value any, alwaysDirty bool) error {
	ctx := errs.EContext()
	f, err := b.field(ctx, index)
	if err != nil {
		return err
	}
	slot := &b.slots[index]
	changed := alwaysDirty || !slot.present || slot.value != value
	slot.value = value
	slot.present = true
	if changed && !f.SkipChanged {
		b.dirty.SetDirty(index)
	}
	return nil
}

// XXXSetAny stores value without marking the field dirty and without
// clearing presence elsewhere — used exclusively by the decoder.
func (b *Base) XXXSetAny(index uint16, value any) {
	b.slots[index] = fieldSlot{value: value, present: true}
}

// clearSlot drops the slot back to absent, without touching dirty
// state — used by ClearData.
func (b *Base) clearSlot(index uint16) {
	b.slots[index] = fieldSlot{}
}

// toNumber converts a stored/default `any` (which may be any Number-ish Go
// type) to N.
func toNumber[N Number](v any) N {
	switch n := v.(type) {
	case int8:
		return N(n)
	case int16:
		return N(n)
	case int32:
		return N(n)
	case int64:
		return N(n)
	case int:
		return N(n)
	case uint8:
		return N(n)
	case uint16:
		return N(n)
	case uint32:
		return N(n)
	case uint64:
		return N(n)
	case uint:
		return N(n)
	case float32:
		return N(n)
	case float64:
		return N(n)
	default:
		return 0
	}
}
