// Package schema reflects a declared record field list into a validated,
// queryable Protocol: the runtime metadata every record.Base consults to
// encode, decode, and track changes. This is the registrar described in §4.2:
// it runs once per record type (at package init), not per instance.
package schema

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/field"
)

// FieldDef is the declaration-time description of one field, supplied by a
// record type's package-level registration call.
type FieldDef struct {
	// Index is the wire field number, 1..65535, unique within the record and
	// its ancestors.
	Index uint16
	// Name is the structural-format key and Go-facing field name.
	Name string
	// Type is the field's primitive type. Ignored (and should be field.Record)
	// when Kind is a container whose element is itself a record, and ignored
	// entirely for Kind == Map/IDMap value types that are records — RecordProto
	// carries the nested schema in that case.
	Type field.Type
	// Kind distinguishes scalar fields from the three container shapes.
	Kind field.Kind
	// KeyType is the primitive type of a Map/IDMap's key; required when Kind
	// is Map or IDMap.
	KeyType field.Type
	// RecordProto is set when Type == field.Record (or the container's element
	// is a record): the nested record type's own Protocol.
	RecordProto *Protocol
	// Default is the field's zero-state value for scalar fields.
	Default any
	// MinValue, if non-nil, is the checked lower bound for Sub<Name>.
	MinValue any
	// Arithm requests synthesized checked Add/Sub helpers.
	Arithm bool
	// Ref marks a record-typed field as a non-owning reference encoded as the
	// target's oid rather than an owned nested record.
	Ref bool
	// SkipChanged excludes the field from delta detection entirely.
	SkipChanged bool
	// Create is an optional factory invoked during decode in place of default
	// construction for a record-typed field. It returns a value satisfying
	// record.Instance; schema itself cannot name that type (record imports
	// schema), so the return type is left as `any` and the caller downcasts.
	Create func() any
	// Desc is a free-form description, ignored by the engine.
	Desc string
	// Extra retains any additional metadata the declaration wants to carry
	// that the engine itself never interprets (§6: "unrecognized keyword
	// options are retained verbatim").
	Extra map[string]any
}

// Field is the resolved, validated descriptor stored in a Protocol.
type Field struct {
	Index       uint16
	Name        string
	Key         string // "_" + Name, carried for parity with the original storage-key concept.
	Type        field.Type
	Kind        field.Kind
	KeyType     field.Type
	RecordProto *Protocol
	Default     any
	MinValue    any
	Arithm      bool
	Ref         bool
	SkipChanged bool
	Create      func() any
	Desc        string
	Extra       map[string]any
}

// IsContainer reports whether f is an Array, Map, or IDMap field.
func (f *Field) IsContainer() bool { return f.Kind != field.Scalar }

// Protocol is the bound, validated schema for a record type: a sorted field
// table plus lookup indexes by index and by name.
type Protocol struct {
	fields   []*Field
	byIndex  map[uint16]*Field
	byName   map[string]*Field
	oidField *Field
}

// Fields returns the protocol's fields in ascending index order (encode
// order per §5).
func (p *Protocol) Fields() []*Field { return p.fields }

// ByIndex looks up a field by wire index.
func (p *Protocol) ByIndex(index uint16) (*Field, bool) {
	f, ok := p.byIndex[index]
	return f, ok
}

// ByName looks up a field by structural-format name.
func (p *Protocol) ByName(name string) (*Field, bool) {
	f, ok := p.byName[name]
	return f, ok
}

// OIDField returns the field named "oid", if the record type declared one.
func (p *Protocol) OIDField() (*Field, bool) {
	if p.oidField == nil {
		return nil, false
	}
	return p.oidField, true
}

// Register validates fields plus the field tables of zero or more ancestor
// Protocols and returns the bound, merged Protocol. It is meant to be called
// once, from a record type's package-level var initializer.
//
// Per §4.2 step 1, ancestor field tables are merged depth-first,
// first-match-wins: fields is searched first, then parents in the order
// given (each parent's own table is already the fully-merged result of its
// own Register call, so this is effectively a depth-first walk of the whole
// inheritance tree). The first definition site to claim a given name or
// index wins; a later site claiming the same name or index with a
// genuinely different definition is a conflict and fails with
// errs.KindDuplicateName or errs.KindDuplicateIndex. A later site
// re-declaring an identical field (as happens when a subtype's own fields
// list intentionally repeats an ancestor's field) is treated as the same
// definition, not a conflict, and is silently skipped.
func Register(fields []FieldDef, parents ...*Protocol) (*Protocol, error) {
	ctx := errs.EContext()

	byIndex := make(map[uint16]*Field, len(fields))
	byName := make(map[string]*Field, len(fields))
	resolved := make([]*Field, 0, len(fields))

	addField := func(fd FieldDef) error {
		if fd.Index == 0 {
			return errs.E(ctx, errs.CatUser, errs.KindDefine,
				fmt.Errorf("field %q: index must be in 1..65535, got 0", fd.Name))
		}
		if fd.Name == "" {
			return errs.E(ctx, errs.CatUser, errs.KindDefine,
				fmt.Errorf("field at index %d: name is required", fd.Index))
		}

		if existing, ok := byName[fd.Name]; ok {
			if !sameFieldDef(existing, fd) {
				return errs.E(ctx, errs.CatUser, errs.KindDuplicateName,
					fmt.Errorf("field %q: claimed by more than one definition site with conflicting definitions", fd.Name))
			}
			return nil
		}
		if existing, ok := byIndex[fd.Index]; ok {
			if !sameFieldDef(existing, fd) {
				return errs.E(ctx, errs.CatUser, errs.KindDuplicateIndex,
					fmt.Errorf("field %q: index %d already claimed by field %q", fd.Name, fd.Index, existing.Name))
			}
			return nil
		}

		if err := validateFieldDef(ctx, fd); err != nil {
			return err
		}

		rf := &Field{
			Index:       fd.Index,
			Name:        fd.Name,
			Key:         "_" + fd.Name,
			Type:        fd.Type,
			Kind:        fd.Kind,
			KeyType:     fd.KeyType,
			RecordProto: fd.RecordProto,
			Default:     fd.Default,
			MinValue:    fd.MinValue,
			Arithm:      fd.Arithm,
			Ref:         fd.Ref,
			SkipChanged: fd.SkipChanged,
			Create:      fd.Create,
			Desc:        fd.Desc,
			Extra:       fd.Extra,
		}

		byIndex[fd.Index] = rf
		byName[fd.Name] = rf
		resolved = append(resolved, rf)
		return nil
	}

	for _, fd := range fields {
		if err := addField(fd); err != nil {
			return nil, err
		}
	}
	for _, parent := range parents {
		if parent == nil {
			continue
		}
		for _, pf := range parent.Fields() {
			if err := addField(fieldToDef(pf)); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Index < resolved[j].Index })

	p := &Protocol{fields: resolved, byIndex: byIndex, byName: byName}
	if f, ok := byName["oid"]; ok {
		p.oidField = f
	}
	return p, nil
}

// sameFieldDef reports whether fd is, for merge purposes, the same
// definition as the already-claimed field existing — i.e. a harmless
// re-declaration (inherited field repeated at a subtype) rather than a
// genuine conflict between two distinct definition sites.
func sameFieldDef(existing *Field, fd FieldDef) bool {
	return existing.Index == fd.Index &&
		existing.Name == fd.Name &&
		existing.Type == fd.Type &&
		existing.Kind == fd.Kind &&
		existing.KeyType == fd.KeyType &&
		existing.RecordProto == fd.RecordProto &&
		existing.Ref == fd.Ref &&
		existing.Arithm == fd.Arithm
}

// fieldToDef converts an already-resolved ancestor Field back into a FieldDef
// so it can be re-run through addField's validation/claim logic as though it
// were declared directly.
func fieldToDef(f *Field) FieldDef {
	return FieldDef{
		Index:       f.Index,
		Name:        f.Name,
		Type:        f.Type,
		Kind:        f.Kind,
		KeyType:     f.KeyType,
		RecordProto: f.RecordProto,
		Default:     f.Default,
		MinValue:    f.MinValue,
		Arithm:      f.Arithm,
		Ref:         f.Ref,
		SkipChanged: f.SkipChanged,
		Create:      f.Create,
		Desc:        f.Desc,
		Extra:       f.Extra,
	}
}

func validateFieldDef(ctx errs.Context, fd FieldDef) error {
	containerCount := 0
	if fd.Kind == field.Array {
		containerCount++
	}
	if fd.Kind == field.Map || fd.Kind == field.IDMap {
		containerCount++
	}
	if containerCount > 1 {
		return errs.E(ctx, errs.CatUser, errs.KindDefine,
			fmt.Errorf("field %q: at most one of array/map/id_map may be set", fd.Name))
	}

	if fd.Kind == field.Map || fd.Kind == field.IDMap {
		if fd.KeyType == field.Unknown {
			return errs.E(ctx, errs.CatUser, errs.KindDefine,
				fmt.Errorf("field %q: map/id_map fields require a KeyType", fd.Name))
		}
	}

	if fd.Ref {
		if fd.Type != field.Record && fd.RecordProto == nil {
			return errs.E(ctx, errs.CatUser, errs.KindDefine,
				fmt.Errorf("field %q: ref requires a record type", fd.Name))
		}
	}

	if fd.Arithm && !field.IsNumber(fd.Type) {
		return errs.E(ctx, errs.CatUser, errs.KindDefine,
			fmt.Errorf("field %q: arithm requires a numeric type, got %s", fd.Name, fd.Type))
	}

	if fd.MinValue != nil && !field.IsInteger(fd.Type) {
		return errs.E(ctx, errs.CatUser, errs.KindDefine,
			fmt.Errorf("field %q: min_value requires an integer type, got %s", fd.Name, fd.Type))
	}

	if (fd.Type == field.Record) && fd.Kind == field.Scalar && fd.RecordProto == nil && !fd.Ref {
		return errs.E(ctx, errs.CatUser, errs.KindDefine,
			fmt.Errorf("field %q: record-typed field requires RecordProto", fd.Name))
	}

	return nil
}

// NewOID returns a freshly generated UUIDv4 string, offered as the default
// oid-generator for record types that declare an oid field but supply no
// factory of their own.
func NewOID() string {
	return uuid.NewString()
}
