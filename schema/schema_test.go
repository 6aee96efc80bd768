package schema

import (
	"testing"

	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/field"
)

func TestRegisterMergesAncestorFields(t *testing.T) {
	ancestor, err := Register([]FieldDef{
		{Index: 1, Name: "oid", Type: field.String},
		{Index: 2, Name: "name", Type: field.String},
	})
	if err != nil {
		t.Fatalf("TestRegisterMergesAncestorFields: Register(ancestor) error: %v", err)
	}

	child, err := Register([]FieldDef{
		{Index: 3, Name: "age", Type: field.Int32},
	}, ancestor)
	if err != nil {
		t.Fatalf("TestRegisterMergesAncestorFields: Register(child) error: %v", err)
	}

	for _, name := range []string{"oid", "name", "age"} {
		if _, ok := child.ByName(name); !ok {
			t.Errorf("TestRegisterMergesAncestorFields: child missing inherited field %q", name)
		}
	}
	if len(child.Fields()) != 3 {
		t.Errorf("TestRegisterMergesAncestorFields: len(Fields()) = %d, want 3", len(child.Fields()))
	}
}

func TestRegisterReDeclaringInheritedFieldIsNotAConflict(t *testing.T) {
	ancestor, err := Register([]FieldDef{
		{Index: 1, Name: "oid", Type: field.String},
	})
	if err != nil {
		t.Fatalf("TestRegisterReDeclaringInheritedFieldIsNotAConflict: Register(ancestor) error: %v", err)
	}

	// Re-declaring the identical field at the child is a harmless, first-
	// match-wins no-op, not a duplicate conflict.
	child, err := Register([]FieldDef{
		{Index: 1, Name: "oid", Type: field.String},
		{Index: 2, Name: "name", Type: field.String},
	}, ancestor)
	if err != nil {
		t.Fatalf("TestRegisterReDeclaringInheritedFieldIsNotAConflict: Register(child) error: %v", err)
	}
	if len(child.Fields()) != 2 {
		t.Errorf("TestRegisterReDeclaringInheritedFieldIsNotAConflict: len(Fields()) = %d, want 2", len(child.Fields()))
	}
}

func TestRegisterConflictingNameAcrossAncestorsFails(t *testing.T) {
	a, err := Register([]FieldDef{{Index: 1, Name: "value", Type: field.String}})
	if err != nil {
		t.Fatalf("TestRegisterConflictingNameAcrossAncestorsFails: Register(a) error: %v", err)
	}
	b, err := Register([]FieldDef{{Index: 1, Name: "value", Type: field.Int32}})
	if err != nil {
		t.Fatalf("TestRegisterConflictingNameAcrossAncestorsFails: Register(b) error: %v", err)
	}

	_, err = Register(nil, a, b)
	if err == nil {
		t.Fatalf("TestRegisterConflictingNameAcrossAncestorsFails: Register() succeeded, want KindDuplicateName")
	}
	if !errs.Is(err, errs.KindDuplicateName) {
		t.Errorf("TestRegisterConflictingNameAcrossAncestorsFails: err = %v, want KindDuplicateName", err)
	}
}

func TestRegisterConflictingIndexAcrossAncestorsFails(t *testing.T) {
	a, err := Register([]FieldDef{{Index: 5, Name: "first", Type: field.String}})
	if err != nil {
		t.Fatalf("TestRegisterConflictingIndexAcrossAncestorsFails: Register(a) error: %v", err)
	}
	b, err := Register([]FieldDef{{Index: 5, Name: "second", Type: field.Int32}})
	if err != nil {
		t.Fatalf("TestRegisterConflictingIndexAcrossAncestorsFails: Register(b) error: %v", err)
	}

	_, err = Register(nil, a, b)
	if err == nil {
		t.Fatalf("TestRegisterConflictingIndexAcrossAncestorsFails: Register() succeeded, want KindDuplicateIndex")
	}
	if !errs.Is(err, errs.KindDuplicateIndex) {
		t.Errorf("TestRegisterConflictingIndexAcrossAncestorsFails: err = %v, want KindDuplicateIndex", err)
	}
}

func TestNewOIDIsUniqueAndNonEmpty(t *testing.T) {
	a := NewOID()
	b := NewOID()
	if a == "" || b == "" {
		t.Fatalf("TestNewOIDIsUniqueAndNonEmpty: got empty oid(s): %q, %q", a, b)
	}
	if a == b {
		t.Errorf("TestNewOIDIsUniqueAndNonEmpty: two calls returned the same oid %q", a)
	}
}
