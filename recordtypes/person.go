package recordtypes

import (
	"github.com/bearlytools/recordmodel/container"
	"github.com/bearlytools/recordmodel/field"
	"github.com/bearlytools/recordmodel/record"
	"github.com/bearlytools/recordmodel/schema"
)

// Person exercises the oid/ref/IdMap corner of SPEC_FULL.md: every Person has
// an identity (oid), may point at another Person non-owningly (peer), and
// owns a keyed set of other Persons (friends) whose own oid is the map key.
type Person struct {
	record.Base
}

var personProto *schema.Protocol

func init() {
	var err error
	personProto, err = schema.Register([]schema.FieldDef{
		{Index: 1, Name: "oid", Type: field.String},
		{Index: 2, Name: "name", Type: field.String},
		{Index: 3, Name: "age", Type: field.Int32, MinValue: int32(0), Arithm: true},
		{Index: 4, Name: "peer", Type: field.Record, Ref: true},
		{
			Index: 5, Name: "friends", Kind: field.IDMap, Type: field.Record, KeyType: field.String,
			Create: func() any { return NewPerson() },
		},
	})
	if err != nil {
		panic(err)
	}
}

func personKeyOf(v *Person) string { return v.OID() }

// NewPerson returns a Person with a freshly generated oid and an empty
// friends set.
func NewPerson() *Person {
	p := &Person{}
	p.Init(personProto)
	p.setOID(schema.NewOID())
	p.Friends()
	return p
}

func (p *Person) setOID(oid string) {
	_ = record.SetString(&p.Base, 1, oid)
}

// Name returns the stored display name.
func (p *Person) Name() string {
	v, _ := record.GetString(&p.Base, 2)
	return v
}

// SetName stores the display name, marking the field dirty iff changed.
func (p *Person) SetName(v string) error {
	return record.SetString(&p.Base, 2, v)
}

// Age returns the stored age.
func (p *Person) Age() int32 {
	v, _ := record.GetNumber[int32](&p.Base, 3)
	return v
}

// SetAge stores age directly, marking the field dirty iff changed.
func (p *Person) SetAge(v int32) error {
	return record.SetNumber(&p.Base, 3, v)
}

// AddAge adds delta to age, returning (delta, new value).
func (p *Person) AddAge(delta int32) (int32, int32, error) {
	return record.AddNumber(&p.Base, 3, delta)
}

// SubAge subtracts delta from age, failing with errs.KindOverflowLower if the
// result would go below 0.
func (p *Person) SubAge(delta int32) (int32, int32, error) {
	return record.SubNumber(&p.Base, 3, delta)
}

// Peer returns the non-owning reference this Person points at, if any.
func (p *Person) Peer() (*Person, bool) {
	v, present := record.GetAny(&p.Base, 4)
	if !present {
		return nil, false
	}
	target, ok := v.(*Person)
	return target, ok
}

// SetPeer installs a reference to target, always marking the field dirty.
func (p *Person) SetPeer(target *Person) error {
	return record.SetRecord(&p.Base, 4, target)
}

// Friends returns the IdMap of Persons this Person owns, keyed by their own
// oid, lazily installing an empty one if absent.
func (p *Person) Friends() *container.IdMap[string, *Person] {
	return record.GetIdMap(&p.Base, 5, personKeyOf)
}

// AddFriend installs target under its own oid.
func (p *Person) AddFriend(target *Person) {
	p.Friends().Add(target)
}

// RemoveFriend removes target's entry by its own oid.
func (p *Person) RemoveFriend(target *Person) {
	p.Friends().Remove(target)
}
