// Package recordtypes declares a handful of record types — Point, Rect,
// Person, Config — exercising plain scalar fields, nested records, ref
// fields, Map/IdMap containers, and checked arithmetic. None of them declares
// an Array field. They double as the fixtures the package-level tests
// round-trip against.
package recordtypes

import (
	"github.com/bearlytools/recordmodel/field"
	"github.com/bearlytools/recordmodel/record"
	"github.com/bearlytools/recordmodel/schema"
)

// Point is the minimal two-field record used throughout SPEC_FULL.md §8's
// worked binary examples.
type Point struct {
	record.Base
}

var pointProto *schema.Protocol

func init() {
	var err error
	pointProto, err = schema.Register([]schema.FieldDef{
		{Index: 1, Name: "x", Type: field.Int32, Default: int32(0)},
		{Index: 2, Name: "y", Type: field.Int32, Default: int32(0)},
	})
	if err != nil {
		panic(err)
	}
}

// NewPoint returns a zero-valued Point (x=0, y=0), not marked dirty.
func NewPoint() *Point {
	p := &Point{}
	p.Init(pointProto)
	return p
}

// NewPointXY returns a Point with both fields set (and dirtied).
func NewPointXY(x, y int32) *Point {
	p := NewPoint()
	p.SetX(x)
	p.SetY(y)
	return p
}

func (p *Point) X() int32 {
	v, _ := record.GetNumber[int32](&p.Base, 1)
	return v
}

func (p *Point) SetX(v int32) {
	_ = record.SetNumber(&p.Base, 1, v)
}

func (p *Point) Y() int32 {
	v, _ := record.GetNumber[int32](&p.Base, 2)
	return v
}

func (p *Point) SetY(v int32) {
	_ = record.SetNumber(&p.Base, 2, v)
}

// AddX adds delta to x, returning (delta, new value).
func (p *Point) AddX(delta int32) (int32, int32, error) {
	return record.AddNumber(&p.Base, 1, delta)
}

// AddY adds delta to y, returning (delta, new value).
func (p *Point) AddY(delta int32) (int32, int32, error) {
	return record.AddNumber(&p.Base, 2, delta)
}
