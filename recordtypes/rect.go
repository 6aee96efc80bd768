package recordtypes

import (
	"github.com/bearlytools/recordmodel/field"
	"github.com/bearlytools/recordmodel/record"
	"github.com/bearlytools/recordmodel/schema"
)

// Rect is a record nesting two Points, used for SPEC_FULL.md §8's
// nested-delta and full-round-trip scenarios.
type Rect struct {
	record.Base
}

var rectProto *schema.Protocol

func init() {
	var err error
	rectProto, err = schema.Register([]schema.FieldDef{
		{Index: 1, Name: "lt", Type: field.Record, RecordProto: pointProto, Create: func() any { return NewPoint() }},
		{Index: 2, Name: "rb", Type: field.Record, RecordProto: pointProto, Create: func() any { return NewPoint() }},
	})
	if err != nil {
		panic(err)
	}
}

// NewRect returns a Rect with both corners lazily materialized as zero Points.
func NewRect() *Rect {
	r := &Rect{}
	r.Init(rectProto)
	r.LT()
	r.RB()
	return r
}

// NewRectLTRB returns a Rect built from two already-constructed corners.
func NewRectLTRB(lt, rb *Point) *Rect {
	r := &Rect{}
	r.Init(rectProto)
	_ = r.SetLT(lt)
	_ = r.SetRB(rb)
	return r
}

// LT returns the top-left corner, materializing a zero Point if absent.
func (r *Rect) LT() *Point {
	return record.GetRecord(&r.Base, 1, func() *Point { return NewPoint() })
}

// SetLT replaces the top-left corner, always marking the field dirty.
func (r *Rect) SetLT(p *Point) error {
	return record.SetRecord(&r.Base, 1, p)
}

// RB returns the bottom-right corner, materializing a zero Point if absent.
func (r *Rect) RB() *Point {
	return record.GetRecord(&r.Base, 2, func() *Point { return NewPoint() })
}

// SetRB replaces the bottom-right corner, always marking the field dirty.
func (r *Rect) SetRB(p *Point) error {
	return record.SetRecord(&r.Base, 2, p)
}
