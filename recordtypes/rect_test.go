package recordtypes

import (
	"testing"

	"github.com/bearlytools/recordmodel/codec"
	"github.com/bearlytools/recordmodel/errs"
)

func TestRectNestedDelta(t *testing.T) {
	ctx := errs.EContext()
	r := NewRectLTRB(NewPointXY(1, 1), NewPointXY(2, 2))
	r.AsBase().ClearChanged(true)

	r.LT().SetX(100)
	r.RB().SetY(100)

	m, err := codec.Encode(ctx, r, codec.WithOnlyChanged(true))
	if err != nil {
		t.Fatalf("TestRectNestedDelta: Encode() error: %v", err)
	}

	lt, ok := m["lt"].(map[string]any)
	if !ok {
		t.Fatalf("TestRectNestedDelta: m[lt] = %v (%T), want map[string]any", m["lt"], m["lt"])
	}
	if len(lt) != 1 || lt["x"] != int32(100) {
		t.Errorf("TestRectNestedDelta: lt = %v, want {x:100}", lt)
	}

	rb, ok := m["rb"].(map[string]any)
	if !ok {
		t.Fatalf("TestRectNestedDelta: m[rb] = %v (%T), want map[string]any", m["rb"], m["rb"])
	}
	if len(rb) != 1 || rb["y"] != int32(100) {
		t.Errorf("TestRectNestedDelta: rb = %v, want {y:100}", rb)
	}
}

func TestRectFullStructuralRoundTrip(t *testing.T) {
	ctx := errs.EContext()
	r := NewRectLTRB(NewPointXY(1, 1), NewPointXY(100, 101))

	a, err := codec.Encode(ctx, r)
	if err != nil {
		t.Fatalf("TestRectFullStructuralRoundTrip: Encode() error: %v", err)
	}

	r2 := NewRect()
	if _, err := codec.Decode(ctx, r2, a, nil); err != nil {
		t.Fatalf("TestRectFullStructuralRoundTrip: Decode() error: %v", err)
	}

	b, err := codec.Encode(ctx, r2)
	if err != nil {
		t.Fatalf("TestRectFullStructuralRoundTrip: re-Encode() error: %v", err)
	}

	if r2.LT().X() != 1 || r2.LT().Y() != 1 || r2.RB().X() != 100 || r2.RB().Y() != 101 {
		t.Fatalf("TestRectFullStructuralRoundTrip: got lt=(%d,%d) rb=(%d,%d)",
			r2.LT().X(), r2.LT().Y(), r2.RB().X(), r2.RB().Y())
	}
	if len(a) != len(b) {
		t.Errorf("TestRectFullStructuralRoundTrip: re-encode produced a different shape: %v vs %v", a, b)
	}
}

func TestRectBinaryRoundTrip(t *testing.T) {
	ctx := errs.EContext()
	r := NewRectLTRB(NewPointXY(1, 2), NewPointXY(3, 4))

	data, err := codec.EncodeBin(ctx, r)
	if err != nil {
		t.Fatalf("TestRectBinaryRoundTrip: EncodeBin() error: %v", err)
	}

	r2 := NewRect()
	if _, err := codec.DecodeBin(ctx, r2, data, nil); err != nil {
		t.Fatalf("TestRectBinaryRoundTrip: DecodeBin() error: %v", err)
	}
	if r2.LT().X() != 1 || r2.LT().Y() != 2 || r2.RB().X() != 3 || r2.RB().Y() != 4 {
		t.Errorf("TestRectBinaryRoundTrip: got lt=(%d,%d) rb=(%d,%d)",
			r2.LT().X(), r2.LT().Y(), r2.RB().X(), r2.RB().Y())
	}
}
