package recordtypes

import (
	"bytes"
	"testing"

	"github.com/bearlytools/recordmodel/codec"
	"github.com/bearlytools/recordmodel/errs"
)

func TestPointBinaryBitExact(t *testing.T) {
	ctx := errs.EContext()
	p := NewPointXY(1, -2)

	data, err := codec.EncodeBin(ctx, p)
	if err != nil {
		t.Fatalf("TestPointBinaryBitExact: EncodeBin() error: %v", err)
	}

	want := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x02, 0xFF, 0xFF, 0xFF, 0xFE, 0x00, 0x00}
	if !bytes.Equal(data, want) {
		t.Errorf("TestPointBinaryBitExact: got % x, want % x", data, want)
	}
}

func TestPointBinaryRoundTrip(t *testing.T) {
	ctx := errs.EContext()
	p := NewPointXY(7, -9)

	data, err := codec.EncodeBin(ctx, p)
	if err != nil {
		t.Fatalf("TestPointBinaryRoundTrip: EncodeBin() error: %v", err)
	}

	p2 := NewPoint()
	if _, err := codec.DecodeBin(ctx, p2, data, nil); err != nil {
		t.Fatalf("TestPointBinaryRoundTrip: DecodeBin() error: %v", err)
	}
	if p2.X() != 7 || p2.Y() != -9 {
		t.Errorf("TestPointBinaryRoundTrip: got (%d,%d), want (7,-9)", p2.X(), p2.Y())
	}
}

func TestPointIncrementalStructuralDelta(t *testing.T) {
	ctx := errs.EContext()
	p := NewPointXY(1, 0)
	p.AsBase().ClearChanged(false)

	p.SetY(2)

	m, err := codec.Encode(ctx, p, codec.WithOnlyChanged(true))
	if err != nil {
		t.Fatalf("TestPointIncrementalStructuralDelta: Encode() error: %v", err)
	}
	if len(m) != 1 {
		t.Fatalf("TestPointIncrementalStructuralDelta: got %d keys, want 1: %v", len(m), m)
	}
	if y, _ := m["y"].(int32); y != 2 {
		t.Errorf("TestPointIncrementalStructuralDelta: y = %v, want 2", m["y"])
	}
}

func TestPointAddXChecked(t *testing.T) {
	p := NewPointXY(5, 5)
	delta, newVal, err := p.AddX(3)
	if err != nil {
		t.Fatalf("TestPointAddXChecked: AddX() error: %v", err)
	}
	if delta != 3 || newVal != 8 {
		t.Errorf("TestPointAddXChecked: got (%d,%d), want (3,8)", delta, newVal)
	}
}
