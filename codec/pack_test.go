package codec_test

import (
	"testing"

	"github.com/bearlytools/recordmodel/codec"
	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/recordtypes"
)

func TestPackUnpackDictRoundTrip(t *testing.T) {
	ctx := errs.EContext()
	p := recordtypes.NewPointXY(4, 5)

	packed, err := codec.Pack(ctx, p, codec.FormatDict)
	if err != nil {
		t.Fatalf("TestPackUnpackDictRoundTrip: Pack() error: %v", err)
	}

	p2 := recordtypes.NewPoint()
	if _, err := codec.Unpack(ctx, p2, codec.FormatDict, packed, nil); err != nil {
		t.Fatalf("TestPackUnpackDictRoundTrip: Unpack() error: %v", err)
	}
	if p2.X() != 4 || p2.Y() != 5 {
		t.Errorf("TestPackUnpackDictRoundTrip: got (%d,%d), want (4,5)", p2.X(), p2.Y())
	}
}

func TestPackUnpackBinRoundTrip(t *testing.T) {
	ctx := errs.EContext()
	p := recordtypes.NewPointXY(-1, 8)

	packed, err := codec.Pack(ctx, p, codec.FormatBin)
	if err != nil {
		t.Fatalf("TestPackUnpackBinRoundTrip: Pack() error: %v", err)
	}

	p2 := recordtypes.NewPoint()
	if _, err := codec.Unpack(ctx, p2, codec.FormatBin, packed, nil); err != nil {
		t.Fatalf("TestPackUnpackBinRoundTrip: Unpack() error: %v", err)
	}
	if p2.X() != -1 || p2.Y() != 8 {
		t.Errorf("TestPackUnpackBinRoundTrip: got (%d,%d), want (-1,8)", p2.X(), p2.Y())
	}
}
