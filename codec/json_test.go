package codec_test

import (
	"testing"

	"github.com/bearlytools/recordmodel/codec"
	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/recordtypes"
)

func TestEncodeJSONDecodeJSONRoundTrip(t *testing.T) {
	ctx := errs.EContext()
	p := recordtypes.NewPointXY(3, -4)

	data, err := codec.EncodeJSON(ctx, p)
	if err != nil {
		t.Fatalf("TestEncodeJSONDecodeJSONRoundTrip: EncodeJSON() error: %v", err)
	}

	p2 := recordtypes.NewPoint()
	if _, err := codec.DecodeJSON(ctx, p2, data, nil); err != nil {
		t.Fatalf("TestEncodeJSONDecodeJSONRoundTrip: DecodeJSON() error: %v", err)
	}
	if p2.X() != 3 || p2.Y() != -4 {
		t.Errorf("TestEncodeJSONDecodeJSONRoundTrip: got (%d,%d), want (3,-4)", p2.X(), p2.Y())
	}
}

func TestDecodeJSONRejectsMalformedInput(t *testing.T) {
	ctx := errs.EContext()
	p2 := recordtypes.NewPoint()
	if _, err := codec.DecodeJSON(ctx, p2, []byte("not json"), nil); err == nil {
		t.Fatalf("TestDecodeJSONRejectsMalformedInput: DecodeJSON() succeeded on malformed input, want error")
	} else if !errs.Is(err, errs.KindUnpack) {
		t.Errorf("TestDecodeJSONRejectsMalformedInput: err = %v, want KindUnpack", err)
	}
}
