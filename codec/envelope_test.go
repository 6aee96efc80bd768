package codec_test

import (
	"testing"

	"github.com/bearlytools/recordmodel/codec"
	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/recordtypes"
)

func TestEncodeEnvelopeRoundTripPerAlgo(t *testing.T) {
	ctx := errs.EContext()

	algos := []codec.CompressionAlgo{codec.CompressNone, codec.CompressZstd, codec.CompressSnappy}
	for _, algo := range algos {
		p := recordtypes.NewPointXY(7, -9)

		data, err := codec.EncodeEnvelope(ctx, p, algo)
		if err != nil {
			t.Fatalf("TestEncodeEnvelopeRoundTripPerAlgo: algo %d: EncodeEnvelope() error: %v", algo, err)
		}

		p2 := recordtypes.NewPoint()
		if _, err := codec.DecodeEnvelope(ctx, p2, data, nil); err != nil {
			t.Fatalf("TestEncodeEnvelopeRoundTripPerAlgo: algo %d: DecodeEnvelope() error: %v", algo, err)
		}
		if p2.X() != 7 || p2.Y() != -9 {
			t.Errorf("TestEncodeEnvelopeRoundTripPerAlgo: algo %d: got (%d,%d), want (7,-9)", algo, p2.X(), p2.Y())
		}
	}
}

func TestDecodeEnvelopeDetectsTamper(t *testing.T) {
	ctx := errs.EContext()
	p := recordtypes.NewPointXY(1, 2)

	data, err := codec.EncodeEnvelope(ctx, p, codec.CompressNone)
	if err != nil {
		t.Fatalf("TestDecodeEnvelopeDetectsTamper: EncodeEnvelope() error: %v", err)
	}

	tampered := make([]byte, len(data))
	copy(tampered, data)
	tampered[len(tampered)-1] ^= 0xFF

	p2 := recordtypes.NewPoint()
	if _, err := codec.DecodeEnvelope(ctx, p2, tampered, nil); err == nil {
		t.Fatalf("TestDecodeEnvelopeDetectsTamper: DecodeEnvelope() succeeded on tampered payload, want checksum error")
	} else if !errs.Is(err, errs.KindUnpack) {
		t.Errorf("TestDecodeEnvelopeDetectsTamper: err = %v, want KindUnpack", err)
	}
}

func TestDecodeEnvelopeRejectsShortData(t *testing.T) {
	ctx := errs.EContext()
	p2 := recordtypes.NewPoint()
	if _, err := codec.DecodeEnvelope(ctx, p2, []byte{0x00, 0x01}, nil); err == nil {
		t.Fatalf("TestDecodeEnvelopeRejectsShortData: DecodeEnvelope() succeeded on too-short data, want error")
	}
}
