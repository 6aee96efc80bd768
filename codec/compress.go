package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/golang/snappy"

	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/record"
)

// CompressionAlgo selects the envelope's payload compression, if any. The
// envelope is additive (§6): none of this touches the binary wire format
// itself, only what wraps it for transport/storage.
type CompressionAlgo uint8

const (
	CompressNone CompressionAlgo = iota
	CompressZstd
	CompressSnappy
)

const envelopeHeaderLen = 1 + 32 // algo byte + blake2b-256 digest

// EncodeEnvelope produces EncodeBin's output wrapped in a
// [algo byte][checksum][compressed payload] envelope.
func EncodeEnvelope(ctx errs.Context, inst record.Instance, algo CompressionAlgo, opts ...EncodeOption) ([]byte, error) {
	payload, err := EncodeBin(ctx, inst, opts...)
	if err != nil {
		return nil, err
	}
	compressed, err := compressBytes(algo, payload)
	if err != nil {
		return nil, errs.E(ctx, errs.CatInternal, errs.KindPack, err)
	}
	sum := ChecksumBin(compressed)

	out := make([]byte, 0, envelopeHeaderLen+len(compressed))
	out = append(out, byte(algo))
	out = append(out, sum[:]...)
	out = append(out, compressed...)
	return out, nil
}

// DecodeEnvelope reverses EncodeEnvelope: verifies the checksum, decompresses,
// then runs DecodeBin.
func DecodeEnvelope(ctx errs.Context, inst record.Instance, data []byte, dctx *DecodeContext, opts ...DecodeOption) (map[string]bool, error) {
	if len(data) < envelopeHeaderLen {
		return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("envelope too short: %d bytes", len(data)))
	}
	algo := CompressionAlgo(data[0])
	var sum [32]byte
	copy(sum[:], data[1:envelopeHeaderLen])
	compressed := data[envelopeHeaderLen:]

	if !VerifyBin(compressed, sum) {
		return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("envelope checksum mismatch"))
	}

	payload, err := decompressBytes(algo, compressed)
	if err != nil {
		return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, err)
	}
	return DecodeBin(ctx, inst, payload, dctx, opts...)
}

func compressBytes(algo CompressionAlgo, payload []byte) ([]byte, error) {
	switch algo {
	case CompressNone:
		return payload, nil
	case CompressZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(payload, make([]byte, 0, len(payload))), nil
	case CompressSnappy:
		return snappy.Encode(nil, payload), nil
	default:
		return nil, fmt.Errorf("unknown compression algo %d", algo)
	}
}

func decompressBytes(algo CompressionAlgo, compressed []byte) ([]byte, error) {
	switch algo {
	case CompressNone:
		return compressed, nil
	case CompressZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(compressed, nil)
	case CompressSnappy:
		return snappy.Decode(nil, compressed)
	default:
		return nil, fmt.Errorf("unknown compression algo %d", algo)
	}
}
