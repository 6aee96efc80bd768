package codec

import (
	"fmt"

	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/record"
)

// Pack is a thin Format-dispatching adapter over Encode/EncodeBin (§6:
// "Pack(ctx, FormatDict|FormatBin, opts...)"). It is not a separate encoding
// subsystem — it exists as a free function rather than a method on the
// record type itself because record.Instance cannot depend on this package
// without an import cycle (record is imported by codec, not the reverse).
// The result is a map[string]any for FormatDict or a []byte for FormatBin;
// callers that already know which format they want should prefer calling
// Encode/EncodeBin directly and skip the type assertion.
func Pack(ctx errs.Context, inst record.Instance, format Format, opts ...EncodeOption) (any, error) {
	switch format {
	case FormatDict:
		return Encode(ctx, inst, opts...)
	case FormatBin:
		return EncodeBin(ctx, inst, opts...)
	default:
		return nil, errs.E(ctx, errs.CatUser, errs.KindPack, fmt.Errorf("unknown format %d", format))
	}
}

// Unpack is a thin Format-dispatching adapter over Decode/DecodeBin (§6:
// "Unpack(ctx, Format, src, opts...)"). src must be a map[string]any for
// FormatDict or a []byte for FormatBin, matching what the corresponding Pack
// call produced.
func Unpack(ctx errs.Context, inst record.Instance, format Format, src any, dctx *DecodeContext, opts ...DecodeOption) (map[string]bool, error) {
	switch format {
	case FormatDict:
		m, ok := src.(map[string]any)
		if !ok {
			return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("FormatDict: src must be map[string]any, got %T", src))
		}
		return Decode(ctx, inst, m, dctx, opts...)
	case FormatBin:
		b, ok := src.([]byte)
		if !ok {
			return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("FormatBin: src must be []byte, got %T", src))
		}
		return DecodeBin(ctx, inst, b, dctx, opts...)
	default:
		return nil, errs.E(ctx, errs.CatUser, errs.KindPack, fmt.Errorf("unknown format %d", format))
	}
}
