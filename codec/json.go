package codec

import (
	"github.com/go-json-experiment/json"

	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/record"
)

// EncodeJSON renders inst as JSON by first producing the structural dict form
// (Encode) and marshaling that through go-json-experiment/json, giving the
// record model a JSON bridge without a second, JSON-specific field-walk.
func EncodeJSON(ctx errs.Context, inst record.Instance, opts ...EncodeOption) ([]byte, error) {
	m, err := Encode(ctx, inst, opts...)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// DecodeJSON unmarshals data into a structural dict (map[string]any) and
// merges it into inst via Decode.
func DecodeJSON(ctx errs.Context, inst record.Instance, data []byte, dctx *DecodeContext, opts ...DecodeOption) (map[string]bool, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, err)
	}
	return Decode(ctx, inst, m, dctx, opts...)
}
