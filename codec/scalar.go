package codec

import (
	"fmt"
	"strconv"

	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/field"
)

// keyToString renders a Map/IdMap key (boxed as `any`, one of the
// container.Key primitive types) as a structural-format map key (§4.6: dict
// form always keys by string, even for non-string key types).
func keyToString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case bool:
		return strconv.FormatBool(k)
	case int8:
		return strconv.FormatInt(int64(k), 10)
	case int16:
		return strconv.FormatInt(int64(k), 10)
	case int32:
		return strconv.FormatInt(int64(k), 10)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint8:
		return strconv.FormatUint(uint64(k), 10)
	case uint16:
		return strconv.FormatUint(uint64(k), 10)
	case uint32:
		return strconv.FormatUint(uint64(k), 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float32:
		return strconv.FormatFloat(float64(k), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64)
	default:
		return fmt.Sprint(k)
	}
}

// parseKey parses a structural-format map key string back into the Go
// primitive type matching kt, boxed as `any` so the codec package can hand it
// to container.DictIterable.XXXRawSetAny without knowing the concrete key
// type parameter.
func parseKey(ctx errs.Context, kt field.Type, s string) (any, error) {
	switch kt {
	case field.String:
		return s, nil
	case field.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("key %q: not a bool: %w", s, err))
		}
		return v, nil
	case field.Int8:
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), wrapParseErr(ctx, s, err)
	case field.Int16:
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), wrapParseErr(ctx, s, err)
	case field.Int32:
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), wrapParseErr(ctx, s, err)
	case field.Int64:
		v, err := strconv.ParseInt(s, 10, 64)
		return v, wrapParseErr(ctx, s, err)
	case field.Uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), wrapParseErr(ctx, s, err)
	case field.Uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), wrapParseErr(ctx, s, err)
	case field.Uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		return uint32(v), wrapParseErr(ctx, s, err)
	case field.Uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		return v, wrapParseErr(ctx, s, err)
	case field.Float32:
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), wrapParseErr(ctx, s, err)
	case field.Float64:
		v, err := strconv.ParseFloat(s, 64)
		return v, wrapParseErr(ctx, s, err)
	default:
		return nil, errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("key %q: unsupported key type %s", s, kt))
	}
}

func wrapParseErr(ctx errs.Context, s string, err error) error {
	if err == nil {
		return nil
	}
	return errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("key %q: %w", s, err))
}

// convertScalar coerces a decoded structural-format value (which, coming
// through encoding/json or a hand-built map[string]any, may carry a looser Go
// type than the field's declared primitive) into the exact Go type the field
// slot and its containers expect.
func convertScalar(t field.Type, v any) any {
	switch t {
	case field.Bool:
		b, _ := v.(bool)
		return b
	case field.String:
		s, _ := v.(string)
		return s
	case field.Bytes:
		switch b := v.(type) {
		case []byte:
			return b
		case string:
			return []byte(b)
		default:
			return []byte(nil)
		}
	case field.Int8:
		return int8(asInt64(v))
	case field.Int16:
		return int16(asInt64(v))
	case field.Int32:
		return int32(asInt64(v))
	case field.Int64:
		return asInt64(v)
	case field.Uint8:
		return uint8(asUint64(v))
	case field.Uint16:
		return uint16(asUint64(v))
	case field.Uint32:
		return uint32(asUint64(v))
	case field.Uint64:
		return asUint64(v)
	case field.Float32:
		return float32(asFloat64(v))
	case field.Float64:
		return asFloat64(v)
	default:
		return v
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	default:
		return 0
	}
}

func asUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case uint32:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint8:
		return uint64(n)
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	case float64:
		return uint64(n)
	case float32:
		return uint64(n)
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func containsName(names []string, n string) bool {
	for _, x := range names {
		if x == n {
			return true
		}
	}
	return false
}
