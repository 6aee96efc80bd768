// Binary wire format (§6): every record is a sequence of
//
//	fieldIndex uint16 | payload
//
// entries, terminated by a field index of 0x0000. Fixed-width scalars are
// written big-endian via internal/binary; String/Bytes/ref-oid payloads are
// uint16-length-prefixed (<= 65535 bytes, else *StringTooLong*); nested
// records recurse (self-terminated, so no length prefix is needed around
// them); Array/Map/IdMap payloads open with a container tag byte
// (field.TagArray/TagMap/TagIDMap) and a uint32 element count.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/bearlytools/recordmodel/container"
	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/field"
	intbinary "github.com/bearlytools/recordmodel/internal/binary"
	"github.com/bearlytools/recordmodel/obs"
	"github.com/bearlytools/recordmodel/record"
	"github.com/bearlytools/recordmodel/schema"
)

const fieldTerminator uint16 = 0x0000

// EncodeBin renders inst in the compact binary form.
func EncodeBin(ctx errs.Context, inst record.Instance, opts ...EncodeOption) ([]byte, error) {
	typeName := fmt.Sprintf("%T", inst)
	ctx, sp := obs.StartSpan(ctx, "encode_bin", typeName)
	defer sp.End()

	o := resolveEncodeOptions(opts)
	var buf bytes.Buffer
	if err := encodeBinInto(&buf, ctx, inst, o); err != nil {
		return nil, err
	}

	b := inst.AsBase()
	obs.RecordFieldsEncoded(ctx, typeName, "bin", countEncodableFields(b, o))
	obs.RecordPayloadSize(ctx, typeName, "bin", buf.Len())

	if o.ClearChanged {
		cleared := countChangedFields(b)
		b.ClearChanged(false)
		for _, f := range b.Protocol().Fields() {
			v, present := record.GetAny(b, f.Index)
			if c, ok := v.(interface{ ClearChanged() }); ok && present && f.Kind != field.Scalar {
				c.ClearChanged()
			}
		}
		obs.RecordDirtyCleared(ctx, typeName, cleared)
	}
	return buf.Bytes(), nil
}

// countEncodableFields counts the top-level fields of b's protocol that
// EncodeBin/Encode would actually write under o, mirroring the filter/
// presence/OnlyChanged checks each encoder's own field loop applies.
func countEncodableFields(b *record.Base, o EncodeOptions) int {
	p := b.Protocol()
	n := 0
	for _, f := range p.Fields() {
		if o.FieldFilter != nil && !o.FieldFilter(f) {
			continue
		}
		if len(o.Fields) > 0 && !containsName(o.Fields, f.Name) {
			continue
		}
		if _, present := record.GetAny(b, f.Index); !present {
			continue
		}
		if o.OnlyChanged && !b.HasChanged(f.Name, true) {
			continue
		}
		n++
	}
	return n
}

// countChangedFields counts b's top-level fields that currently report a
// change, including changes inside their containers or nested records.
func countChangedFields(b *record.Base) int {
	n := 0
	for _, f := range b.Protocol().Fields() {
		if b.HasChanged(f.Name, true) {
			n++
		}
	}
	return n
}

func encodeBinInto(buf *bytes.Buffer, ctx errs.Context, inst record.Instance, o EncodeOptions) error {
	b := inst.AsBase()
	p := b.Protocol()

	for _, f := range p.Fields() {
		if o.FieldFilter != nil && !o.FieldFilter(f) {
			continue
		}
		if len(o.Fields) > 0 && !containsName(o.Fields, f.Name) {
			continue
		}
		v, present := record.GetAny(b, f.Index)
		if !present {
			continue
		}
		if o.OnlyChanged && !b.HasChanged(f.Name, true) {
			continue
		}

		switch {
		case f.Ref:
			target, ok := v.(record.Instance)
			if !ok {
				continue
			}
			intbinary.PutBuffer(buf, f.Index)
			if err := writeLenPrefixed(buf, []byte(target.AsBase().OID())); err != nil {
				return err
			}

		case f.Kind == field.Array:
			arr, ok := v.(container.Iface)
			if !ok {
				continue
			}
			intbinary.PutBuffer(buf, f.Index)
			buf.WriteByte(field.TagArray)
			intbinary.PutBuffer(buf, uint32(arr.Len()))
			var elemErr error
			arr.EachElem(func(_ int, ev any) {
				if elemErr != nil {
					return
				}
				if f.Type == field.Record {
					child, _ := ev.(record.Instance)
					elemErr = encodeBinInto(buf, ctx, child, o)
					return
				}
				elemErr = writeScalar(buf, f.Type, ev)
			})
			if elemErr != nil {
				return elemErr
			}

		case f.Kind == field.Map || f.Kind == field.IDMap:
			m, ok := v.(container.DictIterable)
			if !ok {
				continue
			}
			tag := field.TagMap
			if f.Kind == field.IDMap {
				tag = field.TagIDMap
			}
			intbinary.PutBuffer(buf, f.Index)
			buf.WriteByte(tag)
			removed := collectRemoved(m, o)
			intbinary.PutBuffer(buf, uint32(m.Len()+len(removed)))
			var entryErr error
			m.EachKV(func(k, val any) {
				if entryErr != nil {
					return
				}
				entryErr = writeKey(buf, f.KeyType, k)
				if entryErr != nil {
					return
				}
				buf.WriteByte(1)
				if f.Type == field.Record {
					child, _ := val.(record.Instance)
					childOpts := o
					childOpts.Fields = nil
					if f.Kind == field.IDMap {
						childOpts.FieldFilter = func(cf *schema.Field) bool { return cf.Name != "oid" }
					} else {
						childOpts.FieldFilter = nil
					}
					entryErr = encodeBinInto(buf, ctx, child, childOpts)
					return
				}
				entryErr = writeScalar(buf, f.Type, val)
			})
			if entryErr != nil {
				return entryErr
			}
			for _, k := range removed {
				if err := writeKey(buf, f.KeyType, k); err != nil {
					return err
				}
				buf.WriteByte(0)
			}

		case f.Type == field.Record:
			child, ok := v.(record.Instance)
			if !ok {
				continue
			}
			intbinary.PutBuffer(buf, f.Index)
			if err := encodeBinInto(buf, ctx, child, o); err != nil {
				return err
			}

		default:
			intbinary.PutBuffer(buf, f.Index)
			if err := writeScalar(buf, f.Type, v); err != nil {
				return err
			}
		}
	}

	intbinary.PutBuffer(buf, fieldTerminator)
	return nil
}

func collectRemoved(m container.DictIterable, o EncodeOptions) []any {
	if !o.OnlyChanged {
		return nil
	}
	var removed []any
	m.EachRemoved(func(k any) { removed = append(removed, k) })
	return removed
}

// DecodeBin parses the binary form produced by EncodeBin into inst.
func DecodeBin(ctx errs.Context, inst record.Instance, data []byte, dctx *DecodeContext, opts ...DecodeOption) (map[string]bool, error) {
	typeName := fmt.Sprintf("%T", inst)
	ctx, sp := obs.StartSpan(ctx, "decode_bin", typeName)
	defer sp.End()
	obs.RecordPayloadSize(ctx, typeName, "bin", len(data))

	o := resolveDecodeOptions(opts)
	if dctx == nil {
		dctx = NewDecodeContext()
	}
	r := bytes.NewReader(data)
	if err := decodeBinFrom(ctx, inst, r, dctx, o); err != nil {
		return nil, err
	}
	dctx.Register(inst)
	return dctx.Resolve(o.ResolveRef), nil
}

func decodeBinFrom(ctx errs.Context, inst record.Instance, r *bytes.Reader, dctx *DecodeContext, o DecodeOptions) error {
	b := inst.AsBase()
	p := b.Protocol()

	for {
		idx, err := readUint16(r)
		if err != nil {
			return errs.E(ctx, errs.CatUser, errs.KindUnpack, errors.Wrap(err, "reading field-index cursor"))
		}
		if idx == fieldTerminator {
			return nil
		}
		f, ok := p.ByIndex(idx)
		if !ok {
			return errs.E(ctx, errs.CatUser, errs.KindPack, fmt.Errorf("unknown field index %d", idx))
		}

		switch {
		case f.Ref:
			oidBytes, err := readLenPrefixed(r)
			if err != nil {
				return err
			}
			oid := string(oidBytes)
			fidx := f.Index
			dctx.deferRef(oid, func(target record.Instance) { b.XXXSetAny(fidx, target) })
			if o.MarkChange {
				b.SetChanged(f.Name)
			}

		case f.Kind == field.Array:
			if err := decodeBinArray(ctx, b, f, r, dctx, o); err != nil {
				return err
			}

		case f.Kind == field.Map || f.Kind == field.IDMap:
			if err := decodeBinMap(ctx, b, f, r, dctx, o); err != nil {
				return err
			}

		case f.Type == field.Record:
			var child record.Instance
			existing, present := record.GetAny(b, f.Index)
			if o.Mode == ModeSync && present {
				child, _ = existing.(record.Instance)
			}
			if child == nil {
				child = newChildInstance(f)
			}
			if err := decodeBinFrom(ctx, child, r, dctx, o); err != nil {
				return err
			}
			dctx.Register(child)
			b.XXXSetAny(f.Index, child)
			if o.MarkChange {
				b.SetChanged(f.Name)
			}

		default:
			v, err := readScalar(r, f.Type)
			if err != nil {
				return errs.E(ctx, errs.CatUser, errs.KindUnpack, errors.Wrapf(err, "field %q: reading scalar payload", f.Name))
			}
			b.XXXSetAny(f.Index, v)
			if o.MarkChange {
				b.SetChanged(f.Name)
			}
		}
	}
}

func decodeBinArray(ctx errs.Context, b *record.Base, f *schema.Field, r *bytes.Reader, dctx *DecodeContext, o DecodeOptions) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if tag != field.TagArray {
		return errs.E(ctx, errs.CatUser, errs.KindPack, fmt.Errorf("field %q: expected array tag, got 0x%02x", f.Name, tag))
	}
	count, err := readUint32(r)
	if err != nil {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, errors.Wrapf(err, "field %q: reading element count", f.Name))
	}
	v, present := record.GetAny(b, f.Index)
	if !present {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine, fmt.Errorf("field %q: array container was never initialized", f.Name))
	}
	arr, ok := v.(container.Iface)
	if !ok {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine, fmt.Errorf("field %q: stored value is not an array container", f.Name))
	}
	arr.Clear()
	arr.ClearChanged()
	for i := uint32(0); i < count; i++ {
		if f.Type == field.Record {
			child := newChildInstance(f)
			if err := decodeBinFrom(ctx, child, r, dctx, o); err != nil {
				return err
			}
			dctx.Register(child)
			arr.XXXAppendAny(child)
		} else {
			val, err := readScalar(r, f.Type)
			if err != nil {
				return err
			}
			arr.XXXAppendAny(val)
		}
	}
	if o.MarkChange {
		b.SetChanged(f.Name)
	}
	return nil
}

func decodeBinMap(ctx errs.Context, b *record.Base, f *schema.Field, r *bytes.Reader, dctx *DecodeContext, o DecodeOptions) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	wantTag := field.TagMap
	if f.Kind == field.IDMap {
		wantTag = field.TagIDMap
	}
	if tag != wantTag {
		return errs.E(ctx, errs.CatUser, errs.KindPack, fmt.Errorf("field %q: expected map tag 0x%02x, got 0x%02x", f.Name, wantTag, tag))
	}
	count, err := readUint32(r)
	if err != nil {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, errors.Wrapf(err, "field %q: reading entry count", f.Name))
	}
	v, present := record.GetAny(b, f.Index)
	if !present {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine, fmt.Errorf("field %q: map container was never initialized", f.Name))
	}
	m, ok := v.(container.DictIterable)
	if !ok {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine, fmt.Errorf("field %q: stored value is not a map container", f.Name))
	}
	if o.Mode == ModeOverride {
		m.Clear()
		m.ClearChanged()
	}
	for i := uint32(0); i < count; i++ {
		key, err := readKey(r, f.KeyType)
		if err != nil {
			return err
		}
		presenceByte, err := r.ReadByte()
		if err != nil {
			return err
		}
		if presenceByte == 0 {
			if o.Mode == ModeSync {
				m.XXXRawDeleteAny(key)
			}
			continue
		}
		if f.Type == field.Record {
			var child record.Instance
			if o.Mode == ModeSync {
				if existing, ok := m.GetAny(key); ok {
					child, _ = existing.(record.Instance)
				}
			}
			if child == nil {
				child = newChildInstance(f)
			}
			if err := decodeBinFrom(ctx, child, r, dctx, o); err != nil {
				return err
			}
			if f.Kind == field.IDMap {
				setOIDField(child, keyToString(key))
			}
			dctx.Register(child)
			m.XXXRawSetAny(key, child)
		} else {
			val, err := readScalar(r, f.Type)
			if err != nil {
				return err
			}
			m.XXXRawSetAny(key, val)
		}
	}
	if o.MarkChange {
		b.SetChanged(f.Name)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, t field.Type, v any) error {
	switch t {
	case field.Bool:
		bv, _ := v.(bool)
		if bv {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case field.Int8:
		intbinary.PutBuffer(buf, toI8(v))
	case field.Int16:
		intbinary.PutBuffer(buf, toI16(v))
	case field.Int32:
		intbinary.PutBuffer(buf, toI32(v))
	case field.Int64:
		intbinary.PutBuffer(buf, toI64(v))
	case field.Uint8:
		intbinary.PutBuffer(buf, toU8(v))
	case field.Uint16:
		intbinary.PutBuffer(buf, toU16(v))
	case field.Uint32:
		intbinary.PutBuffer(buf, toU32(v))
	case field.Uint64:
		intbinary.PutBuffer(buf, toU64(v))
	case field.Float32:
		f32, _ := v.(float32)
		intbinary.PutBuffer(buf, math.Float32bits(f32))
	case field.Float64:
		f64, _ := v.(float64)
		intbinary.PutBuffer(buf, math.Float64bits(f64))
	case field.String:
		s, _ := v.(string)
		if err := writeLenPrefixed(buf, []byte(s)); err != nil {
			return err
		}
	case field.Bytes:
		bs, _ := v.([]byte)
		if err := writeLenPrefixed(buf, bs); err != nil {
			return err
		}
	default:
		return fmt.Errorf("writeScalar: unsupported type %s", t)
	}
	return nil
}

func readScalar(r *bytes.Reader, t field.Type) (any, error) {
	switch t {
	case field.Bool:
		bv, err := r.ReadByte()
		return bv != 0, err
	case field.Int8:
		b, err := readN(r, 1)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[int8](b), nil
	case field.Int16:
		b, err := readN(r, 2)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[int16](b), nil
	case field.Int32:
		b, err := readN(r, 4)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[int32](b), nil
	case field.Int64:
		b, err := readN(r, 8)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[int64](b), nil
	case field.Uint8:
		b, err := readN(r, 1)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[uint8](b), nil
	case field.Uint16:
		b, err := readN(r, 2)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[uint16](b), nil
	case field.Uint32:
		b, err := readN(r, 4)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[uint32](b), nil
	case field.Uint64:
		b, err := readN(r, 8)
		if err != nil {
			return nil, err
		}
		return intbinary.Get[uint64](b), nil
	case field.Float32:
		b, err := readN(r, 4)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(intbinary.Get[uint32](b)), nil
	case field.Float64:
		b, err := readN(r, 8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(intbinary.Get[uint64](b)), nil
	case field.String:
		b, err := readLenPrefixed(r)
		return string(b), err
	case field.Bytes:
		return readLenPrefixed(r)
	default:
		return nil, fmt.Errorf("readScalar: unsupported type %s", t)
	}
}

func writeKey(buf *bytes.Buffer, kt field.Type, key any) error {
	return writeScalar(buf, kt, key)
}

func readKey(r *bytes.Reader, kt field.Type) (any, error) {
	return readScalar(r, kt)
}

// writeLenPrefixed writes b as a uint16 length prefix (§6: "string is uint16
// length (<= 65535...) followed by raw bytes") plus raw bytes. A payload
// longer than 65535 bytes cannot be represented and is rejected here rather
// than silently truncated.
func writeLenPrefixed(buf *bytes.Buffer, b []byte) error {
	if len(b) > math.MaxUint16 {
		return errs.E(errs.EContext(), errs.CatUser, errs.KindStringTooLong,
			fmt.Errorf("binary encode: payload of %d bytes exceeds the uint16 length-prefix limit of %d", len(b), math.MaxUint16))
	}
	intbinary.PutBuffer(buf, uint16(len(b)))
	buf.Write(b)
	return nil
}

func readLenPrefixed(r *bytes.Reader) ([]byte, error) {
	n, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	b, err := readN(r, int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func readN(r *bytes.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.Wrapf(err, "reading %d bytes at cursor offset %d", n, r.Size()-int64(r.Len()))
	}
	return b, nil
}

func readUint16(r *bytes.Reader) (uint16, error) {
	b, err := readN(r, 2)
	if err != nil {
		return 0, err
	}
	return intbinary.Get[uint16](b), nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	b, err := readN(r, 4)
	if err != nil {
		return 0, err
	}
	return intbinary.Get[uint32](b), nil
}

func toI8(v any) int8   { return int8(asInt64(v)) }
func toI16(v any) int16 { return int16(asInt64(v)) }
func toI32(v any) int32 { return int32(asInt64(v)) }
func toI64(v any) int64 { return asInt64(v) }

func toU8(v any) uint8   { return uint8(asUint64(v)) }
func toU16(v any) uint16 { return uint16(asUint64(v)) }
func toU32(v any) uint32 { return uint32(asUint64(v)) }
func toU64(v any) uint64 { return asUint64(v) }
