package codec

import (
	"fmt"

	"github.com/bearlytools/recordmodel/container"
	"github.com/bearlytools/recordmodel/errs"
	"github.com/bearlytools/recordmodel/field"
	"github.com/bearlytools/recordmodel/obs"
	"github.com/bearlytools/recordmodel/record"
	"github.com/bearlytools/recordmodel/schema"
)

// Encode renders inst as a structural-format map[string]any (§4.4, §6):
// tag-name keys, nested records as nested maps, Array fields as []any, Map/
// IdMap fields as map[string]any keyed by the stringified map key. A
// WithOnlyChanged(true) encode that finds nothing dirty returns an empty map,
// never an error — "no changes" is a valid, encodable state.
func Encode(ctx errs.Context, inst record.Instance, opts ...EncodeOption) (map[string]any, error) {
	typeName := fmt.Sprintf("%T", inst)
	ctx, sp := obs.StartSpan(ctx, "encode_dict", typeName)
	defer sp.End()

	o := resolveEncodeOptions(opts)
	out, err := encodeDict(ctx, inst, o)
	if err != nil {
		if errs.IsSkipFromPack(err) {
			out = map[string]any{}
		} else {
			return nil, err
		}
	}
	obs.RecordFieldsEncoded(ctx, typeName, "dict", len(out))

	b := inst.AsBase()
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
	return out, nil
}

// encodeDict returns errs.SkipFromPack() when o.OnlyChanged and the record
// has nothing to contribute, letting a caller one level up omit this whole
// nested record/map-value rather than embed an empty map (§4.4).
func encodeDict(ctx errs.Context, inst record.Instance, o EncodeOptions) (map[string]any, error) {
	b := inst.AsBase()
	p := b.Protocol()
	out := map[string]any{}

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
			out[f.Name] = target.AsBase().OID()

		case f.Kind == field.Array:
			arr, ok := v.(container.Iface)
			if !ok {
				continue
			}
			list := make([]any, 0, arr.Len())
			arr.EachElem(func(_ int, ev any) {
				if f.Type == field.Record {
					child, _ := ev.(record.Instance)
					nested, err := encodeDict(ctx, child, o)
					if err != nil && errs.IsSkipFromPack(err) {
						nested = map[string]any{}
					}
					list = append(list, nested)
				} else {
					list = append(list, ev)
				}
			})
			out[f.Name] = list

		case f.Kind == field.Map || f.Kind == field.IDMap:
			m, ok := v.(container.DictIterable)
			if !ok {
				continue
			}
			mv := encodeMapValue(ctx, f, m, o)
			if o.OnlyChanged && len(mv) == 0 {
				continue
			}
			out[f.Name] = mv

		case f.Type == field.Record:
			child, ok := v.(record.Instance)
			if !ok {
				continue
			}
			nested, err := encodeDict(ctx, child, o)
			if err != nil {
				if errs.IsSkipFromPack(err) {
					continue
				}
				return nil, err
			}
			out[f.Name] = nested

		default:
			out[f.Name] = v
		}
	}

	if o.OnlyChanged && len(out) == 0 {
		return nil, errs.SkipFromPack()
	}
	return out, nil
}

func encodeMapValue(ctx errs.Context, f *schema.Field, m container.DictIterable, o EncodeOptions) map[string]any {
	mv := map[string]any{}
	skipOIDField := f.Kind == field.IDMap

	m.EachKV(func(k, val any) {
		ks := keyToString(k)
		if f.Type == field.Record {
			child, ok := val.(record.Instance)
			if !ok {
				return
			}
			childOpts := o
			childOpts.Fields = nil
			if skipOIDField {
				childOpts.FieldFilter = func(cf *schema.Field) bool { return cf.Name != "oid" }
			} else {
				childOpts.FieldFilter = nil
			}
			nested, err := encodeDict(ctx, child, childOpts)
			if err != nil {
				if errs.IsSkipFromPack(err) {
					if o.OnlyChanged {
						// Nothing changed on this element: under delta encoding,
						// a map entry whose record value is unchanged is skipped
						// entirely. Scalar values are always emitted below.
						return
					}
					nested = map[string]any{}
				} else {
					return
				}
			}
			mv[ks] = nested
		} else {
			mv[ks] = val
		}
	})

	if o.OnlyChanged {
		m.EachRemoved(func(k any) {
			mv[keyToString(k)] = nil
		})
	}
	return mv
}

// Decode merges src (a structural-format map, as produced by Encode or by
// unmarshaling JSON into map[string]any) into inst, per o.Mode (§4.5). A nil
// dctx starts a fresh DecodeContext; pass the same DecodeContext across
// multiple Decode calls to resolve refs that span several top-level objects.
// The returned map names any ref oid still unresolved after this call.
func Decode(ctx errs.Context, inst record.Instance, src map[string]any, dctx *DecodeContext, opts ...DecodeOption) (map[string]bool, error) {
	typeName := fmt.Sprintf("%T", inst)
	ctx, sp := obs.StartSpan(ctx, "decode_dict", typeName)
	defer sp.End()

	o := resolveDecodeOptions(opts)
	if dctx == nil {
		dctx = NewDecodeContext()
	}
	if err := decodeDict(ctx, inst, src, dctx, o); err != nil {
		return nil, err
	}
	dctx.Register(inst)
	return dctx.Resolve(o.ResolveRef), nil
}

func decodeDict(ctx errs.Context, inst record.Instance, src map[string]any, dctx *DecodeContext, o DecodeOptions) error {
	b := inst.AsBase()
	p := b.Protocol()

	for name, raw := range src {
		f, ok := p.ByName(name)
		if !ok {
			continue
		}
		if raw == nil {
			// A null at the top level of a record (as opposed to inside a map
			// value) has no defined meaning here; ignore it rather than clear
			// the field, since ClearData/SetData already cover bulk resets.
			continue
		}

		switch {
		case f.Ref:
			oid, ok := raw.(string)
			if !ok {
				return errs.E(ctx, errs.CatUser, errs.KindUnpack,
					fmt.Errorf("field %q: ref value must be a string oid", f.Name))
			}
			idx := f.Index
			dctx.deferRef(oid, func(target record.Instance) {
				b.XXXSetAny(idx, target)
			})
			if o.MarkChange {
				b.SetChanged(f.Name)
			}

		case f.Kind == field.Array:
			if err := decodeArrayField(ctx, b, f, raw, dctx, o); err != nil {
				return err
			}

		case f.Kind == field.Map || f.Kind == field.IDMap:
			if err := decodeMapField(ctx, b, f, raw, dctx, o); err != nil {
				return err
			}

		case f.Type == field.Record:
			childMap, ok := raw.(map[string]any)
			if !ok {
				return errs.E(ctx, errs.CatUser, errs.KindUnpack,
					fmt.Errorf("field %q: expected a record", f.Name))
			}
			var child record.Instance
			existing, present := record.GetAny(b, f.Index)
			if o.Mode == ModeSync && present {
				child, _ = existing.(record.Instance)
			}
			if child == nil {
				child = newChildInstance(f)
			}
			if err := decodeDict(ctx, child, childMap, dctx, o); err != nil {
				return err
			}
			dctx.Register(child)
			b.XXXSetAny(f.Index, child)
			if o.MarkChange {
				b.SetChanged(f.Name)
			}

		default:
			b.XXXSetAny(f.Index, convertScalar(f.Type, raw))
			if o.MarkChange {
				b.SetChanged(f.Name)
			}
		}
	}
	return nil
}

func decodeArrayField(ctx errs.Context, b *record.Base, f *schema.Field, raw any, dctx *DecodeContext, o DecodeOptions) error {
	rawList, ok := raw.([]any)
	if !ok {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q: expected a list", f.Name))
	}
	v, present := record.GetAny(b, f.Index)
	if !present {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine,
			fmt.Errorf("field %q: array container was never initialized", f.Name))
	}
	arr, ok := v.(container.Iface)
	if !ok {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine,
			fmt.Errorf("field %q: stored value is not an array container", f.Name))
	}
	arr.Clear()
	arr.ClearChanged()
	for _, elemRaw := range rawList {
		if f.Type == field.Record {
			if elemRaw == nil {
				continue
			}
			elemMap, ok := elemRaw.(map[string]any)
			if !ok {
				return errs.E(ctx, errs.CatUser, errs.KindUnpack,
					fmt.Errorf("field %q: list element must be a record", f.Name))
			}
			child := newChildInstance(f)
			if err := decodeDict(ctx, child, elemMap, dctx, o); err != nil {
				return err
			}
			dctx.Register(child)
			arr.XXXAppendAny(child)
		} else {
			arr.XXXAppendAny(convertScalar(f.Type, elemRaw))
		}
	}
	if o.MarkChange {
		b.SetChanged(f.Name)
	}
	return nil
}

func decodeMapField(ctx errs.Context, b *record.Base, f *schema.Field, raw any, dctx *DecodeContext, o DecodeOptions) error {
	rawMap, ok := raw.(map[string]any)
	if !ok {
		return errs.E(ctx, errs.CatUser, errs.KindUnpack, fmt.Errorf("field %q: expected a map", f.Name))
	}
	v, present := record.GetAny(b, f.Index)
	if !present {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine,
			fmt.Errorf("field %q: map container was never initialized", f.Name))
	}
	m, ok := v.(container.DictIterable)
	if !ok {
		return errs.E(ctx, errs.CatInternal, errs.KindDefine,
			fmt.Errorf("field %q: stored value is not a map container", f.Name))
	}
	if o.Mode == ModeOverride {
		m.Clear()
		m.ClearChanged()
	}

	for ks, vraw := range rawMap {
		key, err := parseKey(ctx, f.KeyType, ks)
		if err != nil {
			return err
		}
		if vraw == nil {
			if o.Mode == ModeSync {
				m.XXXRawDeleteAny(key)
			}
			continue
		}
		if f.Type == field.Record {
			childMap, ok := vraw.(map[string]any)
			if !ok {
				return errs.E(ctx, errs.CatUser, errs.KindUnpack,
					fmt.Errorf("field %q: map value must be a record", f.Name))
			}
			var child record.Instance
			if o.Mode == ModeSync {
				if existing, ok := m.GetAny(key); ok {
					child, _ = existing.(record.Instance)
				}
			}
			if child == nil {
				child = newChildInstance(f)
			}
			if err := decodeDict(ctx, child, childMap, dctx, o); err != nil {
				return err
			}
			if f.Kind == field.IDMap {
				setOIDField(child, ks)
			}
			dctx.Register(child)
			m.XXXRawSetAny(key, child)
		} else {
			m.XXXRawSetAny(key, convertScalar(f.Type, vraw))
		}
	}
	if o.MarkChange {
		b.SetChanged(f.Name)
	}
	return nil
}

// newChildInstance builds a fresh nested record for field f, via its
// declared factory if any, else by zero-initializing its RecordProto.
func newChildInstance(f *schema.Field) record.Instance {
	if f.Create != nil {
		if inst, ok := f.Create().(record.Instance); ok {
			return inst
		}
	}
	base := &record.Base{}
	base.Init(f.RecordProto)
	return base
}

func setOIDField(inst record.Instance, oid string) {
	b := inst.AsBase()
	f, ok := b.Protocol().OIDField()
	if !ok {
		return
	}
	b.XXXSetAny(f.Index, oid)
}
