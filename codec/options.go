// Package codec implements the dual structural ("dict") and binary ("bin")
// encode/decode pipelines described in §4.4-§4.7: delta (only_changed)
// encoding with map tombstones, oid-based reference encoding, and the
// two-phase decode that defers cross-reference resolution until the whole
// graph has been read. Grounded on the field-by-field dispatch loop in the
// teacher's languages/go/structs/encode.go (kept as an in-tree reference
// during development) and the big-endian numeric (de)serialization idiom in
// the teacher's root get.go.
package codec

import "github.com/bearlytools/recordmodel/schema"

// Format selects the wire representation for Encode/Decode.
type Format uint8

const (
	// FormatDict is the self-describing, tag-name-keyed structural form.
	FormatDict Format = iota
	// FormatBin is the compact, tag-index-keyed binary form (§6).
	FormatBin
)

// Mode selects how Decode merges incoming data into a target (§4.5).
type Mode uint8

const (
	// ModeOverride rebuilds containers; a per-element null is silently
	// skipped.
	ModeOverride Mode = iota
	// ModeSync updates maps and nested records in place; a per-key null
	// deletes that key. Arrays are rebuilt in both modes.
	ModeSync
)

// EncodeOptions is the resolved set of encode behaviors (§6's keyword-argument
// surface, realized as a Go functional-options struct per SPEC_FULL.md's
// AMBIENT STACK configuration note).
type EncodeOptions struct {
	Recursive    bool
	OnlyChanged  bool
	ClearChanged bool
	FieldFilter  func(f *schema.Field) bool
	Fields       []string
}

// EncodeOption configures an Encode/EncodeBin call.
type EncodeOption func(*EncodeOptions)

// WithOnlyChanged requests delta encoding: only dirty fields (recursively for
// nested records/containers) are emitted.
func WithOnlyChanged(v bool) EncodeOption { return func(o *EncodeOptions) { o.OnlyChanged = v } }

// WithClearChanged requests that, after a successful encode, the record's
// (and its containers') changed state be cleared non-recursively (§4.4).
func WithClearChanged(v bool) EncodeOption { return func(o *EncodeOptions) { o.ClearChanged = v } }

// WithFieldFilter restricts encoding to fields for which fn returns true.
func WithFieldFilter(fn func(f *schema.Field) bool) EncodeOption {
	return func(o *EncodeOptions) { o.FieldFilter = fn }
}

// WithFields restricts encoding to the named fields only.
func WithFields(names ...string) EncodeOption {
	return func(o *EncodeOptions) { o.Fields = names }
}

func resolveEncodeOptions(opts []EncodeOption) EncodeOptions {
	o := EncodeOptions{Recursive: true}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// DecodeOptions is the resolved set of decode behaviors.
type DecodeOptions struct {
	Mode       Mode
	ResolveRef func(oid string) (any, bool)
	MarkChange bool
}

// DecodeOption configures a Decode/DecodeBin call.
type DecodeOption func(*DecodeOptions)

// WithMode selects override (default) or sync decode mode (§4.5).
func WithMode(m Mode) DecodeOption { return func(o *DecodeOptions) { o.Mode = m } }

// WithResolveRef supplies a caller-authoritative reference resolver; when set,
// it takes priority over the DecodeContext's own known-objects index (§4.5).
func WithResolveRef(fn func(oid string) (any, bool)) DecodeOption {
	return func(o *DecodeOptions) { o.ResolveRef = fn }
}

// WithMarkChange requests that every field written by this decode be marked
// dirty on the target (§4.5).
func WithMarkChange(v bool) DecodeOption { return func(o *DecodeOptions) { o.MarkChange = v } }

func resolveDecodeOptions(opts []DecodeOption) DecodeOptions {
	var o DecodeOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
