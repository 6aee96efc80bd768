// Package errs provides the error taxonomy for the record model: a small
// Category/Kind pair layered over github.com/gostdlib/base/errors, exactly as
// the teacher's languages/go/errors package layers its own Category/Type pair.
package errs

import (
	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/errors"
)

// Category is the broad class of an error: caller mistake vs. internal bug.
type Category uint32

func (c Category) Category() string { return c.String() }

const (
	CatUnknown  Category = 0 // Unknown
	CatUser     Category = 1 // User
	CatInternal Category = 2 // Internal
)

// Kind is the specific error taxonomy from the record model's error design (§7).
type Kind uint16

func (k Kind) Type() string { return k.String() }

const (
	KindUnknown Kind = 0 // Unknown

	// Define: bad schema declaration.
	KindDefine Kind = 1 // Define

	// Operate: illegal runtime action (e.g. deleting a container field).
	KindOperate Kind = 2 // Operate

	// NoField: lookup by a name/index not in the schema.
	KindNoField Kind = 3 // NoField

	// OverflowLower: checked Sub<Name> would underflow 0 or MinValue.
	KindOverflowLower Kind = 4 // OverflowLower

	// StringTooLong: binary-encoding a string whose length doesn't fit uint16.
	KindStringTooLong Kind = 5 // StringTooLong

	// Pack: unknown format selector, unknown field index on binary decode,
	// malformed container head.
	KindPack Kind = 6 // Pack

	// Unpack: structural decode received a value it cannot coerce.
	KindUnpack Kind = 7 // Unpack

	// DuplicateName: two distinct field-definition sites (a record's own
	// fields or two merged ancestors) claim the same field name (§4.2 step 1).
	KindDuplicateName Kind = 8 // DuplicateName

	// DuplicateIndex: two distinct field-definition sites claim the same wire
	// index (§4.2 step 1).
	KindDuplicateIndex Kind = 9 // DuplicateIndex

	// kindSkipFromPack is an internal sentinel meaning "this subtree produced
	// no keys"; it is never returned from a public function (§7).
	kindSkipFromPack Kind = 10 // SkipFromPack
)

// Context is the ambient context type threaded through this module, an alias
// for gostdlib/base/context.Context so callers never need to import that
// package directly just to call E().
type Context = context.Context

// EContext returns a background Context suitable for call sites that run
// outside of any request scope, such as a record type's package-level schema
// registration at init time.
func EContext() Context { return context.Background() }

// Error is the error type returned by every fallible operation in this module.
type Error = errors.Error

// EOption is an optional argument for E().
type EOption = errors.EOption

// WithStackTrace will add a stack trace to the error.
func WithStackTrace() EOption { return errors.WithStackTrace() }

// WithCallNum sets the runtime.CallNum() used to locate the originating frame.
func WithCallNum(i int) EOption { return errors.WithCallNum(i) }

// E creates a new Error in the given Category/Kind.
func E(ctx context.Context, c Category, k Kind, msg error, options ...EOption) Error {
	opts := make([]EOption, 0, len(options)+1)
	opts = append(opts, WithCallNum(2))
	opts = append(opts, options...)
	return errors.E(ctx, c, k, msg, opts...)
}

// Is reports whether err was constructed with E() at the given Kind.
func Is(err error, k Kind) bool {
	e, ok := err.(Error)
	if !ok {
		return false
	}
	t, ok := e.Type().(Kind)
	if !ok {
		return false
	}
	return t == k
}

// skipFromPack is the unexported sentinel used by the structural encoder's
// recursion to signal "nothing to pack" up the call stack; never surfaced.
var skipFromPack = E(context.Background(), CatInternal, kindSkipFromPack, errSkip{})

type errSkip struct{}

func (errSkip) Error() string { return "nothing to pack" }

// SkipFromPack returns the internal sentinel error for "this subtree produced
// no keys." Used only inside the codec package's recursive dict encoder.
func SkipFromPack() error { return skipFromPack }

// IsSkipFromPack reports whether err is the internal "nothing to pack" sentinel.
func IsSkipFromPack(err error) bool {
	e, ok := err.(Error)
	if !ok {
		return false
	}
	t, ok := e.Type().(Kind)
	return ok && t == kindSkipFromPack
}
