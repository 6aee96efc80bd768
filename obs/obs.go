// Package obs wires the record model's three named metrics and its encode/
// decode tracing through the ambient OpenTelemetry stack, the same way the
// teacher's rpc/interceptor/otel package wires RPC metrics: a Meter pulled
// from the gostdlib context, Int64Counter/Int64Histogram instruments created
// once and reused, and span.New for tracing a call.
package obs

import (
	"sync"

	gostdctx "github.com/gostdlib/base/context"
	"github.com/gostdlib/base/telemetry/otel/trace/span"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bearlytools/recordmodel/errs"
)

// instruments holds the three metrics this package records: how many fields
// an encode pass wrote, how many fields a ClearChanged pass cleared, and how
// large an encoded payload came out.
type instruments struct {
	fieldsEncoded metric.Int64Counter
	dirtyCleared  metric.Int64Counter
	payloadSize   metric.Int64Histogram
}

var (
	initOnce sync.Once
	initErr  error
	inst     instruments
)

func ensureInit(ctx errs.Context) error {
	initOnce.Do(func() {
		meter := gostdctx.Meter(ctx)

		inst.fieldsEncoded, initErr = meter.Int64Counter(
			"recordmodel.fields_encoded",
			metric.WithDescription("Number of fields written by an Encode/EncodeBin call"),
		)
		if initErr != nil {
			return
		}

		inst.dirtyCleared, initErr = meter.Int64Counter(
			"recordmodel.dirty_cleared",
			metric.WithDescription("Number of fields whose changed state was cleared"),
		)
		if initErr != nil {
			return
		}

		inst.payloadSize, initErr = meter.Int64Histogram(
			"recordmodel.payload_size",
			metric.WithDescription("Size in bytes of an encoded record payload"),
			metric.WithUnit("By"),
		)
	})
	return initErr
}

// RecordFieldsEncoded adds count to the fields-encoded counter, tagged with
// the record type name and wire format.
func RecordFieldsEncoded(ctx errs.Context, typeName, format string, count int) {
	if err := ensureInit(ctx); err != nil {
		return
	}
	inst.fieldsEncoded.Add(ctx, int64(count),
		metric.WithAttributes(
			attribute.String("record_type", typeName),
			attribute.String("format", format),
		))
}

// RecordDirtyCleared adds count to the dirty-cleared counter, tagged with the
// record type name.
func RecordDirtyCleared(ctx errs.Context, typeName string, count int) {
	if err := ensureInit(ctx); err != nil {
		return
	}
	inst.dirtyCleared.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("record_type", typeName)))
}

// RecordPayloadSize records the byte length of an encoded payload, tagged
// with the record type name and wire format.
func RecordPayloadSize(ctx errs.Context, typeName, format string, bytes int) {
	if err := ensureInit(ctx); err != nil {
		return
	}
	inst.payloadSize.Record(ctx, int64(bytes),
		metric.WithAttributes(
			attribute.String("record_type", typeName),
			attribute.String("format", format),
		))
}

// StartSpan opens a span named "recordmodel.<op>" for an encode/decode call,
// mirroring the teacher's UnaryServerInterceptor span-per-call shape. The
// caller must defer the returned span's End.
func StartSpan(ctx errs.Context, op, typeName string) (errs.Context, span.Span) {
	newCtx, sp := span.New(ctx,
		span.WithName("recordmodel."+op),
		span.WithSpanStartOption(trace.WithSpanKind(trace.SpanKindInternal)),
	)
	sp.Span.SetAttributes(attribute.String("record_type", typeName))
	return newCtx, sp
}
