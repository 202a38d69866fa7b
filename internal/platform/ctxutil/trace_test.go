package ctxutil

import (
	"context"
	"testing"
)

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	fields := LogFields(ctx)
	if len(fields) != 4 || fields[1] != "r1" || fields[3] != "t1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLogFieldsEmpty(t *testing.T) {
	if f := LogFields(context.Background()); f != nil {
		t.Fatalf("expected nil fields, got=%v", f)
	}
}
