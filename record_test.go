// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestLogRecordEmptyMetadataOmitted(t *testing.T) {
	r := newRecord("svc", Info, "hello", nil)

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["metadata"]; ok {
		t.Fatalf("expected metadata field omitted for empty map, got %s", b)
	}
	if _, ok := raw["trace_id"]; ok {
		t.Fatalf("expected trace_id field omitted when unset, got %s", b)
	}
}

func TestLogRecordNonEmptyMetadataAndTraceIDSerialize(t *testing.T) {
	r := newRecord("svc", Error, "boom", map[string]interface{}{"k": "v"})
	r.TraceID = "abc"

	b, _ := json.Marshal(r)
	var raw map[string]interface{}
	_ = json.Unmarshal(b, &raw)

	if raw["trace_id"] != "abc" {
		t.Fatalf("expected trace_id abc, got %v", raw["trace_id"])
	}
	meta, ok := raw["metadata"].(map[string]interface{})
	if !ok || meta["k"] != "v" {
		t.Fatalf("expected metadata k=v, got %v", raw["metadata"])
	}
}

type testTypedErr struct {
	msg   string
	cause error
}

func (e *testTypedErr) Error() string        { return e.msg }
func (e *testTypedErr) ErrorTypeName() string { return "TestError" }
func (e *testTypedErr) Unwrap() error         { return e.cause }

func TestSerializeErrorNested(t *testing.T) {
	root := &testTypedErr{msg: "outer", cause: &testTypedErr{msg: "inner"}}

	sv := SerializeError(root)
	if sv.Name != "TestError" || sv.Message != "outer" {
		t.Fatalf("unexpected outer: %+v", sv)
	}
	if sv.Cause == nil || sv.Cause.Message != "inner" {
		t.Fatalf("expected nested cause, got %+v", sv.Cause)
	}
	if sv.Cause.Cause != nil {
		t.Fatalf("expected no further cause, got %+v", sv.Cause.Cause)
	}
}

func TestSerializeErrorPlainStdlibError(t *testing.T) {
	sv := SerializeError(errors.New("plain"))
	if sv.Name != "error" || sv.Message != "plain" {
		t.Fatalf("unexpected: %+v", sv)
	}
}

func TestSerializeErrorWrappedStdlib(t *testing.T) {
	inner := errors.New("inner")
	outer := fmt.Errorf("outer: %w", inner)

	sv := SerializeError(outer)
	if sv.Cause == nil || sv.Cause.Message != "inner" {
		t.Fatalf("expected wrapped cause via %%w, got %+v", sv)
	}
}

func TestErrorMetadataKey(t *testing.T) {
	meta := errorMetadata(errors.New("x"))
	if _, ok := meta["error"]; !ok {
		t.Fatal("expected error key present")
	}
}
