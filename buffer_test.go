// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import "testing"

func TestBufferOverflowRejectsAndKeepsCapacity(t *testing.T) {
	b := newBuffer(2)

	r1 := b.append(newRecord("svc", Info, "1", nil), 100)
	r2 := b.append(newRecord("svc", Info, "2", nil), 100)
	r3 := b.append(newRecord("svc", Info, "3", nil), 100)

	if !r1.ok || !r2.ok {
		t.Fatal("expected first two appends to succeed")
	}
	if r3.ok {
		t.Fatal("expected third append to fail: buffer at capacity")
	}
	if b.len() != 2 {
		t.Fatalf("expected buffer length to stay at 2, got %d", b.len())
	}
}

func TestBufferThresholdCrossedSignal(t *testing.T) {
	b := newBuffer(10)

	r1 := b.append(newRecord("svc", Info, "1", nil), 2)
	if r1.thresholdCrossed {
		t.Fatal("expected no threshold signal after first append with batch size 2")
	}
	r2 := b.append(newRecord("svc", Info, "2", nil), 2)
	if !r2.thresholdCrossed {
		t.Fatal("expected threshold signal after second append reaches batch size 2")
	}
}

func TestBufferSnapshotMovesAndClears(t *testing.T) {
	b := newBuffer(10)
	b.append(newRecord("svc", Info, "1", nil), 100)
	b.append(newRecord("svc", Info, "2", nil), 100)

	snap := b.snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected snapshot of 2 records, got %d", len(snap))
	}
	if snap[0].Message != "1" || snap[1].Message != "2" {
		t.Fatalf("expected insertion order preserved, got %v", snap)
	}
	if b.len() != 0 {
		t.Fatalf("expected buffer cleared after snapshot, got length %d", b.len())
	}
}

func TestBufferSnapshotEmptyReturnsNil(t *testing.T) {
	b := newBuffer(10)
	if snap := b.snapshot(); snap != nil {
		t.Fatalf("expected nil snapshot for empty buffer, got %v", snap)
	}
}
