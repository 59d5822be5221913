// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

// Package logship buffers structured log records produced by a host
// application and ships them in batches to a remote ingestion HTTP
// endpoint.
//
// A Client owns a bounded in-memory buffer, a periodic and size-triggered
// flush dispatcher, an exponential-backoff retry engine guarded by a
// circuit breaker, a thread-safe metrics register, and a scoped trace-id
// context. None of this blocks the caller of Log: delivery is best-effort,
// and send failures are visible only through Metrics, never as an error
// returned from Log. Log itself returns an error only when the buffer is
// full (ErrBufferFull) or the Client is closed (ErrClosed).
//
// Construct a Client with New, log with Log (or the Debug/Info/Warn/
// ErrorLog/CriticalLog convenience methods), and call Close when the host
// application shuts down to flush any buffered records one last time.
package logship
