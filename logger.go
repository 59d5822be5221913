// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger is an optional interface for the client's own internal debug
// logging. This allows the client to be wired into any host application's
// logging framework without taking a hard dependency on it.
type Logger interface {
	// Debug logs a debug-level message with optional key-value fields.
	Debug(ctx context.Context, msg string, fields map[string]interface{})
}

// hclogLogger adapts hashicorp/go-hclog to the Logger interface. It is the
// default used when ClientConfig.Debug is enabled and no Logger option is
// supplied.
type hclogLogger struct {
	l hclog.Logger
}

// NewHCLogLogger builds a Logger backed by go-hclog, named "logship".
func NewHCLogLogger() Logger {
	return &hclogLogger{
		l: hclog.New(&hclog.LoggerOptions{
			Name:   "logship",
			Level:  hclog.Debug,
			Output: os.Stderr,
		}),
	}
}

func (h *hclogLogger) Debug(_ context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	h.l.Debug(msg, args...)
}

// noopLogger discards everything; used when debug logging is disabled.
type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, map[string]interface{}) {}
