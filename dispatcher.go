// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

// dispatcher owns the periodic flush trigger and the immediate-flush path
// fired when a buffer append crosses the batch-size threshold. The periodic
// trigger is scheduled with robfig/cron rather than a bare time.Ticker,
// running a fixed "@every" entry for the configured flush interval. That
// schedule has whole-second resolution: the interval is truncated to whole
// seconds, and an interval under one second fires once a second.
type dispatcher struct {
	buf    *buffer
	engine *retryEngine
	logger Logger

	cronRunner *cron.Cron
	entryID    cron.EntryID

	wg sync.WaitGroup
}

func newDispatcher(buf *buffer, engine *retryEngine, logger Logger) *dispatcher {
	return &dispatcher{
		buf:        buf,
		engine:     engine,
		logger:     logger,
		cronRunner: cron.New(),
	}
}

// start schedules the periodic flush and begins running it in the
// background. It must be called at most once.
func (d *dispatcher) start(cfg *ClientConfig) error {
	spec := fmt.Sprintf("@every %s", cfg.FlushInterval.String())
	id, err := d.cronRunner.AddFunc(spec, func() {
		d.flushNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("logship: scheduling periodic flush: %w", err)
	}
	d.entryID = id
	d.cronRunner.Start()
	return nil
}

// triggerAsync fires an immediate flush without blocking the caller. It is
// safe to call from any goroutine, including concurrently with the periodic
// trigger and with other calls to triggerAsync.
func (d *dispatcher) triggerAsync(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.flushNow(ctx)
	}()
}

// flushNow snapshots the buffer and hands it to the retry engine. Multiple
// concurrent flushes are allowed; each operates on its own independent
// snapshot.
func (d *dispatcher) flushNow(ctx context.Context) {
	snap := d.buf.snapshot()
	if snap == nil {
		return
	}
	if d.logger != nil {
		d.logger.Debug(ctx, "flushing batch", map[string]interface{}{"batch_size": len(snap)})
	}
	d.engine.send(ctx, snap)
}

// stop halts the periodic trigger and waits for in-flight async flushes
// kicked off via triggerAsync to finish.
func (d *dispatcher) stop() {
	if d.cronRunner != nil {
		stopCtx := d.cronRunner.Stop()
		<-stopCtx.Done()
	}
	d.wg.Wait()
}
