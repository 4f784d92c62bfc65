// FILE: logflume/src/internal/sink/http.go
package sink

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"logflume/src/internal/auth"
	"logflume/src/internal/config"
	"logflume/src/internal/core"
	"logflume/src/internal/format"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// HTTPSink batches entries and flushes them to a remote endpoint when the
// batch threshold is reached or the flush timer fires. Failed batches are
// requeued at the front of the pending buffer, in order, with no backoff
// and no retry limit; a persistently failing destination accumulates
// pending entries unbounded.
type HTTPSink struct {
	name   string
	level  core.Level
	config *config.HTTPSinkOptions

	client    *fasthttp.Client
	tokens    *auth.TokenSource
	formatter *format.JSONFormatter
	logger    *log.Logger

	pendingMu sync.Mutex
	pending   []*core.Entry

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	startTime time.Time

	// Statistics
	totalProcessed atomic.Uint64
	totalBatches   atomic.Uint64
	failedBatches  atomic.Uint64
	lastProcessed  atomic.Value // time.Time
	lastBatchSent  atomic.Value // time.Time
}

// NewHTTPSink creates a new HTTP sink and starts its flush timer.
func NewHTTPSink(name string, level core.Level, opts *config.HTTPSinkOptions, logger *log.Logger) (*HTTPSink, error) {
	if opts == nil || opts.URL == "" {
		return nil, fmt.Errorf("http sink requires a url")
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.FlushIntervalMS <= 0 {
		opts.FlushIntervalMS = 5000
	}
	if opts.TimeoutSec <= 0 {
		opts.TimeoutSec = 10
	}

	if name == "" {
		name = "http"
	}

	h := &HTTPSink{
		name:      name,
		level:     level,
		config:    opts,
		formatter: format.NewJSONFormatter(format.Options{}, logger),
		logger:    logger,
		pending:   make([]*core.Entry, 0, opts.BatchSize),
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
	h.lastProcessed.Store(time.Time{})
	h.lastBatchSent.Store(time.Time{})

	h.client = &fasthttp.Client{
		MaxConnsPerHost:     10,
		MaxIdleConnDuration: 10 * time.Second,
		ReadTimeout:         time.Duration(opts.TimeoutSec) * time.Second,
		WriteTimeout:        time.Duration(opts.TimeoutSec) * time.Second,
	}

	if opts.Auth != nil {
		tokens, err := auth.NewTokenSource(opts.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to create token source: %w", err)
		}
		h.tokens = tokens
	}

	h.wg.Add(1)
	go h.flushTimer()

	return h, nil
}

func (h *HTTPSink) Name() string {
	return h.name
}

func (h *HTTPSink) Level() core.Level {
	return h.level
}

// Deliver appends the entry to the pending buffer and flushes immediately
// when the batch threshold is reached.
func (h *HTTPSink) Deliver(entry *core.Entry) error {
	h.totalProcessed.Add(1)
	h.lastProcessed.Store(time.Now())

	h.pendingMu.Lock()
	h.pending = append(h.pending, entry)
	if len(h.pending) < h.config.BatchSize {
		h.pendingMu.Unlock()
		return nil
	}
	batch := h.drainLocked()
	h.pendingMu.Unlock()

	return h.sendBatch(batch)
}

// drainLocked atomically removes all currently pending entries.
// Caller holds pendingMu.
func (h *HTTPSink) drainLocked() []*core.Entry {
	batch := h.pending
	h.pending = make([]*core.Entry, 0, h.config.BatchSize)
	return batch
}

// flushTimer periodically flushes whatever is pending.
func (h *HTTPSink) flushTimer() {
	defer h.wg.Done()

	ticker := time.NewTicker(time.Duration(h.config.FlushIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.Flush()
		case <-h.done:
			return
		}
	}
}

// Flush transmits all currently pending entries, if any.
func (h *HTTPSink) Flush() error {
	h.pendingMu.Lock()
	if len(h.pending) == 0 {
		h.pendingMu.Unlock()
		return nil
	}
	batch := h.drainLocked()
	h.pendingMu.Unlock()

	return h.sendBatch(batch)
}

// sendBatch serializes and transmits one batch. On failure the entries are
// placed back at the front of the pending buffer, ahead of anything queued
// since, preserving their original order.
func (h *HTTPSink) sendBatch(batch []*core.Entry) error {
	h.totalBatches.Add(1)
	h.lastBatchSent.Store(time.Now())

	body, err := h.formatter.FormatBatch(batch)
	if err != nil {
		h.failedBatches.Add(1)
		return fmt.Errorf("failed to serialize batch: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(h.config.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	for k, v := range h.config.Headers {
		req.Header.Set(k, v)
	}
	if h.tokens != nil {
		token, err := h.tokens.Token()
		if err != nil {
			h.logger.Error("msg", "Failed to mint auth token",
				"component", "http_sink",
				"error", err)
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.SetBody(body)

	err = h.client.DoTimeout(req, resp, time.Duration(h.config.TimeoutSec)*time.Second)
	statusCode := resp.StatusCode()

	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	if err == nil && statusCode >= 200 && statusCode < 300 {
		h.logger.Debug("msg", "Batch sent",
			"component", "http_sink",
			"batch_size", len(batch),
			"status_code", statusCode)
		return nil
	}

	if err == nil {
		err = fmt.Errorf("server returned status %d", statusCode)
	}

	h.failedBatches.Add(1)
	h.requeue(batch)

	h.logger.Warn("msg", "Batch transmission failed, requeued",
		"component", "http_sink",
		"batch_size", len(batch),
		"error", err)

	return fmt.Errorf("batch transmission failed: %w", err)
}

func (h *HTTPSink) requeue(batch []*core.Entry) {
	h.pendingMu.Lock()
	h.pending = append(batch, h.pending...)
	h.pendingMu.Unlock()
}

// Close cancels the flush timer and performs one final flush attempt.
func (h *HTTPSink) Close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()
		err = h.Flush()
	})
	return err
}

func (h *HTTPSink) GetStats() SinkStats {
	lastProc, _ := h.lastProcessed.Load().(time.Time)
	lastBatch, _ := h.lastBatchSent.Load().(time.Time)

	h.pendingMu.Lock()
	pendingEntries := len(h.pending)
	h.pendingMu.Unlock()

	return SinkStats{
		Type:           "http",
		TotalProcessed: h.totalProcessed.Load(),
		TotalFailed:    h.failedBatches.Load(),
		StartTime:      h.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"url":             h.config.URL,
			"batch_size":      h.config.BatchSize,
			"pending_entries": pendingEntries,
			"total_batches":   h.totalBatches.Load(),
			"failed_batches":  h.failedBatches.Load(),
			"last_batch_sent": lastBatch,
		},
	}
}
