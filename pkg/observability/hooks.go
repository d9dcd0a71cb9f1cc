// Package observability lets callers watch depsize runs without the core
// packages depending on a metrics or tracing backend.
//
// The pipeline reports every stage (discover, open, collect, build, layout,
// render, write) to the installed [PipelineHooks]; the preview server reports
// each request to the installed [HTTPHooks]. Both default to no-ops.
//
//	observability.SetPipelineHooks(&stageTimer{})
//
// The CLI's progress spinner is itself a PipelineHooks, installed for the
// length of one run with [AddPipelineHooks] so hooks registered at startup
// keep receiving events:
//
//	restore := observability.AddPipelineHooks(spinner)
//	defer restore()
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the graph generation pipeline.
type PipelineHooks interface {
	// OnStageStart is called before a stage (discover, collect, layout, ...) runs.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete is called after a stage finishes. count is the number
	// of items the stage produced (directories, packages, nodes, bytes).
	OnStageComplete(ctx context.Context, stage string, count int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the preview server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// MultiPipelineHooks forwards every pipeline event to each of its hooks in
// order. Nil entries are skipped.
type MultiPipelineHooks []PipelineHooks

func (m MultiPipelineHooks) OnStageStart(ctx context.Context, stage string) {
	for _, h := range m {
		if h != nil {
			h.OnStageStart(ctx, stage)
		}
	}
}

func (m MultiPipelineHooks) OnStageComplete(ctx context.Context, stage string, count int, duration time.Duration, err error) {
	for _, h := range m {
		if h != nil {
			h.OnStageComplete(ctx, stage, count, duration, err)
		}
	}
}

// =============================================================================
// Registry
// =============================================================================

// registry holds the installed hooks. The CLI swaps pipeline hooks per run
// while the preview server reads them from request goroutines.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	http     HTTPHooks
}

var hooks = registry{pipeline: NoopPipelineHooks{}, http: NoopHTTPHooks{}}

// SetPipelineHooks replaces the pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// AddPipelineHooks installs h alongside the current pipeline hooks and
// returns a function that reinstates the previous ones. Restore functions
// must run in reverse order of installation.
func AddPipelineHooks(h PipelineHooks) (restore func()) {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()

	prev := hooks.pipeline
	if _, noop := prev.(NoopPipelineHooks); noop {
		hooks.pipeline = h
	} else {
		hooks.pipeline = MultiPipelineHooks{prev, h}
	}
	return func() { SetPipelineHooks(prev) }
}

// SetHTTPHooks replaces the preview server hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// HTTP returns the installed preview server hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.http = NoopHTTPHooks{}
}
