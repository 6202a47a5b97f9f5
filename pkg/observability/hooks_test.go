package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	assembles int
	resolves  int
}

func (r *recordingPipelineHooks) OnAssembleStart(context.Context, string) { r.assembles++ }
func (r *recordingPipelineHooks) OnResolveStart(context.Context, string, string) {
	r.resolves++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (r *recordingCacheHooks) OnCacheHit(context.Context, string) { r.hits++ }

func TestHookRegistration(t *testing.T) {
	t.Cleanup(Reset)

	p := &recordingPipelineHooks{}
	c := &recordingCacheHooks{}
	SetPipelineHooks(p)
	SetCacheHooks(c)

	ctx := context.Background()
	Pipeline().OnAssembleStart(ctx, "abc")
	Pipeline().OnResolveStart(ctx, "abc", "Sales")
	Pipeline().OnResolveComplete(ctx, "abc", "Sales", 3, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "table")

	if p.assembles != 1 || p.resolves != 1 {
		t.Errorf("pipeline hooks = %d assembles, %d resolves", p.assembles, p.resolves)
	}
	if c.hits != 1 {
		t.Errorf("cache hits = %d, want 1", c.hits)
	}
}

func TestSetNilKeepsExisting(t *testing.T) {
	t.Cleanup(Reset)

	p := &recordingPipelineHooks{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)

	Pipeline().OnAssembleStart(context.Background(), "abc")
	if p.assembles != 1 {
		t.Error("nil registration should not replace existing hooks")
	}
}

func TestResetRestoresNoops(t *testing.T) {
	p := &recordingPipelineHooks{}
	SetPipelineHooks(p)
	Reset()

	Pipeline().OnAssembleStart(context.Background(), "abc")
	if p.assembles != 0 {
		t.Error("Reset should restore no-op hooks")
	}
}
