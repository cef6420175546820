package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesPipelineCounters(t *testing.T) {
	IncPipelineStarted()
	IncPipelineFailed("llm_timeout")
	IncPipelineFailed("llm_timeout")
	ObserveLLMLatencyMs(300)

	out := Render()
	for _, want := range []string{
		"pipeline_started_total",
		"pipeline_failed_total",
		`pipeline_failures_by_code_total{code="llm_timeout"} 2`,
		`llm_latency_ms_bucket{le="500"} 1`,
		"llm_latency_ms_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 || snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
