package observability

import (
	"testing"
	"time"
)

func TestStageWindowSnapshotStats(t *testing.T) {
	w := NewStageWindow(8)
	for _, ms := range []int{10, 20, 30, 40} {
		w.Observe("validate_input", time.Duration(ms)*time.Millisecond)
	}

	snap := w.Snapshot()
	if len(snap.Stages) != 1 {
		t.Fatalf("stages = %d, want 1", len(snap.Stages))
	}
	st := snap.Stages[0]
	if st.Stage != "validate_input" {
		t.Fatalf("stage = %q", st.Stage)
	}
	if st.Samples != 4 {
		t.Fatalf("samples = %d, want 4", st.Samples)
	}
	if st.LastMS != 40 {
		t.Fatalf("last = %v, want 40", st.LastMS)
	}
	if st.AvgMS != 25 {
		t.Fatalf("avg = %v, want 25", st.AvgMS)
	}
	if st.P50MS != 25 {
		t.Fatalf("p50 = %v, want 25", st.P50MS)
	}
	if st.TargetP95MS != 600 {
		t.Fatalf("target = %v, want 600", st.TargetP95MS)
	}
}

func TestStageWindowRingOverwrite(t *testing.T) {
	w := NewStageWindow(4)
	for i := 1; i <= 10; i++ {
		w.Observe("turn_total", time.Duration(i)*time.Millisecond)
	}

	snap := w.Snapshot()
	st := snap.Stages[0]
	if st.Samples != 4 {
		t.Fatalf("samples = %d, want window cap 4", st.Samples)
	}
	// Only the last four samples (7..10) survive.
	if st.AvgMS != 8.5 {
		t.Fatalf("avg = %v, want 8.5", st.AvgMS)
	}
	if st.LastMS != 10 {
		t.Fatalf("last = %v, want 10", st.LastMS)
	}
}

func TestStageWindowIgnoresInvalidSamples(t *testing.T) {
	w := NewStageWindow(4)
	w.Observe("", time.Millisecond)
	w.Observe("validate_output", -time.Millisecond)

	if got := len(w.Snapshot().Stages); got != 0 {
		t.Fatalf("stages = %d, want 0", got)
	}
}

func TestStageWindowReset(t *testing.T) {
	w := NewStageWindow(4)
	w.Observe("classify_intent", 5*time.Millisecond)
	w.Reset()
	if got := len(w.Snapshot().Stages); got != 0 {
		t.Fatalf("stages after reset = %d, want 0", got)
	}
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	if got := quantile(sorted, 0.5); got != 25 {
		t.Fatalf("p50 = %v, want 25", got)
	}
	if got := quantile(sorted, 0); got != 10 {
		t.Fatalf("p0 = %v, want 10", got)
	}
	if got := quantile(sorted, 1); got != 40 {
		t.Fatalf("p100 = %v, want 40", got)
	}
	if got := quantile(nil, 0.5); got != 0 {
		t.Fatalf("empty = %v, want 0", got)
	}
}
