package qa

import "testing"

func makeWindows(n int) []*Window {
	out := make([]*Window, n)
	for i := range out {
		out[i] = &Window{Question: i / 3, Index: i % 3}
	}
	return out
}

func TestBuildBatches_Sizes(t *testing.T) {
	batches := BuildBatches(makeWindows(10), 4)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	sizes := []int{4, 4, 2}
	for i, b := range batches {
		if len(b.Windows) != sizes[i] {
			t.Errorf("batch %d: expected %d windows, got %d", i, sizes[i], len(b.Windows))
		}
	}
}

func TestBuildBatches_NeverSplitsWindow(t *testing.T) {
	ws := makeWindows(7)
	batches := BuildBatches(ws, 3)
	var total int
	seen := make(map[Key]bool)
	for _, b := range batches {
		for _, w := range b.Windows {
			if seen[w.Key()] {
				t.Fatalf("window %v appears in more than one batch", w.Key())
			}
			seen[w.Key()] = true
			total++
		}
	}
	if total != len(ws) {
		t.Errorf("expected all %d windows batched exactly once, got %d", len(ws), total)
	}
}

func TestBuildBatches_ZeroSize(t *testing.T) {
	batches := BuildBatches(makeWindows(3), 0)
	if len(batches) != 3 {
		t.Errorf("expected size <= 0 to fall back to 1, got %d batches", len(batches))
	}
}

func TestDemux_RoutesByKey(t *testing.T) {
	ws := makeWindows(3)
	b := Batch{Windows: ws}
	start := [][]float64{{1}, {2}, {3}}
	end := [][]float64{{4}, {5}, {6}}

	routed := Demux(b, start, end)
	if len(routed) != 3 {
		t.Fatalf("expected 3 routed windows, got %d", len(routed))
	}
	for i, w := range ws {
		l, ok := routed[w.Key()]
		if !ok {
			t.Fatalf("missing logits for window %v", w.Key())
		}
		if l.Start[0] != start[i][0] || l.End[0] != end[i][0] {
			t.Errorf("window %v: wrong logits routed", w.Key())
		}
	}
}

func TestDemux_ShortLogits(t *testing.T) {
	b := Batch{Windows: makeWindows(3)}
	routed := Demux(b, [][]float64{{1}}, [][]float64{{2}})
	if len(routed) != 1 {
		t.Errorf("expected truncated logits to route only 1 window, got %d", len(routed))
	}
}
