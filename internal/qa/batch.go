package qa

// Batch is a fixed-size group of windows scored in one scorer call.
// Windows keep their identity through Keys so logits can be routed
// back after scoring; a window is never split across batches.
type Batch struct {
	Windows []*Window
}

// Keys returns the composite keys of the batch windows, in order.
func (b Batch) Keys() []Key {
	keys := make([]Key, len(b.Windows))
	for i, w := range b.Windows {
		keys[i] = w.Key()
	}
	return keys
}

// BuildBatches groups windows into batches of at most size, preserving
// enumeration order. size <= 0 falls back to 1.
func BuildBatches(windows []*Window, size int) []Batch {
	if size <= 0 {
		size = 1
	}
	var batches []Batch
	for start := 0; start < len(windows); start += size {
		end := start + size
		if end > len(windows) {
			end = len(windows)
		}
		batches = append(batches, Batch{Windows: windows[start:end]})
	}
	return batches
}

// WindowLogits are the scorer outputs routed back to one window.
type WindowLogits struct {
	Start []float64
	End   []float64
}

// Demux routes batch logits back to their originating windows. Row i
// of the output belongs to batch window i.
func Demux(b Batch, start, end [][]float64) map[Key]WindowLogits {
	out := make(map[Key]WindowLogits, len(b.Windows))
	for i, w := range b.Windows {
		if i >= len(start) || i >= len(end) {
			break
		}
		out[w.Key()] = WindowLogits{Start: start[i], End: end[i]}
	}
	return out
}
