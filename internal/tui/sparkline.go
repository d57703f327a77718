package tui

// sparklineChars holds the eight block heights, lowest first.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer keeps the most recent samples of a series.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer returns an empty buffer. Capacities below one become one.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push appends v, dropping the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

// Len returns the number of samples held.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Slice returns the samples oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Resize changes the capacity and keeps the newest samples that fit.
func (r *RingBuffer) Resize(newCap int) {
	newCap = max(newCap, 1)
	if newCap == len(r.data) {
		return
	}
	old := r.Slice()
	if len(old) > newCap {
		old = old[len(old)-newCap:]
	}
	r.data = make([]float64, newCap)
	r.head, r.count = 0, 0
	for _, v := range old {
		r.Push(v)
	}
}

// Reset drops all samples.
func (r *RingBuffer) Reset() {
	r.head, r.count = 0, 0
}

// RenderSparkline draws percentages in [0, 100] as one block per sample.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		v = min(max(v, 0), 100)
		runes[i] = sparklineChars[min(int(v/100*7), 7)]
	}
	return string(runes)
}
