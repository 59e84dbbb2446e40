package market

// History is a bounded FIFO buffer of price samples. Once full, each append
// evicts the oldest sample, so len never exceeds cap.
type History struct {
	buf   []float64
	start int
	size  int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

func (h *History) Append(price float64) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = price
		h.size++
		return
	}
	h.buf[h.start] = price
	h.start = (h.start + 1) % len(h.buf)
}

func (h *History) Len() int { return h.size }

func (h *History) Cap() int { return len(h.buf) }

// Samples returns the stored prices oldest first.
func (h *History) Samples() []float64 {
	out := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Latest returns the most recent sample, or 0 when empty.
func (h *History) Latest() float64 {
	if h.size == 0 {
		return 0
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)]
}
