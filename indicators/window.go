package indicators

import "math"

// window is a fixed-size ring of the most recent values.
type window struct {
	buf  []float64
	next int
	n    int
}

func newWindow(size int) window {
	return window{buf: make([]float64, size)}
}

func (w *window) push(v float64) {
	if w.n < len(w.buf) {
		w.n++
	}
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
}

func (w *window) full() bool { return w.n == len(w.buf) }

func (w *window) reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}
	w.next, w.n = 0, 0
}

func (w *window) mean() float64 {
	if w.n == 0 {
		return 0
	}
	s := 0.0
	for i := 0; i < w.n; i++ {
		s += w.buf[i]
	}
	return s / float64(w.n)
}

// std returns the standard deviation with ddof degrees of freedom removed
// (0 = population, 1 = sample).
func (w *window) std(ddof int) float64 {
	if w.n <= ddof {
		return 0
	}
	m := w.mean()
	ss := 0.0
	for i := 0; i < w.n; i++ {
		d := w.buf[i] - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(w.n-ddof))
}
