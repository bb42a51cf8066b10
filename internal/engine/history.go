package engine

import (
	"github.com/miradorstack/mirador-twin/internal/models"
)

const defaultHistorySize = 100

// sampleHistory is a fixed-capacity ring of telemetry samples for one node.
type sampleHistory struct {
	buf   []models.TelemetrySample
	head  int
	count int
}

func newSampleHistory(size int) *sampleHistory {
	if size <= 0 {
		size = defaultHistorySize
	}
	return &sampleHistory{buf: make([]models.TelemetrySample, size)}
}

func (h *sampleHistory) add(s models.TelemetrySample) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// samples returns the retained samples, oldest first.
func (h *sampleHistory) samples() []models.TelemetrySample {
	out := make([]models.TelemetrySample, 0, h.count)
	start := (h.head - h.count + len(h.buf)) % len(h.buf)
	for i := 0; i < h.count; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}

func (h *sampleHistory) latest() (models.TelemetrySample, bool) {
	if h.count == 0 {
		return models.TelemetrySample{}, false
	}
	return h.buf[(h.head-1+len(h.buf))%len(h.buf)], true
}

func (h *sampleHistory) len() int { return h.count }
