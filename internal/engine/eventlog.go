package engine

import (
	"github.com/miradorstack/mirador-twin/internal/models"
)

const defaultEventLogSize = 1000

// eventLog is an append-only, bounded sequence of events. Once full, the
// oldest entry is dropped for every append.
type eventLog struct {
	entries []models.Event
	maxSize int
	nextSeq uint64
}

func newEventLog(maxSize int) *eventLog {
	if maxSize <= 0 {
		maxSize = defaultEventLogSize
	}
	return &eventLog{maxSize: maxSize, nextSeq: 1}
}

func (l *eventLog) append(ev models.Event) models.Event {
	ev.Seq = l.nextSeq
	l.nextSeq++
	l.entries = append(l.entries, ev)
	if len(l.entries) > l.maxSize {
		// Drop oldest entry to bound memory.
		copy(l.entries[0:], l.entries[1:])
		l.entries = l.entries[:l.maxSize]
	}
	return ev
}

func (l *eventLog) all() []models.Event {
	return append([]models.Event(nil), l.entries...)
}

func (l *eventLog) recent(n int) []models.Event {
	if n <= 0 || n >= len(l.entries) {
		return l.all()
	}
	return append([]models.Event(nil), l.entries[len(l.entries)-n:]...)
}

// since returns events with a sequence number greater than seq.
func (l *eventLog) since(seq uint64) []models.Event {
	for i, ev := range l.entries {
		if ev.Seq > seq {
			return append([]models.Event(nil), l.entries[i:]...)
		}
	}
	return nil
}

func (l *eventLog) count() int { return len(l.entries) }

// clear empties the log; sequence numbers keep increasing so cursors held by
// observers never see a reused value.
func (l *eventLog) clear() {
	l.entries = nil
}
