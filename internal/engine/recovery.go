package engine

import (
	"container/heap"
	"time"
)

// scheduledRecovery is a one-shot recovery requested at injection time.
type scheduledRecovery struct {
	nodeID   string
	fireTick int64
	order    uint64
}

// recoveryQueue is a min-heap of scheduled recoveries keyed by fire tick,
// ties broken by scheduling order.
type recoveryQueue []scheduledRecovery

func (q recoveryQueue) Len() int { return len(q) }

func (q recoveryQueue) Less(i, j int) bool {
	if q[i].fireTick == q[j].fireTick {
		return q[i].order < q[j].order
	}
	return q[i].fireTick < q[j].fireTick
}

func (q recoveryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *recoveryQueue) Push(x any) { *q = append(*q, x.(scheduledRecovery)) }

func (q *recoveryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type recoveryScheduler struct {
	queue recoveryQueue
	seq   uint64
}

func (s *recoveryScheduler) schedule(nodeID string, fireTick int64) {
	s.seq++
	heap.Push(&s.queue, scheduledRecovery{nodeID: nodeID, fireTick: fireTick, order: s.seq})
}

// due pops every entry whose fire tick is at or before tick, in firing order.
func (s *recoveryScheduler) due(tick int64) []string {
	var nodes []string
	for s.queue.Len() > 0 && s.queue[0].fireTick <= tick {
		item := heap.Pop(&s.queue).(scheduledRecovery)
		nodes = append(nodes, item.nodeID)
	}
	return nodes
}

func (s *recoveryScheduler) pending() int { return s.queue.Len() }

func (s *recoveryScheduler) clear() {
	s.queue = nil
}

// scheduleRecovery queues a one-shot recovery duration from now in simulated time.
func (e *Engine) scheduleRecovery(id string, duration time.Duration) {
	ticks := e.durationTicks(duration)
	if ticks == 0 {
		return
	}
	e.recovery.schedule(id, e.tick+ticks)
}

// runRecovery fires due scheduled recoveries, then gives every node that has
// been down past the threshold a chance to self-heal.
func (e *Engine) runRecovery() {
	for _, id := range e.recovery.due(e.tick) {
		e.recover(id, "scheduled recovery")
	}
	if e.opts.DisableAutoRecovery {
		return
	}

	threshold := e.durationTicks(e.opts.RecoveryThreshold)
	for _, node := range e.graph.nodes {
		st := e.store.state(node.ID)
		if st.record.Health != 0 {
			continue
		}
		if e.tick-st.downSince <= threshold {
			continue
		}
		if e.rng.Float64() < e.opts.RecoveryProbability {
			e.recover(node.ID, "auto recovery")
		}
	}
}
