// Package eventqueue implements the sole scheduler of the simulator: a
// monotonic priority queue of (time, callback, payload) triples that drives
// all time advance. Nothing outside this package advances simulated time.
package eventqueue

import (
	"container/heap"
	"fmt"

	"github.com/iti/netanalytical/common"
)

// Callback is invoked when its scheduled event fires. payload is whatever
// opaque value was passed to Schedule; callbacks cast it to the type they
// expect.
type Callback func(payload any)

// event is one entry in the heap. seq is a strictly increasing counter used
// to break ties between events scheduled for the same EventTime, giving
// FIFO ordering among equal-time events.
type event struct {
	time     common.EventTime
	seq      uint64
	callback Callback
	payload  any
}

// EventQueue is a min-heap keyed by EventTime with FIFO tie-breaking. It
// owns no domain state of its own.
type EventQueue struct {
	heap        eventHeap
	currentTime common.EventTime
	nextSeq     uint64
}

// New returns an empty EventQueue with current time 0.
func New() *EventQueue {
	eq := &EventQueue{}
	heap.Init(&eq.heap)
	return eq
}

// Schedule enqueues callback to fire at the given absolute time, carrying
// payload. Scheduling an event in the past is a programming error.
func (eq *EventQueue) Schedule(time common.EventTime, callback Callback, payload any) {
	if time < eq.currentTime {
		panic(fmt.Sprintf("eventqueue: schedule time %d precedes current time %d", time, eq.currentTime))
	}
	heap.Push(&eq.heap, event{time: time, seq: eq.nextSeq, callback: callback, payload: payload})
	eq.nextSeq++
}

// Proceed pops and fires the single earliest-scheduled event, advancing
// CurrentTime to its time. It panics if the queue is empty.
func (eq *EventQueue) Proceed() {
	if eq.Finished() {
		panic("eventqueue: proceed called on an empty queue")
	}
	ev := heap.Pop(&eq.heap).(event)
	eq.currentTime = ev.time
	ev.callback(ev.payload)
}

// Finished reports whether the queue holds no pending events.
func (eq *EventQueue) Finished() bool {
	return eq.heap.Len() == 0
}

// CurrentTime returns the time of the most recently fired event (or 0
// before the first call to Proceed).
func (eq *EventQueue) CurrentTime() common.EventTime {
	return eq.currentTime
}

// Run drains the queue, firing every event in time order. It is a
// convenience wrapper for simulations that have no reason to single-step.
func (eq *EventQueue) Run() {
	for !eq.Finished() {
		eq.Proceed()
	}
}

// eventHeap implements container/heap.Interface, ordering by (time, seq).
type eventHeap []event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
