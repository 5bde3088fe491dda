package host

import "github.com/nf/ch8/runloop"

// Queue carries events to the window goroutine.
type Queue chan runloop.Event

func newQueue() Queue { return make(Queue, 64) }

// Post queues e, blocking while the queue is full.
func (q Queue) Post(e runloop.Event) { q <- e }
