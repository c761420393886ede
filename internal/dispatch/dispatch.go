package dispatch

import (
	"errors"
	"sync"
	"time"
)

// Callback runs on the worker goroutine with the event code and the message's
// owned parameter buffer. The buffer is released after the call returns and
// must not be retained.
type Callback func(event uint16, params []byte)

// CopyFunc lets a caller finish a deep copy after the shallow byte copy has
// been made. dst is the dispatcher-owned copy, src the caller's buffer.
type CopyFunc func(dst, src []byte)

var (
	// ErrQueueFull is returned when the queue stays full past the enqueue timeout.
	ErrQueueFull = errors.New("dispatch: queue full")
	// ErrClosed is returned once Shutdown has begun.
	ErrClosed = errors.New("dispatch: dispatcher closed")
)

// enqueueTimeout bounds how long Dispatch waits on a full queue.
const enqueueTimeout = 10 * time.Millisecond

// message carries one callback invocation. params is owned by the dispatcher
// from enqueue until the callback returns.
type message struct {
	event  uint16
	cb     Callback
	params []byte
}

// Dispatcher serializes callback work onto a single worker goroutine. Stack
// and I/O goroutines enqueue; only the worker runs handler logic, so handlers
// need no locking against each other. Messages are delivered strictly FIFO.
type Dispatcher struct {
	queue chan message
	stop  chan struct{}
	done  chan struct{}

	once sync.Once
}

// New returns a dispatcher with the given queue depth. Call Start before
// dispatching.
func New(depth int) *Dispatcher {
	if depth <= 0 {
		depth = 10
	}
	return &Dispatcher{
		queue: make(chan message, depth),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go d.worker()
}

// Dispatch copies params into an owned buffer, applies the optional deep-copy
// hook, and enqueues the message, waiting a bounded time if the queue is full.
// The caller may reuse its buffer immediately after Dispatch returns.
//
// Failures are non-fatal; callers decide whether to log and drop.
func (d *Dispatcher) Dispatch(cb Callback, event uint16, params []byte, deep CopyFunc) error {
	msg := message{event: event, cb: cb}
	if len(params) > 0 {
		msg.params = make([]byte, len(params))
		copy(msg.params, params)
		if deep != nil {
			deep(msg.params, params)
		}
	}

	timer := time.NewTimer(enqueueTimeout)
	defer timer.Stop()
	select {
	case <-d.stop:
		return ErrClosed
	case d.queue <- msg:
		return nil
	case <-timer.C:
		return ErrQueueFull
	}
}

// Depth reports the number of queued messages, for diagnostics.
func (d *Dispatcher) Depth() int { return len(d.queue) }

func (d *Dispatcher) worker() {
	defer close(d.done)
	for {
		select {
		case <-d.stop:
			return
		case msg := <-d.queue:
			if msg.cb != nil {
				msg.cb(msg.event, msg.params)
			}
			// ownership ends here; nothing may hold msg.params past this point
			msg.params = nil
		}
	}
}

// Shutdown stops the worker first, waits for it to exit, then drains the
// queue. The order matters: the queue may not go away while the worker could
// still be reading it.
func (d *Dispatcher) Shutdown() {
	d.once.Do(func() {
		close(d.stop)
		<-d.done
		for {
			select {
			case <-d.queue:
			default:
				return
			}
		}
	})
}
