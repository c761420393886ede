package audio

import (
	"log"
	"sync"
	"time"
)

// Transport is the external audio link the engine feeds. OutgoingDataReady is
// called after production whenever at least one block is buffered for pull.
type Transport interface {
	OutgoingDataReady()
}

// speedWindow is how much incoming time accumulates before a throughput line
// is logged.
const speedWindow = 3 * time.Second

// Engine produces fixed-duration PCM blocks into the ring buffer on a timer
// cadence and services the transport's pull/push callbacks. One engine exists
// per bridge; Start/Stop follow the audio connection lifecycle.
type Engine struct {
	transport Transport
	ringCap   int
	now       func() time.Time

	mu         sync.Mutex
	running    bool
	codec      Codec
	ring       *RingBuffer
	wake       chan struct{}
	stop       chan struct{}
	done       chan struct{}
	tickerStop chan struct{}
	tickerDone chan struct{}
	lastEnter  time.Time
	sine       sineSource

	inMu    sync.Mutex
	inBytes int64
	inSince time.Time
}

// NewEngine returns a stopped engine. ringCapacity <= 0 selects the default.
func NewEngine(ringCapacity int, transport Transport) *Engine {
	return &Engine{
		transport: transport,
		ringCap:   ringCapacity,
		now:       time.Now,
	}
}

// Start brings up the production pipeline for the given codec: ring buffer,
// wake signal, generation goroutine, then the periodic timer. Calling Start
// on a running engine restarts it with the new codec.
func (e *Engine) Start(codec Codec) {
	e.Stop()

	e.mu.Lock()
	e.codec = codec
	e.ring = NewRingBuffer(e.ringCap)
	e.wake = make(chan struct{}, 1)
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.tickerStop = make(chan struct{})
	e.tickerDone = make(chan struct{})
	e.lastEnter = e.now()
	e.sine = sineSource{}
	e.running = true
	e.mu.Unlock()

	go e.run()
	go e.tick()
	log.Printf("audio: pacing started, codec %s (%d bytes/block)", codec, codec.BlockBytes())
}

// Stop tears the pipeline down in strict order: timer first so no further
// wake is delivered, then the generation goroutine, then the wake channel and
// the ring buffer.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	tickerStop, tickerDone := e.tickerStop, e.tickerDone
	stop, done := e.stop, e.done
	e.mu.Unlock()

	close(tickerStop)
	<-tickerDone
	close(stop)
	<-done

	e.mu.Lock()
	e.wake = nil
	e.ring = nil
	e.mu.Unlock()
	log.Printf("audio: pacing stopped")
}

// tick forwards the periodic timer to the wake signal. The send never blocks:
// a wake already pending absorbs the tick, like a binary semaphore.
func (e *Engine) tick() {
	defer close(e.tickerDone)
	ticker := time.NewTicker(GeneratorTick)
	defer ticker.Stop()
	for {
		select {
		case <-e.tickerStop:
			return
		case <-ticker.C:
			select {
			case e.wake <- struct{}{}:
			default:
			}
		}
	}
}

// run is the generation goroutine: blocks on the wake signal, then produces
// whatever whole blocks of real time have elapsed.
func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case <-e.stop:
			return
		case <-e.wake:
			e.generate()
		}
	}
}

// generate converts elapsed time into whole audio blocks, synthesizes them
// and pushes into the ring. The production clock only advances by consumed
// whole blocks, so fractional remainders carry into the next wake. A full
// ring drops the freshly generated block: blocking here would stall the
// timer cadence. Returns bytes produced.
func (e *Engine) generate() int {
	now := e.now()
	blocks := int(now.Sub(e.lastEnter) / BlockDuration)
	if blocks == 0 {
		return 0
	}
	blockBytes := e.codec.BlockBytes()
	n := blocks * blockBytes
	e.lastEnter = e.lastEnter.Add(time.Duration(blocks) * BlockDuration)

	buf := make([]byte, n)
	e.sine.fill(buf)
	if !e.ring.Write(buf) {
		log.Printf("audio: ring full, dropped %d bytes", n)
		return n
	}
	if e.ring.Len() >= blockBytes && e.transport != nil {
		e.transport.OutgoingDataReady()
	}
	return n
}

// Pull removes and returns exactly n bytes of outgoing audio, or nil when
// fewer than n are buffered (the transport treats that as "try later").
func (e *Engine) Pull(n int) []byte {
	e.mu.Lock()
	ring := e.ring
	e.mu.Unlock()
	if ring == nil {
		return nil
	}
	return ring.Read(n)
}

// PushIncoming accepts audio delivered by the transport. The bytes are only
// counted for a periodic throughput log; nothing downstream consumes them.
func (e *Engine) PushIncoming(p []byte) {
	e.inMu.Lock()
	defer e.inMu.Unlock()
	now := e.now()
	if e.inSince.IsZero() {
		e.inSince = now
	}
	e.inBytes += int64(len(p))
	if d := now.Sub(e.inSince); d >= speedWindow {
		log.Printf("audio: incoming speed %.3f kbit/s over %.1fs", float64(e.inBytes)*8/d.Seconds()/1000, d.Seconds())
		e.inBytes = 0
		e.inSince = now
	}
}

// Running reports whether the pipeline is up.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Codec reports the active codec; meaningful only while running.
func (e *Engine) Codec() Codec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.codec
}

// Occupancy reports current ring occupancy in bytes, for diagnostics.
func (e *Engine) Occupancy() int {
	e.mu.Lock()
	ring := e.ring
	e.mu.Unlock()
	if ring == nil {
		return 0
	}
	return ring.Len()
}
