// Package bridge wires the long-lived subsystems together: command frames
// drive the gateway, gateway events are marshaled through the work dispatcher
// onto one goroutine, and audio state changes start and stop the pacing
// engine.
package bridge

import (
	"io"
	"log"

	"github.com/pgiacalo/TheIntercom/internal/audio"
	"github.com/pgiacalo/TheIntercom/internal/command"
	"github.com/pgiacalo/TheIntercom/internal/config"
	"github.com/pgiacalo/TheIntercom/internal/dispatch"
	"github.com/pgiacalo/TheIntercom/internal/gateway"
)

// Bridge owns the dispatcher, the pacing engine, the gateway and the command
// path. All gateway events funnel through the dispatcher, so the event
// handler never races the stack goroutines that report them.
type Bridge struct {
	Dispatcher *dispatch.Dispatcher
	Engine     *audio.Engine
	Gateway    gateway.Gateway
	Router     *command.Router
	Peer       gateway.Addr
}

// transportNotifier adapts the gateway side of the audio link. The loopback
// gateway has no SCO consumer, so data-ready is a no-op there; a real stack
// binding would kick its outgoing-data path here.
type transportNotifier struct{}

func (transportNotifier) OutgoingDataReady() {}

// New builds a bridge from configuration, using the loopback gateway. out
// receives command diagnostics; pass nil for stdout.
func New(cfg config.Config, out io.Writer) (*Bridge, error) {
	peer, err := gateway.ParseAddr(cfg.PeerAddr)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		Dispatcher: dispatch.New(cfg.DispatchDepth),
		Engine:     audio.NewEngine(cfg.RingCapacity, transportNotifier{}),
		Peer:       peer,
	}
	b.Gateway = gateway.NewLoopback(b.onGatewayEvent, cfg.Wideband)
	b.Router = command.NewRouter(b.Gateway, peer, out)
	return b, nil
}

// NewParser returns a fresh frame parser bound to the bridge's router. Each
// input stream (serial port, websocket connection) gets its own parser since
// parser state is single-threaded.
func (b *Bridge) NewParser() *command.Parser {
	return command.NewParser(b.Router.HandleFrame)
}

// Start launches the dispatcher worker and announces the stack-up event
// through it, mirroring how the stack bring-up is sequenced onto the worker.
func (b *Bridge) Start() error {
	b.Dispatcher.Start()
	return b.Dispatcher.Dispatch(b.handleEvent, gateway.EvtStackUp, nil, nil)
}

// Shutdown stops the audio pipeline, then the dispatcher.
func (b *Bridge) Shutdown() {
	b.Engine.Stop()
	b.Dispatcher.Shutdown()
}

// onGatewayEvent runs on whichever goroutine the gateway reports from; it
// only marshals the event onto the dispatcher. Enqueue failure drops the
// event with a log line.
func (b *Bridge) onGatewayEvent(event uint16, params []byte) {
	if err := b.Dispatcher.Dispatch(b.handleEvent, event, params, nil); err != nil {
		log.Printf("bridge: dropping gateway event %d: %v", event, err)
	}
}

// handleEvent runs on the dispatcher worker.
func (b *Bridge) handleEvent(event uint16, params []byte) {
	switch event {
	case gateway.EvtStackUp:
		log.Printf("bridge: stack up, peer %s", b.Peer)

	case gateway.EvtConnectionState:
		state, peer, ok := gateway.DecodeConnectionState(params)
		if !ok {
			log.Printf("bridge: malformed connection state event")
			return
		}
		log.Printf("bridge: connection state %s, peer %s", state, peer)

	case gateway.EvtAudioState:
		state, ok := gateway.DecodeAudioState(params)
		if !ok {
			log.Printf("bridge: malformed audio state event")
			return
		}
		log.Printf("bridge: audio state %s", state)
		switch state {
		case gateway.AudioConnected:
			b.Engine.Start(audio.CodecCVSD)
		case gateway.AudioConnectedMSBC:
			b.Engine.Start(audio.CodecMSBC)
		case gateway.AudioDisconnected:
			b.Engine.Stop()
		}

	default:
		log.Printf("bridge: unhandled event %d", event)
	}
}
