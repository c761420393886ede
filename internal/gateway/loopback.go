package gateway

import (
	"log"
	"sync"
)

// Loopback is a stand-in gateway that logs every action and synthesizes the
// events a real HFP stack would report, so the whole bridge — command path,
// dispatcher, audio pacing — runs end to end without Bluetooth hardware.
type Loopback struct {
	emit     EventFunc
	wideband bool

	mu    sync.Mutex
	conn  ConnectionState
	audio AudioState
}

// NewLoopback returns a loopback gateway. When wideband is set, audio
// connections come up in mSBC mode instead of CVSD.
func NewLoopback(emit EventFunc, wideband bool) *Loopback {
	return &Loopback{emit: emit, wideband: wideband}
}

func (l *Loopback) event(event uint16, params []byte) {
	if l.emit != nil {
		l.emit(event, params)
	}
}

// States reports the current connection and audio state, for diagnostics.
func (l *Loopback) States() (ConnectionState, AudioState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn, l.audio
}

func (l *Loopback) SlcConnect(peer Addr) error {
	log.Printf("gateway: slc connect %s", peer)
	l.mu.Lock()
	l.conn = ConnSlcConnected
	l.mu.Unlock()
	l.event(EvtConnectionState, EncodeConnectionState(ConnSlcConnected, peer))
	return nil
}

func (l *Loopback) SlcDisconnect(peer Addr) error {
	log.Printf("gateway: slc disconnect %s", peer)
	l.mu.Lock()
	l.conn = ConnDisconnected
	l.mu.Unlock()
	l.event(EvtConnectionState, EncodeConnectionState(ConnDisconnected, peer))
	return nil
}

func (l *Loopback) AudioConnect(peer Addr) error {
	state := AudioConnected
	if l.wideband {
		state = AudioConnectedMSBC
	}
	log.Printf("gateway: audio connect %s (%s)", peer, state)
	l.mu.Lock()
	l.audio = state
	l.mu.Unlock()
	l.event(EvtAudioState, EncodeAudioState(state))
	return nil
}

func (l *Loopback) AudioDisconnect(peer Addr) error {
	log.Printf("gateway: audio disconnect %s", peer)
	l.mu.Lock()
	l.audio = AudioDisconnected
	l.mu.Unlock()
	l.event(EvtAudioState, EncodeAudioState(AudioDisconnected))
	return nil
}

func (l *Loopback) VolumeControl(peer Addr, target VolumeTarget, volume int) error {
	log.Printf("gateway: volume %s=%d for %s", target, volume, peer)
	return nil
}

func (l *Loopback) CievReport(peer Addr, ind IndType, value int) error {
	log.Printf("gateway: ciev %s=%d for %s", ind, value, peer)
	return nil
}

func (l *Loopback) VraControl(peer Addr, on bool) error {
	log.Printf("gateway: voice recognition on=%v for %s", on, peer)
	return nil
}

func (l *Loopback) CmeeSend(peer Addr, response, cme int) error {
	log.Printf("gateway: cmee response=%d error=%d for %s", response, cme, peer)
	return nil
}

func (l *Loopback) Bsir(peer Addr, provided bool) error {
	log.Printf("gateway: in-band ring provided=%v for %s", provided, peer)
	return nil
}

func (l *Loopback) AnswerCall(peer Addr, number string) error {
	log.Printf("gateway: answer call %q for %s", number, peer)
	return nil
}

func (l *Loopback) RejectCall(peer Addr, number string) error {
	log.Printf("gateway: reject call %q for %s", number, peer)
	return nil
}

func (l *Loopback) EndCall(peer Addr, number string) error {
	log.Printf("gateway: end call %q for %s", number, peer)
	return nil
}

func (l *Loopback) OutCall(peer Addr, number string) error {
	log.Printf("gateway: dial %q for %s", number, peer)
	return nil
}
