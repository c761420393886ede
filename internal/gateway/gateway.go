// Package gateway defines the audio-gateway action API the command handlers
// invoke, the event stream the gateway reports back, and a loopback
// implementation that lets the bridge run without a Bluetooth stack.
package gateway

import (
	"fmt"
	"strings"
)

// Addr is a Bluetooth device address.
type Addr [6]byte

func (a Addr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// ParseAddr parses a colon-separated hex address like "aa:bb:cc:dd:ee:ff".
func ParseAddr(s string) (Addr, error) {
	var a Addr
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 6 {
		return a, fmt.Errorf("gateway: bad address %q", s)
	}
	for i, p := range parts {
		var b byte
		if _, err := fmt.Sscanf(p, "%02x", &b); err != nil {
			return a, fmt.Errorf("gateway: bad address %q: %v", s, err)
		}
		a[i] = b
	}
	return a, nil
}

// VolumeTarget selects which gain a volume update applies to.
type VolumeTarget int

const (
	VolumeTargetSpeaker VolumeTarget = iota
	VolumeTargetMic
)

var volumeTargetStr = []string{"SPEAKER", "MICROPHONE"}

func (t VolumeTarget) String() string {
	if t < 0 || int(t) >= len(volumeTargetStr) {
		return "UNKNOWN"
	}
	return volumeTargetStr[t]
}

// ConnectionState tracks the service-level connection with the peer.
type ConnectionState int

const (
	ConnDisconnected ConnectionState = iota
	ConnConnecting
	ConnConnected
	ConnSlcConnected
	ConnDisconnecting
)

var connectionStateStr = []string{"DISCONNECTED", "CONNECTING", "CONNECTED", "SLC_CONNECTED", "DISCONNECTING"}

func (s ConnectionState) String() string {
	if s < 0 || int(s) >= len(connectionStateStr) {
		return "UNKNOWN"
	}
	return connectionStateStr[s]
}

// AudioState tracks the synchronous voice-audio channel.
type AudioState int

const (
	AudioDisconnected AudioState = iota
	AudioConnecting
	AudioConnected
	AudioConnectedMSBC
)

var audioStateStr = []string{"disconnected", "connecting", "connected", "connected_msbc"}

func (s AudioState) String() string {
	if s < 0 || int(s) >= len(audioStateStr) {
		return "unknown"
	}
	return audioStateStr[s]
}

// IndType names a device status indicator reported with CievReport.
type IndType int

const (
	IndCall IndType = iota + 1
	IndCallSetup
	IndService
	IndSignal
)

var indTypeStr = map[IndType]string{
	IndCall:      "call",
	IndCallSetup: "callsetup",
	IndService:   "service",
	IndSignal:    "signal",
}

func (t IndType) String() string {
	if s, ok := indTypeStr[t]; ok {
		return s
	}
	return "unknown"
}

// Gateway is the audio-gateway action API. A real implementation fronts a
// Bluetooth HFP stack; Loopback stands in for development and tests.
type Gateway interface {
	SlcConnect(peer Addr) error
	SlcDisconnect(peer Addr) error
	AudioConnect(peer Addr) error
	AudioDisconnect(peer Addr) error
	VolumeControl(peer Addr, target VolumeTarget, volume int) error
	CievReport(peer Addr, ind IndType, value int) error
	VraControl(peer Addr, on bool) error
	CmeeSend(peer Addr, response, cme int) error
	Bsir(peer Addr, provided bool) error
	AnswerCall(peer Addr, number string) error
	RejectCall(peer Addr, number string) error
	EndCall(peer Addr, number string) error
	OutCall(peer Addr, number string) error
}

// Event codes reported by the gateway. Parameters travel as small encoded
// buffers through the work dispatcher; see the Encode/Decode helpers.
const (
	EvtStackUp uint16 = iota
	EvtConnectionState
	EvtAudioState
)

// EventFunc receives gateway events. Implementations typically marshal the
// event onto the work dispatcher rather than acting in place.
type EventFunc func(event uint16, params []byte)

// EncodeAudioState packs an audio state change for dispatch.
func EncodeAudioState(s AudioState) []byte { return []byte{byte(s)} }

// DecodeAudioState unpacks an EvtAudioState parameter buffer.
func DecodeAudioState(params []byte) (AudioState, bool) {
	if len(params) != 1 {
		return AudioDisconnected, false
	}
	return AudioState(params[0]), true
}

// EncodeConnectionState packs a connection state change for dispatch.
func EncodeConnectionState(s ConnectionState, peer Addr) []byte {
	out := make([]byte, 7)
	out[0] = byte(s)
	copy(out[1:], peer[:])
	return out
}

// DecodeConnectionState unpacks an EvtConnectionState parameter buffer.
func DecodeConnectionState(params []byte) (ConnectionState, Addr, bool) {
	var peer Addr
	if len(params) != 7 {
		return ConnDisconnected, peer, false
	}
	copy(peer[:], params[1:])
	return ConnectionState(params[0]), peer, true
}
