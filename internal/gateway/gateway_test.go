package gateway

import "testing"

func TestParseAddr(t *testing.T) {
	a, err := ParseAddr("aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.String() != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("roundtrip = %s", a)
	}
	if _, err := ParseAddr("aa:bb:cc"); err == nil {
		t.Fatalf("expected error for short address")
	}
	if _, err := ParseAddr("zz:bb:cc:dd:ee:ff"); err == nil {
		t.Fatalf("expected error for non-hex address")
	}
}

func TestEventCodecs(t *testing.T) {
	s, ok := DecodeAudioState(EncodeAudioState(AudioConnectedMSBC))
	if !ok || s != AudioConnectedMSBC {
		t.Fatalf("audio state roundtrip = %v %v", s, ok)
	}
	if _, ok := DecodeAudioState([]byte{1, 2}); ok {
		t.Fatalf("expected failure on wrong length")
	}

	peer := Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	cs, p, ok := DecodeConnectionState(EncodeConnectionState(ConnSlcConnected, peer))
	if !ok || cs != ConnSlcConnected || p != peer {
		t.Fatalf("connection state roundtrip = %v %v %v", cs, p, ok)
	}
}

func TestLoopback_AudioConnectEmitsState(t *testing.T) {
	var events []uint16
	var payloads [][]byte
	lb := NewLoopback(func(e uint16, params []byte) {
		events = append(events, e)
		payloads = append(payloads, params)
	}, true)

	peer := Addr{1, 2, 3, 4, 5, 6}
	if err := lb.AudioConnect(peer); err != nil {
		t.Fatalf("audio connect: %v", err)
	}
	if len(events) != 1 || events[0] != EvtAudioState {
		t.Fatalf("events = %v", events)
	}
	s, ok := DecodeAudioState(payloads[0])
	if !ok || s != AudioConnectedMSBC {
		t.Fatalf("wideband loopback should report mSBC, got %v", s)
	}
	if _, audio := lb.States(); audio != AudioConnectedMSBC {
		t.Fatalf("state not tracked")
	}
}
