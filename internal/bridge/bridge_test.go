package bridge

import (
	"bytes"
	"testing"
	"time"

	"github.com/pgiacalo/TheIntercom/internal/audio"
	"github.com/pgiacalo/TheIntercom/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		PeerAddr:      "aa:bb:cc:dd:ee:ff",
		RingCapacity:  audio.DefaultRingCapacity,
		DispatchDepth: 10,
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestBridge_AudioConnectStartsPacing(t *testing.T) {
	var out bytes.Buffer
	b, err := New(testConfig(), &out)
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	if err := b.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Shutdown()

	p := b.NewParser()
	for _, c := range []byte("hf cona;") {
		p.Feed(c)
	}
	waitFor(t, b.Engine.Running, "pacing engine start")
	if b.Engine.Codec() != audio.CodecCVSD {
		t.Fatalf("codec = %s, want CVSD", b.Engine.Codec())
	}

	for _, c := range []byte("hf disa;") {
		p.Feed(c)
	}
	waitFor(t, func() bool { return !b.Engine.Running() }, "pacing engine stop")
}

func TestBridge_WidebandSelectsMSBC(t *testing.T) {
	cfg := testConfig()
	cfg.Wideband = true
	var out bytes.Buffer
	b, err := New(cfg, &out)
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	if err := b.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Shutdown()

	p := b.NewParser()
	for _, c := range []byte("hf cona;") {
		p.Feed(c)
	}
	waitFor(t, b.Engine.Running, "pacing engine start")
	if b.Engine.Codec() != audio.CodecMSBC {
		t.Fatalf("codec = %s, want mSBC", b.Engine.Codec())
	}
}

func TestBridge_BadPeerAddr(t *testing.T) {
	cfg := testConfig()
	cfg.PeerAddr = "not-an-addr"
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected error for bad peer address")
	}
}
