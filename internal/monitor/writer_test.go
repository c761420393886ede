package monitor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pion/webrtc/v3/pkg/media"

	"github.com/pgiacalo/TheIntercom/internal/audio"
)

type fakeTrack struct{ writes int32 }

func (f *fakeTrack) WriteSample(s media.Sample) error {
	atomic.AddInt32(&f.writes, 1)
	return nil
}

func TestPCMMonitor_PacerWritesFrames(t *testing.T) {
	ft := &fakeTrack{}
	w := &PCMMonitor{
		enc:    nil, // encoder not needed for this test
		track:  ft,
		frames: make(chan []byte, 8),
		stopCh: make(chan struct{}),
	}
	done := make(chan struct{})
	go func() { w.pacer(); close(done) }()

	for i := 0; i < 3; i++ {
		w.pushFrame([]byte{0x01, 0x02})
	}

	time.Sleep(60 * time.Millisecond)
	close(w.stopCh)
	<-done

	if atomic.LoadInt32(&ft.writes) == 0 {
		t.Fatalf("expected pacer to write at least one frame")
	}
}

func TestPCMMonitor_IngestUpsamples(t *testing.T) {
	w := &PCMMonitor{frames: make(chan []byte, 8), stopCh: make(chan struct{})}
	// 2 narrowband samples, factor 6: 12 samples at 48k, below one frame, so
	// nothing is encoded (encoder is nil and must not be reached)
	w.ingest([]byte{0x01, 0x00, 0x02, 0x00}, 48000/audio.CodecCVSD.SampleRate())
	if len(w.pcmBuf) != 12 {
		t.Fatalf("pcmBuf = %d samples, want 12", len(w.pcmBuf))
	}
	for i := 0; i < 6; i++ {
		if w.pcmBuf[i] != 1 || w.pcmBuf[6+i] != 2 {
			t.Fatalf("upsample broken at %d: %v", i, w.pcmBuf[:12])
		}
	}
}
