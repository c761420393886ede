// Package monitor republishes the gateway's outgoing SCO audio over WebRTC so
// an operator can hear what the bridge is feeding the voice link.
package monitor

import (
	"sync"
	"time"

	"github.com/hraban/opus"
	"github.com/pion/webrtc/v3/pkg/media"

	"github.com/pgiacalo/TheIntercom/internal/audio"
)

// Source supplies outgoing audio from the pacing engine's pull side.
type Source interface {
	Pull(n int) []byte
	Codec() audio.Codec
	Running() bool
}

// sampleWriter is the slice of the WebRTC track the writer needs.
type sampleWriter interface {
	WriteSample(s media.Sample) error
}

// PCMMonitor drains the source block by block, upsamples to 48kHz mono,
// encodes Opus and writes 20ms frames paced to a WebRTC track.
type PCMMonitor struct {
	enc    *opus.Encoder
	track  sampleWriter
	src    Source
	pcmBuf []int16
	frames chan []byte

	stopCh  chan struct{}
	stopped bool
	mu      sync.Mutex
}

const (
	monitorRate  = 48000
	frameSamples = 960 // 20ms at 48kHz
)

// NewPCMMonitor constructs a monitor and starts its pull and pacing loops.
func NewPCMMonitor(track sampleWriter, src Source) (*PCMMonitor, error) {
	enc, err := opus.NewEncoder(monitorRate, 1, opus.AppVoIP)
	if err != nil {
		return nil, err
	}
	w := &PCMMonitor{
		enc:    enc,
		track:  track,
		src:    src,
		frames: make(chan []byte, 64),
		stopCh: make(chan struct{}),
	}
	go w.pullLoop()
	go w.pacer()
	return w, nil
}

// Close stops both loops.
func (w *PCMMonitor) Close() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.stopCh)
	}
	w.mu.Unlock()
}

// pullLoop drains whole blocks from the source as they become available.
func (w *PCMMonitor) pullLoop() {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if !w.src.Running() {
				continue
			}
			codec := w.src.Codec()
			block := codec.BlockBytes()
			factor := monitorRate / codec.SampleRate()
			for {
				data := w.src.Pull(block)
				if data == nil {
					break
				}
				w.ingest(data, factor)
			}
		}
	}
}

// ingest converts little-endian PCM to 48kHz samples by repetition, then
// encodes every full 20ms frame.
func (w *PCMMonitor) ingest(pcm []byte, factor int) {
	for i := 0; i+1 < len(pcm); i += 2 {
		s := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		for j := 0; j < factor; j++ {
			w.pcmBuf = append(w.pcmBuf, s)
		}
	}
	opusBuf := make([]byte, 4000)
	for len(w.pcmBuf) >= frameSamples {
		n, err := w.enc.Encode(w.pcmBuf[:frameSamples], opusBuf)
		if err == nil && n > 0 {
			pkt := make([]byte, n)
			copy(pkt, opusBuf[:n])
			w.pushFrame(pkt)
		}
		copy(w.pcmBuf, w.pcmBuf[frameSamples:])
		w.pcmBuf = w.pcmBuf[:len(w.pcmBuf)-frameSamples]
	}
}

// pushFrame enqueues a frame, blocking until space is available or stopped.
func (w *PCMMonitor) pushFrame(pkt []byte) {
	select {
	case <-w.stopCh:
	case w.frames <- pkt:
	}
}

func (w *PCMMonitor) pacer() {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			select {
			case frame := <-w.frames:
				_ = w.track.WriteSample(media.Sample{Data: frame, Duration: 20 * time.Millisecond})
			default:
			}
		}
	}
}
