// Package audio paces synthetic PCM into a ring buffer in real time, sized to
// the SCO air-interface block timing, and services the transport's pull/push
// callbacks.
package audio

import "time"

// Codec selects the active voice encoding; each has its own bytes-per-block
// constant for the fixed 7.5 ms SCO block.
type Codec int

const (
	// CodecCVSD is the narrowband codec: 8 kHz, 16-bit mono.
	CodecCVSD Codec = iota
	// CodecMSBC is the wideband codec: 16 kHz, 16-bit mono.
	CodecMSBC
)

func (c Codec) String() string {
	if c == CodecMSBC {
		return "mSBC"
	}
	return "CVSD"
}

const (
	// BlockDuration is one SCO audio block: 7500 us (12 slots), aligned to one
	// mSBC frame and a multiple of common eSCO Tesco values.
	BlockDuration = 7500 * time.Microsecond

	// GeneratorTick is the period of the free-running production timer.
	GeneratorTick = 4 * time.Millisecond

	bytesPerSample = 2

	cvsdSampleRate = 8000
	msbcSampleRate = 16000

	// bytes per 7.5 ms block: rate(kHz) * 7.5ms * 2 bytes
	cvsdBlockBytes = cvsdSampleRate / 1000 * 15 / 2 * bytesPerSample // 120
	msbcBlockBytes = msbcSampleRate / 1000 * 15 / 2 * bytesPerSample // 240

	// DefaultRingCapacity holds 30 narrowband or 15 wideband blocks.
	DefaultRingCapacity = 3600
)

// BlockBytes returns the codec's PCM byte count per BlockDuration.
func (c Codec) BlockBytes() int {
	if c == CodecMSBC {
		return msbcBlockBytes
	}
	return cvsdBlockBytes
}

// SampleRate returns the codec's PCM sampling rate in Hz.
func (c Codec) SampleRate() int {
	if c == CodecMSBC {
		return msbcSampleRate
	}
	return cvsdSampleRate
}

// sineTable is one cycle of a full-scale sine, 100 samples.
var sineTable = [100]int16{
	0, 2057, 4107, 6140, 8149, 10126, 12062, 13952, 15786, 17557,
	19260, 20886, 22431, 23886, 25247, 26509, 27666, 28714, 29648, 30466,
	31163, 31738, 32187, 32509, 32702, 32767, 32702, 32509, 32187, 31738,
	31163, 30466, 29648, 28714, 27666, 26509, 25247, 23886, 22431, 20886,
	19260, 17557, 15786, 13952, 12062, 10126, 8149, 6140, 4107, 2057,
	0, -2057, -4107, -6140, -8149, -10126, -12062, -13952, -15786, -17557,
	-19260, -20886, -22431, -23886, -25247, -26509, -27666, -28714, -29648, -30466,
	-31163, -31738, -32187, -32509, -32702, -32767, -32702, -32509, -32187, -31738,
	-31163, -30466, -29648, -28714, -27666, -26509, -25247, -23886, -22431, -20886,
	-19260, -17557, -15786, -13952, -12062, -10126, -8149, -6140, -4107, -2057,
}

const sineTableBytes = len(sineTable) * bytesPerSample

// sineSource emits the repeating waveform as little-endian PCM bytes. The
// byte index persists across fills so the waveform stays continuous.
type sineSource struct {
	idx int
}

func (s *sineSource) fill(p []byte) {
	for i := range p {
		sample := sineTable[s.idx/2]
		if s.idx%2 == 0 {
			p[i] = byte(uint16(sample))
		} else {
			p[i] = byte(uint16(sample) >> 8)
		}
		s.idx++
		if s.idx >= sineTableBytes {
			s.idx -= sineTableBytes
		}
	}
}
