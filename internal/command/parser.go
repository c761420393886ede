// Package command implements the framed text command protocol spoken over the
// serial link: frames start with "hf " and end with ';', and their payload is
// a command name plus arguments that drive the audio gateway.
package command

// ParseResult reports what a single fed byte did to the parser.
type ParseResult int

const (
	// ParseInProgress means the byte was consumed but no frame completed.
	ParseInProgress ParseResult = iota
	// ParseOk means a complete frame was delivered to the callback.
	ParseOk
	// ParseHeaderUndetected means the byte did not start a header while idle.
	ParseHeaderUndetected
	// ParseHeaderSyncFailed means the header match broke partway through.
	ParseHeaderSyncFailed
	// ParseBufferOverflow means the payload outgrew the frame buffer.
	ParseBufferOverflow
)

func (r ParseResult) String() string {
	switch r {
	case ParseInProgress:
		return "in progress"
	case ParseOk:
		return "ok"
	case ParseHeaderUndetected:
		return "header undetected"
	case ParseHeaderSyncFailed:
		return "header sync failed"
	case ParseBufferOverflow:
		return "buffer overflow"
	}
	return "unknown"
}

const (
	// FrameHeader opens every command frame.
	FrameHeader = "hf "
	// FrameTail closes every command frame.
	FrameTail = ';'
	// MaxFrameLen bounds the accumulation buffer; longer frames are discarded.
	MaxFrameLen = 128
)

type parserState int

const (
	stateIdle parserState = iota
	stateHeader
	statePayload
)

// FrameFunc receives one complete frame, header and tail included. The slice
// is only valid for the duration of the call.
type FrameFunc func(frame []byte)

// Parser is the byte-driven frame state machine. It recovers from any
// malformed input by resetting and resynchronizing on the next header, so
// feeding a stream one byte at a time or in bulk is equivalent. Not safe for
// concurrent use; feed it from the goroutine that owns the input stream.
type Parser struct {
	state parserState
	buf   [MaxFrameLen]byte
	cnt   int
	hIdx  int
	cb    FrameFunc
}

// NewParser returns a parser that delivers completed frames to cb.
func NewParser(cb FrameFunc) *Parser {
	return &Parser{cb: cb}
}

func (p *Parser) reset() {
	p.state = stateIdle
	p.cnt = 0
	p.hIdx = 0
}

// Feed advances the state machine by one input byte.
func (p *Parser) Feed(c byte) ParseResult {
	switch p.state {
	case stateIdle:
		if c != FrameHeader[0] {
			return ParseHeaderUndetected
		}
		p.state = stateHeader
		p.buf[0] = c
		p.cnt = 1
		p.hIdx = 1

	case stateHeader:
		if c != FrameHeader[p.hIdx] {
			p.reset()
			return ParseHeaderSyncFailed
		}
		p.buf[p.cnt] = c
		p.cnt++
		p.hIdx++
		if p.hIdx == len(FrameHeader) {
			p.state = statePayload
		}

	case statePayload:
		p.buf[p.cnt] = c
		p.cnt++
		if c == FrameTail {
			if p.cb != nil {
				p.cb(p.buf[:p.cnt])
			}
			p.reset()
			return ParseOk
		}
		if p.cnt >= MaxFrameLen {
			p.reset()
			return ParseBufferOverflow
		}
	}
	return ParseInProgress
}
