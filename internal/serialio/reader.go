// Package serialio feeds bytes from the serial control link into the command
// frame parser.
package serialio

import (
	"context"
	"io"
	"log"

	"go.bug.st/serial"

	"github.com/pgiacalo/TheIntercom/internal/command"
)

// Open opens the named serial port at the given baud rate with 8N1 framing.
func Open(portName string, baud int) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(portName, mode)
}

// FeedLoop reads r until it fails or ctx is done, driving the parser one byte
// at a time. Header-undetected bytes are inter-frame noise and stay silent;
// sync failures and overflows are logged, then the parser resynchronizes on
// its own. Returns nil on EOF.
func FeedLoop(ctx context.Context, r io.Reader, p *command.Parser) error {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			switch p.Feed(buf[i]) {
			case command.ParseHeaderSyncFailed:
				log.Printf("serialio: header sync lost, resynchronizing")
			case command.ParseBufferOverflow:
				log.Printf("serialio: frame too long, discarded")
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
