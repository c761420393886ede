package command

import (
	"fmt"
	"io"
	"os"

	"github.com/pgiacalo/TheIntercom/internal/gateway"
)

// Handler executes one command. It validates its own argument count and value
// ranges, prints a diagnostic on failure, and returns non-zero status instead
// of crashing.
type Handler func(args []string) int

// tableEntry maps a literal command string to its handler. The table is built
// once and never mutated.
type tableEntry struct {
	id  int
	cmd string
	h   Handler
}

// Router turns completed command frames into gateway actions.
type Router struct {
	gw   gateway.Gateway
	peer gateway.Addr
	out  io.Writer
	tbl  []tableEntry
}

// NewRouter builds the command table against the given gateway and peer
// address. Diagnostics go to out; pass nil for stdout.
func NewRouter(gw gateway.Gateway, peer gateway.Addr, out io.Writer) *Router {
	if out == nil {
		out = os.Stdout
	}
	r := &Router{gw: gw, peer: peer, out: out}
	r.tbl = []tableEntry{
		{0, "h", r.help},
		{5, "con", r.conn},
		{10, "dis", r.disc},
		{20, "cona", r.connAudio},
		{30, "disa", r.discAudio},
		{40, "vu", r.volumeUpdate},
		{50, "ind", r.indChange},
		{60, "vron", r.vraOn},
		{70, "vroff", r.vraOff},
		{80, "ate", r.cmeError},
		{90, "iron", r.inbandRingOn},
		{100, "iroff", r.inbandRingOff},
		{110, "ac", r.answerCall},
		{120, "rc", r.rejectCall},
		{130, "end", r.endCall},
		{140, "d", r.dial},
	}
	return r
}

// HandleFrame consumes one complete frame (header and tail included), splits
// the payload into arguments and invokes the matching handler. Unknown
// commands print a notice plus the usage text; an empty payload does nothing.
func (r *Router) HandleFrame(frame []byte) {
	if len(frame) < len(FrameHeader)+1 {
		return
	}
	payload := frame[len(FrameHeader) : len(frame)-1]
	args := SplitArgs(payload)
	if len(args) == 0 {
		return
	}
	for _, e := range r.tbl {
		if e.cmd == args[0] {
			e.h(args)
			return
		}
	}
	fmt.Fprintln(r.out, "unsupported command")
	r.ShowUsage()
}

// parseIntArg parses one bounded integer argument, printing a diagnostic on
// failure.
func (r *Router) parseIntArg(name, raw string, lo, hi int) (int, bool) {
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil || v < lo || v > hi {
		fmt.Fprintf(r.out, "Invalid argument for %s %s\n", name, raw)
		return 0, false
	}
	return v, true
}

func (r *Router) help(args []string) int {
	r.ShowUsage()
	return 0
}

func (r *Router) conn(args []string) int {
	fmt.Fprintf(r.out, "Connecting to %s...\n", r.peer)
	_ = r.gw.SlcConnect(r.peer)
	fmt.Fprintln(r.out, "Connecting Audio...")
	_ = r.gw.AudioConnect(r.peer)
	return 0
}

func (r *Router) disc(args []string) int {
	fmt.Fprintf(r.out, "Disconnect %s\n", r.peer)
	_ = r.gw.SlcDisconnect(r.peer)
	return 0
}

func (r *Router) connAudio(args []string) int {
	fmt.Fprintln(r.out, "Connect Audio")
	_ = r.gw.AudioConnect(r.peer)
	return 0
}

func (r *Router) discAudio(args []string) int {
	fmt.Fprintln(r.out, "Disconnect Audio")
	_ = r.gw.AudioDisconnect(r.peer)
	return 0
}

func (r *Router) vraOn(args []string) int {
	fmt.Fprintln(r.out, "Start Voice Recognition.")
	_ = r.gw.VraControl(r.peer, true)
	return 0
}

func (r *Router) vraOff(args []string) int {
	fmt.Fprintln(r.out, "Stop Voice Recognition.")
	_ = r.gw.VraControl(r.peer, false)
	return 0
}

func (r *Router) volumeUpdate(args []string) int {
	if len(args) != 3 {
		fmt.Fprintln(r.out, "Insufficient number of arguments")
		return 1
	}
	target, ok := r.parseIntArg("target", args[1], 0, 1)
	if !ok {
		return 1
	}
	volume, ok := r.parseIntArg("volume", args[2], 0, 15)
	if !ok {
		return 1
	}
	if gateway.VolumeTarget(target) == gateway.VolumeTargetSpeaker {
		fmt.Fprintln(r.out, "Speaker Volume Update")
	} else {
		fmt.Fprintln(r.out, "Microphone Volume Update")
	}
	_ = r.gw.VolumeControl(r.peer, gateway.VolumeTarget(target), volume)
	return 0
}

func (r *Router) indChange(args []string) int {
	if len(args) != 5 {
		fmt.Fprintln(r.out, "Insufficient number of arguments")
		return 1
	}
	call, ok := r.parseIntArg("call state", args[1], 0, 1)
	if !ok {
		return 1
	}
	callSetup, ok := r.parseIntArg("callsetup state", args[2], 0, 3)
	if !ok {
		return 1
	}
	ntk, ok := r.parseIntArg("network state", args[3], 0, 1)
	if !ok {
		return 1
	}
	signal, ok := r.parseIntArg("signal", args[4], 0, 5)
	if !ok {
		return 1
	}
	fmt.Fprintln(r.out, "Device Indicator Changed!")
	_ = r.gw.CievReport(r.peer, gateway.IndCall, call)
	_ = r.gw.CievReport(r.peer, gateway.IndCallSetup, callSetup)
	_ = r.gw.CievReport(r.peer, gateway.IndService, ntk)
	_ = r.gw.CievReport(r.peer, gateway.IndSignal, signal)
	return 0
}

func (r *Router) cmeError(args []string) int {
	if len(args) != 3 {
		fmt.Fprintln(r.out, "Insufficient number of arguments")
		return 1
	}
	response, ok := r.parseIntArg("response code", args[1], 0, 7)
	if !ok {
		return 1
	}
	cme, ok := r.parseIntArg("error code", args[2], 0, 32)
	if !ok {
		return 1
	}
	fmt.Fprintln(r.out, "Send CME Error.")
	_ = r.gw.CmeeSend(r.peer, response, cme)
	return 0
}

func (r *Router) inbandRingOn(args []string) int {
	fmt.Fprintln(r.out, "In-band Ring Tone Provided.")
	_ = r.gw.Bsir(r.peer, true)
	return 0
}

func (r *Router) inbandRingOff(args []string) int {
	fmt.Fprintln(r.out, "In-band Ring Tone Not Provided.")
	_ = r.gw.Bsir(r.peer, false)
	return 0
}

func (r *Router) answerCall(args []string) int {
	fmt.Fprintln(r.out, "Answer Call from AG.")
	_ = r.gw.AnswerCall(r.peer, defaultNumber)
	return 0
}

func (r *Router) rejectCall(args []string) int {
	fmt.Fprintln(r.out, "Reject Call from AG.")
	_ = r.gw.RejectCall(r.peer, defaultNumber)
	return 0
}

func (r *Router) endCall(args []string) int {
	fmt.Fprintln(r.out, "End Call from AG.")
	_ = r.gw.EndCall(r.peer, defaultNumber)
	return 0
}

func (r *Router) dial(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "Insufficient number of arguments")
		return 1
	}
	fmt.Fprintf(r.out, "Dial number %s\n", args[1])
	_ = r.gw.OutCall(r.peer, args[1])
	return 0
}

// defaultNumber is the placeholder calling-line number reported for answered,
// rejected and ended calls, as the peer expects a number with those actions.
const defaultNumber = "123456"
