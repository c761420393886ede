package serialio

import (
	"context"
	"strings"
	"testing"

	"github.com/pgiacalo/TheIntercom/internal/command"
)

func TestFeedLoop_DeliversFramesFromStream(t *testing.T) {
	var frames []string
	p := command.NewParser(func(frame []byte) { frames = append(frames, string(frame)) })

	// noise between frames, a broken header, then two valid frames
	stream := "garbage hx hf con; junk hf vu 0 7;"
	if err := FeedLoop(context.Background(), strings.NewReader(stream), p); err != nil {
		t.Fatalf("feed loop: %v", err)
	}
	if len(frames) != 2 || frames[0] != "hf con;" || frames[1] != "hf vu 0 7;" {
		t.Fatalf("frames = %v", frames)
	}
}

func TestFeedLoop_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := command.NewParser(nil)
	if err := FeedLoop(ctx, strings.NewReader("hf con;"), p); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
