package dispatch

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestDispatch_FIFOOrder(t *testing.T) {
	d := New(64)
	d.Start()
	defer d.Shutdown()

	var mu sync.Mutex
	var got []uint16
	done := make(chan struct{})
	cb := func(event uint16, _ []byte) {
		mu.Lock()
		got = append(got, event)
		if len(got) == 50 {
			close(done)
		}
		mu.Unlock()
	}

	for i := 0; i < 50; i++ {
		if err := d.Dispatch(cb, uint16(i), nil, nil); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for callbacks")
	}
	mu.Lock()
	defer mu.Unlock()
	for i, e := range got {
		if e != uint16(i) {
			t.Fatalf("order broken at %d: got event %d", i, e)
		}
	}
}

func TestDispatch_ParamsCopiedAtEnqueue(t *testing.T) {
	d := New(4)
	d.Start()
	defer d.Shutdown()

	src := []byte{1, 2, 3, 4}
	want := []byte{1, 2, 3, 4}
	got := make(chan []byte, 1)
	if err := d.Dispatch(func(_ uint16, params []byte) {
		cp := make([]byte, len(params))
		copy(cp, params)
		got <- cp
	}, 7, src, nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	// mutate the caller's buffer after enqueue; the worker must not see it
	src[0] = 99

	select {
	case p := <-got:
		if !bytes.Equal(p, want) {
			t.Fatalf("params = %v, want %v", p, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("callback never ran")
	}
}

func TestDispatch_DeepCopyHook(t *testing.T) {
	d := New(4)
	d.Start()
	defer d.Shutdown()

	called := false
	deep := func(dst, src []byte) {
		called = true
		dst[0] = src[0] + 1
	}
	got := make(chan byte, 1)
	if err := d.Dispatch(func(_ uint16, params []byte) { got <- params[0] }, 0, []byte{10}, deep); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	select {
	case b := <-got:
		if !called || b != 11 {
			t.Fatalf("deep copy not applied: called=%v b=%d", called, b)
		}
	case <-time.After(time.Second):
		t.Fatalf("callback never ran")
	}
}

func TestDispatch_QueueFull(t *testing.T) {
	d := New(1)
	// worker not started, so the queue cannot drain
	if err := d.Dispatch(func(uint16, []byte) {}, 0, nil, nil); err != nil {
		t.Fatalf("first dispatch should fit: %v", err)
	}
	if err := d.Dispatch(func(uint16, []byte) {}, 1, nil, nil); err != ErrQueueFull {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
}

func TestDispatch_AfterShutdown(t *testing.T) {
	d := New(4)
	d.Start()
	d.Shutdown()
	if err := d.Dispatch(func(uint16, []byte) {}, 0, nil, nil); err != ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	// Shutdown is idempotent
	d.Shutdown()
}
