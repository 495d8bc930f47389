package rpc

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ohwang/neovim-ink/input"
)

// testPeer plays the editor side of the wire: it decodes frames written by
// the session and lets tests script the replies.
type testPeer struct {
	dec *msgpack.Decoder
	enc *msgpack.Encoder
}

func newTestSession(t *testing.T) (*Session, *testPeer) {
	t.Helper()
	toPeer, fromSession := io.Pipe()
	toSession, fromPeer := io.Pipe()
	s := NewSession(toSession, fromSession, func() error {
		fromSession.Close()
		fromPeer.Close()
		return nil
	})
	t.Cleanup(func() { s.Close() })
	return s, &testPeer{
		dec: msgpack.NewDecoder(toPeer),
		enc: msgpack.NewEncoder(fromPeer),
	}
}

func (p *testPeer) readFrame(t *testing.T) []any {
	t.Helper()
	v, err := p.dec.DecodeInterfaceLoose()
	if err != nil {
		t.Fatalf("peer read: %v", err)
	}
	frame, ok := v.([]any)
	if !ok {
		t.Fatalf("peer read: not a frame: %T", v)
	}
	return frame
}

func (p *testPeer) write(t *testing.T, frame []any) {
	t.Helper()
	if err := p.enc.Encode(frame); err != nil {
		t.Fatalf("peer write: %v", err)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	s, peer := newTestSession(t)

	frames := make(chan []any, 1)
	go func() {
		frame := peer.readFrame(t)
		peer.write(t, []any{frameResponse, toInt(frame[1]), nil, "ok"})
		frames <- frame
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res, err := s.Request(ctx, "nvim_get_mode")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if res != "ok" {
		t.Fatalf("result = %v, want ok", res)
	}
	frame := <-frames
	if toInt(frame[0]) != frameRequest {
		t.Fatalf("frame type = %v, want request", frame[0])
	}
	if toString(frame[2]) != "nvim_get_mode" {
		t.Fatalf("method = %q, want nvim_get_mode", toString(frame[2]))
	}
}

func TestRequestErrorResponse(t *testing.T) {
	s, peer := newTestSession(t)

	go func() {
		frame := peer.readFrame(t)
		peer.write(t, []any{frameResponse, toInt(frame[1]), []any{1, "no such method"}, nil})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := s.Request(ctx, "nvim_bogus")
	if err == nil {
		t.Fatal("Request returned nil error for error response")
	}
	rpcErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if rpcErr.Code != 1 || rpcErr.Message != "no such method" {
		t.Fatalf("error = %+v", rpcErr)
	}
}

func TestNotificationDelivery(t *testing.T) {
	s, peer := newTestSession(t)

	peer.write(t, []any{frameNotification, "redraw", []any{
		[]any{"flush", []any{}},
	}})

	select {
	case n := <-s.Notifications():
		if n.Method != "redraw" {
			t.Fatalf("method = %q, want redraw", n.Method)
		}
		if len(n.Params) != 1 {
			t.Fatalf("params = %v", n.Params)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestNotifyFrameShape(t *testing.T) {
	s, peer := newTestSession(t)

	sent := make(chan error, 1)
	go func() { sent <- s.Input("<CR>") }()
	frame := peer.readFrame(t)
	if err := <-sent; err != nil {
		t.Fatalf("Input: %v", err)
	}
	if toInt(frame[0]) != frameNotification {
		t.Fatalf("frame type = %v, want notification", frame[0])
	}
	if toString(frame[1]) != "nvim_input" {
		t.Fatalf("method = %q", toString(frame[1]))
	}
	args, ok := frame[2].([]any)
	if !ok || len(args) != 1 || toString(args[0]) != "<CR>" {
		t.Fatalf("args = %v", frame[2])
	}
}

func TestInputMouseWheelTranslation(t *testing.T) {
	s, peer := newTestSession(t)

	ev := input.MouseEvent{
		Button: input.ButtonWheel,
		Action: input.ActionScrollUp,
		Mods:   input.ModCtrl,
		Col:    4,
		Row:    2,
	}
	sent := make(chan error, 1)
	go func() { sent <- s.InputMouse(ev) }()
	frame := peer.readFrame(t)
	if err := <-sent; err != nil {
		t.Fatalf("InputMouse: %v", err)
	}
	args := frame[2].([]any)
	if toString(args[0]) != "wheel" || toString(args[1]) != "up" {
		t.Fatalf("wheel args = %v %v", args[0], args[1])
	}
	if toString(args[2]) != "C" {
		t.Fatalf("modifier word = %q, want C", toString(args[2]))
	}
	if toInt(args[4]) != 2 || toInt(args[5]) != 4 {
		t.Fatalf("position = %v,%v, want row 2 col 4", args[4], args[5])
	}
}

func TestPendingRequestFailsOnEOF(t *testing.T) {
	toSession, fromPeer := io.Pipe()
	s := NewSession(toSession, io.Discard, nil)

	errCh := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := s.Request(ctx, "nvim_get_mode")
		errCh <- err
	}()

	// Let the request register, then kill the read side.
	time.Sleep(20 * time.Millisecond)
	fromPeer.Close()

	select {
	case err := <-errCh:
		if err != ErrClosed {
			t.Fatalf("err = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request did not fail after stream close")
	}

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not finish")
	}
}

func TestModifierWord(t *testing.T) {
	cases := []struct {
		mods input.Modifiers
		want string
	}{
		{0, ""},
		{input.ModShift, "S"},
		{input.ModCtrl, "C"},
		{input.ModShift | input.ModCtrl | input.ModAlt, "SCA"},
	}
	for _, tc := range cases {
		if got := modifierWord(tc.mods); got != tc.want {
			t.Errorf("modifierWord(%v) = %q, want %q", tc.mods, got, tc.want)
		}
	}
}
