// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: rpc/session.go
// Summary: msgpack-RPC session against an embedded editor process.
// Usage: Spawn starts `nvim --embed`; NewSession runs over any byte stream.

package rpc

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ohwang/neovim-ink/input"
)

// Session is one msgpack-RPC connection to the editor. Outbound writes are
// serialized by a mutex; inbound frames are read by a single goroutine that
// answers pending requests and forwards notifications on a channel. Redraw
// batches therefore arrive strictly in protocol order.
type Session struct {
	writeMu sync.Mutex
	enc     *msgpack.Encoder
	w       io.Writer

	mu      sync.Mutex
	nextID  uint32
	pending map[uint32]chan response
	closed  bool

	notifs chan Notification
	done   chan struct{}
	err    error

	close func() error
}

type response struct {
	result any
	err    error
}

// NewSession wires a session over an arbitrary byte stream and starts its
// read loop. closer, when non-nil, runs on Close after the write side shuts
// down.
func NewSession(r io.Reader, w io.Writer, closer func() error) *Session {
	s := &Session{
		enc:     msgpack.NewEncoder(w),
		w:       w,
		pending: make(map[uint32]chan response),
		notifs:  make(chan Notification, 64),
		done:    make(chan struct{}),
		close:   closer,
	}
	go s.readLoop(r)
	return s
}

// Spawn starts the editor in embedded mode and attaches a session to its
// stdio. Extra args are passed through after --embed.
func Spawn(ctx context.Context, bin string, args ...string) (*Session, error) {
	cmd := exec.CommandContext(ctx, bin, append([]string{"--embed"}, args...)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("rpc: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("rpc: stdout pipe: %w", err)
	}
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("rpc: starting %s: %w", bin, err)
	}
	closer := func() error {
		stdin.Close()
		return cmd.Wait()
	}
	return NewSession(stdout, stdin, closer), nil
}

// Notifications returns the inbound notification stream. The channel is
// closed when the session ends.
func (s *Session) Notifications() <-chan Notification { return s.notifs }

// Done is closed when the read loop exits.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err reports why the session ended, nil on clean EOF.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) readLoop(r io.Reader) {
	dec := msgpack.NewDecoder(r)
	var readErr error
	for {
		v, err := dec.DecodeInterfaceLoose()
		if err != nil {
			if err != io.EOF {
				readErr = fmt.Errorf("rpc: read: %w", err)
			}
			break
		}
		frame, ok := v.([]any)
		if !ok || len(frame) < 3 {
			log.Printf("Session: Dropping malformed frame %T", v)
			continue
		}
		switch toInt(frame[0]) {
		case frameResponse:
			if len(frame) != 4 {
				log.Printf("Session: Dropping short response frame")
				continue
			}
			s.deliver(uint32(toInt(frame[1])), response{
				result: frame[3],
				err:    decodeError(frame[2]),
			})
		case frameNotification:
			params, _ := frame[2].([]any)
			s.notifs <- Notification{Method: toString(frame[1]), Params: params}
		case frameRequest:
			// The editor does not call back into this client; refuse
			// politely so the peer is not left hanging.
			if len(frame) == 4 {
				id := toInt(frame[1])
				method := toString(frame[2])
				log.Printf("Session: Rejecting server request %q", method)
				s.send([]any{frameResponse, id, "client does not accept requests", nil})
			}
		default:
			log.Printf("Session: Unknown frame type %v", frame[0])
		}
	}
	s.shutdown(readErr)
}

func (s *Session) shutdown(err error) {
	s.mu.Lock()
	s.closed = true
	s.err = err
	for id, ch := range s.pending {
		ch <- response{err: ErrClosed}
		delete(s.pending, id)
	}
	s.mu.Unlock()
	close(s.notifs)
	close(s.done)
}

func (s *Session) deliver(id uint32, resp response) {
	s.mu.Lock()
	ch, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if ok {
		ch <- resp
	} else {
		log.Printf("Session: Response for unknown request %d", id)
	}
}

func (s *Session) send(frame []any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.enc.Encode(frame)
}

// Request performs a blocking RPC call.
func (s *Session) Request(ctx context.Context, method string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.nextID++
	id := s.nextID
	ch := make(chan response, 1)
	s.pending[id] = ch
	s.mu.Unlock()

	if err := s.send([]any{frameRequest, id, method, args}); err != nil {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return nil, fmt.Errorf("rpc: sending %s: %w", method, err)
	}

	select {
	case resp := <-ch:
		return resp.result, resp.err
	case <-ctx.Done():
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Notify sends a fire-and-forget notification.
func (s *Session) Notify(method string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()
	if err := s.send([]any{frameNotification, method, args}); err != nil {
		return fmt.Errorf("rpc: notifying %s: %w", method, err)
	}
	return nil
}

// AttachUI subscribes this client to the line-grid redraw stream.
func (s *Session) AttachUI(ctx context.Context, width, height int) error {
	_, err := s.Request(ctx, "nvim_ui_attach", width, height, map[string]any{
		"rgb":          true,
		"ext_linegrid": true,
	})
	return err
}

// TryResize asks the editor to adopt new grid dimensions.
func (s *Session) TryResize(width, height int) error {
	return s.Notify("nvim_ui_try_resize", width, height)
}

// Input forwards key notation produced by the input decoder.
func (s *Session) Input(keys string) error {
	return s.Notify("nvim_input", keys)
}

// InputMouse forwards one decoded mouse event.
func (s *Session) InputMouse(ev input.MouseEvent) error {
	button, action := mouseWords(ev)
	return s.Notify("nvim_input_mouse", button, action, modifierWord(ev.Mods), 0, ev.Row, ev.Col)
}

// Paste hands pasted text over in one piece instead of key by key.
func (s *Session) Paste(text string) error {
	return s.Notify("nvim_paste", text, true, -1)
}

// Close shuts the write side down and reaps the editor process.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.close != nil {
		return s.close()
	}
	return nil
}

// mouseWords translates the decoder's event to the editor's verbs: wheel
// events become ("wheel", "up"/"down").
func mouseWords(ev input.MouseEvent) (button, action string) {
	switch ev.Action {
	case input.ActionScrollUp:
		return "wheel", "up"
	case input.ActionScrollDown:
		return "wheel", "down"
	default:
		return string(ev.Button), string(ev.Action)
	}
}

func modifierWord(mods input.Modifiers) string {
	word := ""
	if mods.Has(input.ModShift) {
		word += "S"
	}
	if mods.Has(input.ModCtrl) {
		word += "C"
	}
	if mods.Has(input.ModAlt) {
		word += "A"
	}
	return word
}
