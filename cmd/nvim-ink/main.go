// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/nvim-ink/main.go
// Summary: Terminal front end for an embedded Neovim process.
// Usage: Run `nvim-ink [files...]`; flags override the config file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ohwang/neovim-ink/config"
	"github.com/ohwang/neovim-ink/grid"
	"github.com/ohwang/neovim-ink/input"
	"github.com/ohwang/neovim-ink/redraw"
	"github.com/ohwang/neovim-ink/render"
	"github.com/ohwang/neovim-ink/rpc"
	"github.com/ohwang/neovim-ink/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("nvim-ink", flag.ContinueOnError)
	nvimPath := fs.String("nvim", "", "editor binary (default from config file)")
	logPath := fs.String("log", "", "append diagnostics to this file")
	noMouse := fs.Bool("no-mouse", false, "disable mouse reporting")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	// Stdout is the UI, so diagnostics go to a file or nowhere.
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	settings := config.Load()
	if *nvimPath != "" {
		settings.NvimPath = *nvimPath
	}
	if *noMouse {
		settings.Mouse = false
	}

	t, err := term.Open(settings.Mouse)
	if err != nil {
		return err
	}
	width, height, err := t.Size()
	if err != nil {
		return fmt.Errorf("query terminal size: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	args := append(settings.NvimArgs, fs.Args()...)
	session, err := rpc.Spawn(ctx, settings.NvimPath, args...)
	if err != nil {
		return err
	}

	if err := t.Setup(); err != nil {
		session.Close()
		return err
	}
	defer t.Restore()
	defer session.Close()

	attachCtx, attachDone := context.WithTimeout(ctx, 10*time.Second)
	err = session.AttachUI(attachCtx, width, height)
	attachDone()
	if err != nil {
		return fmt.Errorf("attach UI: %w", err)
	}

	return eventLoop(t, session, settings, width, height)
}

// eventLoop is the single place grid state is touched. Redraw batches,
// user input, and resizes all funnel through one goroutine, so nothing
// reads the grid mid-batch.
func eventLoop(t *term.Terminal, session *rpc.Session, settings config.Settings, width, height int) error {
	g := grid.New(width, height)
	cache := render.NewCache()
	display := term.NewDisplay(t)
	decoder := input.KeyDecoder{DistinguishDelete: settings.DistinguishDelete}

	router := redraw.NewRouter(g)
	router.OnFlush = func(generation uint64, dirty []int) {
		if err := display.Paint(cache.Sync(g, dirty)); err != nil {
			log.Printf("Main: Paint failed: %v", err)
		}
	}

	events := make(chan term.Event, 16)
	readErr := make(chan error, 1)
	go func() {
		r := term.NewReader(t.Input())
		for {
			ev, err := r.Next()
			if err != nil {
				readErr <- err
				return
			}
			events <- ev
		}
	}()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)

	for {
		select {
		case n, ok := <-session.Notifications():
			if !ok {
				return session.Err()
			}
			if n.Method == "redraw" {
				router.Apply(n.Params)
			}

		case ev := <-events:
			if err := forward(session, decoder, ev); err != nil {
				if err == rpc.ErrClosed {
					return session.Err()
				}
				log.Printf("Main: Input send failed: %v", err)
			}

		case err := <-readErr:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("input stream: %w", err)

		case <-winch:
			w, h, err := t.Size()
			if err != nil {
				log.Printf("Main: Size query failed: %v", err)
				continue
			}
			if err := session.TryResize(w, h); err != nil {
				log.Printf("Main: Resize failed: %v", err)
			}
			if err := display.Clear(); err != nil {
				log.Printf("Main: Clear failed: %v", err)
			}

		case <-session.Done():
			return session.Err()
		}
	}
}

func forward(session *rpc.Session, decoder input.KeyDecoder, ev term.Event) error {
	switch e := ev.(type) {
	case term.KeyInput:
		return session.Input(decoder.Notation(e.Key))
	case term.MouseInput:
		return session.InputMouse(e.Event)
	case term.PasteInput:
		return session.Paste(e.Text)
	}
	return nil
}
