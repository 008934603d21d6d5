// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"io"
	"slices"
	"time"
)

// keyHoldDuration is how long a movement or fire key is considered "held"
// after its last byte. Terminals send no key-up events, so holding a key is
// seen as a stream of repeats.
const keyHoldDuration = 50 * time.Millisecond

// escapeTimeout is how long an incomplete escape sequence waits for its
// remaining bytes before it counts as a lone ESC.
const escapeTimeout = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	// Held keys
	Left  bool
	Right bool
	Fire  bool

	// Keys pressed this frame
	Enter     bool
	Backspace bool
	Escape    bool
	Quit      bool
	Interrupt bool   // Ctrl-C
	Text      []byte // Letters and digits typed this frame
	Closed    bool   // The input source has ended
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	fire  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool

	partial      []byte // Incomplete escape sequence carried to the next Read
	partialSince time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine ends when r returns an error.
func StartStream(r io.Reader) *Stream {
	s := newStream()
	br := bufio.NewReader(r)
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// Reset forgets held keys, so a key held on one screen does not leak into
// the next one.
func (s *Stream) Reset() {
	s.state = keyState{}
}

// Read drains all available bytes and returns the key state at now.
// Arrow keys arrive as CSI or SS3 escape sequences and never count as text.
// A sequence split across reads is completed on a later read.
func (s *Stream) Read(now time.Time) Input {
	buf := append(s.partial, s.drain()...)
	s.partial = nil
	in := Input{Closed: s.closed}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(&s.state, &in, b, now)
			continue
		}

		rest := buf[i+1:]
		switch {
		case len(rest) >= 2 && isIntroducer(rest[0]):
			switch rest[1] {
			case 'A': // Up arrow
				s.state.fire = now
			case 'C': // Right arrow
				s.state.right = now
			case 'D': // Left arrow
				s.state.left = now
			}
			i += 2
		case (len(rest) == 0 || len(rest) == 1 && isIntroducer(rest[0])) && s.awaitRest(now):
			s.partial = slices.Clone(buf[i:])
			i = len(buf)
		default:
			in.Escape = true
		}
	}
	if s.partial == nil {
		s.partialSince = time.Time{}
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Fire = now.Sub(s.state.fire) < keyHoldDuration
	return in
}

// awaitRest reports whether an incomplete escape sequence may still wait for
// more bytes at now.
func (s *Stream) awaitRest(now time.Time) bool {
	if s.closed {
		return false
	}
	if s.partialSince.IsZero() {
		s.partialSince = now
	}
	return now.Sub(s.partialSince) < escapeTimeout
}

func isIntroducer(b byte) bool {
	return b == '[' || b == 'O'
}

func (s *Stream) drain() []byte {
	var buf []byte
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				continue
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
	return buf
}

// applyByte updates held key timestamps and this frame's presses for one byte.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', ' ':
		state.fire = now
	case 'q', 'Q':
		in.Quit = true
	case '\n', '\r':
		in.Enter = true
	case '\b', '\x7f':
		in.Backspace = true
	case '\x03':
		in.Interrupt = true
	}

	if isAlnum(b) {
		in.Text = append(in.Text, b)
	}
}

func isAlnum(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
