package input

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func feed(s *Stream, bytes string) {
	for i := 0; i < len(bytes); i++ {
		s.ch <- bytes[i]
	}
}

func TestMovementKeys(t *testing.T) {
	tests := []struct {
		name  string
		bytes string
		want  Input
	}{
		{"a", "a", Input{Left: true, Text: []byte("a")}},
		{"h", "h", Input{Left: true, Text: []byte("h")}},
		{"left arrow", "\x1b[D", Input{Left: true}},
		{"right arrow ss3", "\x1bOC", Input{Right: true}},
		{"d", "d", Input{Right: true, Text: []byte("d")}},
		{"space", " ", Input{Fire: true}},
		{"up arrow", "\x1b[A", Input{Fire: true}},
		{"left and fire", "a ", Input{Left: true, Fire: true, Text: []byte("a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream()
			feed(s, tt.bytes)
			assert.Equal(t, tt.want, s.Read(t0))
		})
	}
}

func TestHeldKeysExpire(t *testing.T) {
	s := newStream()
	feed(s, "d")
	require.True(t, s.Read(t0).Right)

	assert.True(t, s.Read(t0.Add(keyHoldDuration/2)).Right, "key repeat gap")
	assert.False(t, s.Read(t0.Add(keyHoldDuration)).Right)
}

func TestResetForgetsHeldKeys(t *testing.T) {
	s := newStream()
	feed(s, " ")
	require.True(t, s.Read(t0).Fire)

	s.Reset()
	assert.False(t, s.Read(t0).Fire)
}

func TestPressesLastOneFrame(t *testing.T) {
	s := newStream()
	feed(s, "\r\x7fq\x03")

	in := s.Read(t0)
	assert.True(t, in.Enter)
	assert.True(t, in.Backspace)
	assert.True(t, in.Quit)
	assert.True(t, in.Interrupt)
	assert.Equal(t, []byte("q"), in.Text)

	assert.Equal(t, Input{}, s.Read(t0))
}

func TestTextExcludesEscapeSequences(t *testing.T) {
	s := newStream()
	feed(s, "Ab\x1b[C9-_!z")

	in := s.Read(t0)
	assert.Equal(t, "Ab9z", string(in.Text))
	assert.True(t, in.Right)
	assert.False(t, in.Escape)
}

func TestLoneEscape(t *testing.T) {
	s := newStream()
	feed(s, "\x1b")
	assert.False(t, s.Read(t0).Escape, "may be the start of an arrow key")
	assert.False(t, s.Read(t0.Add(escapeTimeout/2)).Escape)

	in := s.Read(t0.Add(escapeTimeout))
	assert.True(t, in.Escape)
	assert.False(t, s.Read(t0.Add(escapeTimeout+time.Millisecond)).Escape, "reported once")
}

func TestEscapeFollowedByKey(t *testing.T) {
	s := newStream()
	feed(s, "\x1bx")

	in := s.Read(t0)
	assert.True(t, in.Escape)
	assert.Equal(t, "x", string(in.Text))
}

func TestArrowSplitAcrossReads(t *testing.T) {
	for _, split := range []struct{ first, second string }{
		{"\x1b", "[D"},
		{"\x1b[", "D"},
		{"\x1bO", "D"},
	} {
		s := newStream()
		feed(s, split.first)
		first := s.Read(t0)
		assert.Equal(t, Input{}, first, "%q", split.first)

		feed(s, split.second)
		second := s.Read(t0.Add(16 * time.Millisecond))
		assert.True(t, second.Left, "%q", split.first)
		assert.False(t, second.Right)
		assert.False(t, second.Escape)
		assert.Empty(t, second.Text)
	}
}

func TestIncompleteSequenceFlushedOnClose(t *testing.T) {
	s := newStream()
	feed(s, "\x1b")
	require.False(t, s.Read(t0).Escape)

	close(s.ch)
	in := s.Read(t0.Add(time.Millisecond))
	assert.True(t, in.Closed)
	assert.True(t, in.Escape)
}

func TestStartStreamReportsEOF(t *testing.T) {
	s := StartStream(strings.NewReader("d"))

	var in Input
	require.Eventually(t, func() bool {
		in = s.Read(time.Now())
		return in.Closed
	}, time.Second, time.Millisecond)
}
