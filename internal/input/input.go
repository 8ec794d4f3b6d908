// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses, so a held key is one whose autorepeat keeps
// arriving within this window.
const keyHoldDuration = 120 * time.Millisecond

// escapeWait is how long a trailing ESC waits for the rest of an arrow
// sequence before it counts as the Escape key.
const escapeWait = 30 * time.Millisecond

// Key identifies a tracked key.
type Key int

const (
	KeyQuit Key = iota
	KeyForward
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyLookUp
	KeyLookDown
	KeyLookLeft
	KeyLookRight
	KeyFire
	KeyEnter
	KeyEscape
	KeyBackspace
	keyCount
)

// Input represents the current frame's input state.
type Input struct {
	Quit      bool
	Forward   bool // w
	Backward  bool // s
	Left      bool // a
	Right     bool // d
	Up        bool // r
	Down      bool // f
	LookUp    bool // Up arrow, i
	LookDown  bool // Down arrow, k
	LookLeft  bool // Left arrow, j
	LookRight bool // Right arrow, l
	Fire      bool // Space
	Enter     bool
	Escape    bool
	Backspace bool
	Pressed   []byte // Raw bytes received this frame
}

// Held reports whether k is part of this frame's state.
func (in Input) Held(k Key) bool {
	switch k {
	case KeyQuit:
		return in.Quit
	case KeyForward:
		return in.Forward
	case KeyBackward:
		return in.Backward
	case KeyLeft:
		return in.Left
	case KeyRight:
		return in.Right
	case KeyUp:
		return in.Up
	case KeyDown:
		return in.Down
	case KeyLookUp:
		return in.LookUp
	case KeyLookDown:
		return in.LookDown
	case KeyLookLeft:
		return in.LookLeft
	case KeyLookRight:
		return in.LookRight
	case KeyFire:
		return in.Fire
	case KeyEnter:
		return in.Enter
	case KeyEscape:
		return in.Escape
	case KeyBackspace:
		return in.Backspace
	}
	return false
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch        chan byte
	last      [keyCount]time.Time // Last press per key
	closed    bool
	pending   []byte    // Unfinished escape sequence carried to the next read
	pendingAt time.Time // When pending last grew
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := NewStream(128)
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// NewStream returns a stream fed through Feed instead of a reader.
func NewStream(buffer int) *Stream {
	return &Stream{ch: make(chan byte, buffer)}
}

// Feed queues bytes as if they were read from the terminal.
func (s *Stream) Feed(b ...byte) {
	for _, c := range b {
		s.ch <- c
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool { return s.closed }

// Reset forgets every held key, so keys pressed before a pause do not
// leak into the next frame.
func (s *Stream) Reset() {
	s.last = [keyCount]time.Time{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return ReadInputAt(s, time.Now())
}

// ReadInputAt is ReadInput with an explicit frame time.
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// Uses key state persistence to allow detecting simultaneous key combinations.
func ReadInputAt(s *Stream, now time.Time) Input {
	var received []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			received = append(received, b)
		default:
			break drain
		}
	}

	buf := make([]byte, 0, len(s.pending)+len(received))
	buf = append(append(buf, s.pending...), received...)
	s.pending = nil

	// Bytes of one arrow key can arrive across two reads.
	if n := incompleteEscape(buf); n > 0 && !s.closed {
		if len(received) > 0 {
			s.pendingAt = now
		}
		if now.Sub(s.pendingAt) < escapeWait {
			s.pending = append(s.pending, buf[len(buf)-n:]...)
			buf = buf[:len(buf)-n]
		}
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrowKey(buf[i+2]); ok {
				s.last[k] = now
				i += 2
				continue
			}
		}

		if k, ok := byteKey(b); ok {
			s.last[k] = now
		}
	}

	held := func(k Key) bool {
		t := s.last[k]
		return !t.IsZero() && now.Sub(t) < keyHoldDuration
	}

	return Input{
		Quit:      s.closed || held(KeyQuit),
		Forward:   held(KeyForward),
		Backward:  held(KeyBackward),
		Left:      held(KeyLeft),
		Right:     held(KeyRight),
		Up:        held(KeyUp),
		Down:      held(KeyDown),
		LookUp:    held(KeyLookUp),
		LookDown:  held(KeyLookDown),
		LookLeft:  held(KeyLookLeft),
		LookRight: held(KeyLookRight),
		Fire:      held(KeyFire),
		Enter:     held(KeyEnter),
		Escape:    held(KeyEscape),
		Backspace: held(KeyBackspace),
		Pressed:   received,
	}
}

// incompleteEscape returns the length of a trailing ESC or ESC [ in buf.
func incompleteEscape(buf []byte) int {
	n := len(buf)
	switch {
	case n >= 1 && buf[n-1] == '\x1b':
		return 1
	case n >= 2 && buf[n-2] == '\x1b' && buf[n-1] == '[':
		return 2
	}
	return 0
}

func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyLookUp, true
	case 'B':
		return KeyLookDown, true
	case 'C':
		return KeyLookRight, true
	case 'D':
		return KeyLookLeft, true
	}
	return 0, false
}

func byteKey(b byte) (Key, bool) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C
		return KeyQuit, true
	case 'w', 'W':
		return KeyForward, true
	case 's', 'S':
		return KeyBackward, true
	case 'a', 'A':
		return KeyLeft, true
	case 'd', 'D':
		return KeyRight, true
	case 'r', 'R':
		return KeyUp, true
	case 'f', 'F':
		return KeyDown, true
	case 'i', 'I':
		return KeyLookUp, true
	case 'k', 'K':
		return KeyLookDown, true
	case 'j', 'J':
		return KeyLookLeft, true
	case 'l', 'L':
		return KeyLookRight, true
	case ' ':
		return KeyFire, true
	case '\n', '\r':
		return KeyEnter, true
	case '\x1b':
		return KeyEscape, true
	case '\b', '\x7f':
		return KeyBackspace, true
	}
	return 0, false
}
