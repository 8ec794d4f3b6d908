package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestReadInputMapsKeys(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		key  Key
	}{
		{"forward", []byte("w"), KeyForward},
		{"backward", []byte("S"), KeyBackward},
		{"strafe left", []byte("a"), KeyLeft},
		{"strafe right", []byte("d"), KeyRight},
		{"rise", []byte("r"), KeyUp},
		{"fall", []byte("f"), KeyDown},
		{"fire", []byte(" "), KeyFire},
		{"enter", []byte("\r"), KeyEnter},
		{"quit", []byte("q"), KeyQuit},
		{"ctrl c", []byte{0x03}, KeyQuit},
		{"backspace", []byte{0x7f}, KeyBackspace},
		{"arrow up", []byte("\x1b[A"), KeyLookUp},
		{"arrow down", []byte("\x1b[B"), KeyLookDown},
		{"arrow right", []byte("\x1b[C"), KeyLookRight},
		{"arrow left", []byte("\x1b[D"), KeyLookLeft},
		{"look left letter", []byte("j"), KeyLookLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(16)
			s.Feed(tt.in...)
			in := ReadInputAt(s, t0)
			assert.True(t, in.Held(tt.key))
			assert.Equal(t, tt.in, in.Pressed)
		})
	}
}

func TestArrowIsNotEscape(t *testing.T) {
	s := NewStream(16)
	s.Feed([]byte("\x1b[A")...)
	in := ReadInputAt(s, t0)
	assert.True(t, in.LookUp)
	assert.False(t, in.Escape)
}

func TestArrowSplitAcrossReads(t *testing.T) {
	s := NewStream(16)
	s.Feed(0x1b)
	in := ReadInputAt(s, t0)
	assert.False(t, in.Escape)
	assert.Equal(t, []byte{0x1b}, in.Pressed)

	s.Feed('[', 'A')
	in = ReadInputAt(s, t0.Add(10*time.Millisecond))
	assert.True(t, in.LookUp)
	assert.False(t, in.Escape)
	assert.False(t, in.Left)

	s.Feed(0x1b, '[')
	in = ReadInputAt(s, t0.Add(20*time.Millisecond))
	assert.False(t, in.Escape)
	s.Feed('C')
	in = ReadInputAt(s, t0.Add(30*time.Millisecond))
	assert.True(t, in.LookRight)
	assert.False(t, in.Escape)
}

func TestLoneEscapeAfterWait(t *testing.T) {
	s := NewStream(16)
	s.Feed(0x1b)
	assert.False(t, ReadInputAt(s, t0).Escape)
	assert.False(t, ReadInputAt(s, t0.Add(escapeWait/2)).Escape)
	assert.True(t, ReadInputAt(s, t0.Add(escapeWait)).Escape)
}

func TestEscapeFollowedByKey(t *testing.T) {
	s := NewStream(16)
	s.Feed(0x1b, 'w')
	in := ReadInputAt(s, t0)
	assert.True(t, in.Escape)
	assert.True(t, in.Forward)
}

func TestKeysStayHeldWithinWindow(t *testing.T) {
	s := NewStream(16)
	s.Feed('w', 'd')
	in := ReadInputAt(s, t0)
	assert.True(t, in.Forward)
	assert.True(t, in.Right)

	in = ReadInputAt(s, t0.Add(keyHoldDuration/2))
	assert.True(t, in.Forward, "autorepeat gap keeps the key held")
	assert.Empty(t, in.Pressed)

	in = ReadInputAt(s, t0.Add(keyHoldDuration))
	assert.False(t, in.Forward)
	assert.False(t, in.Right)
}

func TestReset(t *testing.T) {
	s := NewStream(16)
	s.Feed(' ')
	require.True(t, ReadInputAt(s, t0).Fire)
	s.Reset()
	assert.False(t, ReadInputAt(s, t0).Fire)
}

func TestClosedStreamQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("w")))
	require.Eventually(t, func() bool {
		return ReadInput(s).Quit
	}, time.Second, 5*time.Millisecond)
	assert.True(t, s.Closed())
}
