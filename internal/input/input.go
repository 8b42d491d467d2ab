// Package input decodes raw terminal bytes into game input.
//
// Terminals only report key presses, never releases, so a key counts as held
// for a short window after its last byte. Auto-repeat keeps held keys alive.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 60 * time.Millisecond

// Key identifies a logical key.
type Key int

const (
	KeyQuit Key = iota
	KeyLeft
	KeyRight
	KeyJump
	KeyShoot
	KeyAimUp
	KeyAimDown
	KeyAimLeft
	KeyAimRight
	KeyAimUpLeft
	KeyAimUpRight
	KeyPause
	KeyEnter
	KeySpace
	KeyNumber

	keyCount
)

// Input is one frame's input state.
type Input struct {
	held    [keyCount]bool
	tapped  [keyCount]bool
	Number  int    // Last digit typed this frame, -1 if none
	Pressed []byte // Raw bytes read this frame
}

// Held reports whether k was pressed within the hold window.
func (in Input) Held(k Key) bool {
	return k >= 0 && k < keyCount && in.held[k]
}

// Tapped reports whether k was pressed during this frame. Use it for one-shot
// actions like jumping or pausing.
func (in Input) Tapped(k Key) bool {
	return k >= 0 && k < keyCount && in.tapped[k]
}

// MoveX returns -1, 0 or 1 for the horizontal movement keys.
func (in Input) MoveX() float64 {
	var x float64
	if in.Held(KeyLeft) {
		x--
	}
	if in.Held(KeyRight) {
		x++
	}
	return x
}

// Aim returns the aim direction from the aim keys, not normalized. Both zero
// means no aim key is held.
func (in Input) Aim() (x, y float64) {
	if in.Held(KeyAimLeft) || in.Held(KeyAimUpLeft) {
		x--
	}
	if in.Held(KeyAimRight) || in.Held(KeyAimUpRight) {
		x++
	}
	if in.Held(KeyAimUp) || in.Held(KeyAimUpLeft) || in.Held(KeyAimUpRight) {
		y--
	}
	if in.Held(KeyAimDown) {
		y++
	}
	return x, y
}

// Stream delivers input bytes via a channel and tracks per-key press times.
type Stream struct {
	ch        chan byte
	lastPress [keyCount]time.Time
	numberVal int
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:        make(chan byte, 128),
		numberVal: -1,
	}
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

// Reset forgets every held key, e.g. when switching screens.
func (s *Stream) Reset() {
	s.lastPress = [keyCount]time.Time{}
	s.numberVal = -1
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return s.parse(buf, now)
}

// parse applies buf to the key state and builds the frame's Input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Number: -1, Pressed: buf}

	press := func(k Key) {
		s.lastPress[k] = now
		in.tapped[k] = true
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI arrow keys: ESC [ A..D
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				press(KeyJump)
				i += 2
				continue
			case 'C':
				press(KeyRight)
				i += 2
				continue
			case 'D':
				press(KeyLeft)
				i += 2
				continue
			case 'B':
				i += 2
				continue
			}
		}

		if k, ok := keyFor(b); ok {
			press(k)
			if k == KeyNumber {
				s.numberVal = int(b - '0')
				in.Number = s.numberVal
			}
		}
	}

	for k := Key(0); k < keyCount; k++ {
		in.held[k] = !s.lastPress[k].IsZero() && now.Sub(s.lastPress[k]) < keyHoldDuration
	}
	return in
}

// keyFor maps a single byte to its key.
func keyFor(b byte) (Key, bool) {
	switch b {
	case 'q', 'Q':
		return KeyQuit, true
	case 'a', 'A':
		return KeyLeft, true
	case 'd', 'D':
		return KeyRight, true
	case 'w', 'W':
		return KeyJump, true
	case 'f', 'F':
		return KeyShoot, true
	case 'i', 'I':
		return KeyAimUp, true
	case 'k', 'K':
		return KeyAimDown, true
	case 'j', 'J':
		return KeyAimLeft, true
	case 'l', 'L':
		return KeyAimRight, true
	case 'u', 'U':
		return KeyAimUpLeft, true
	case 'o', 'O':
		return KeyAimUpRight, true
	case 'p', 'P':
		return KeyPause, true
	case ' ':
		return KeySpace, true
	case '\n', '\r':
		return KeyEnter, true
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return KeyNumber, true
	}
	return 0, false
}
