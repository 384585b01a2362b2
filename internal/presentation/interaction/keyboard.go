package interaction

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// KeyType tells printable keys apart from a lone Escape.
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
)

const (
	// KeyCtrlC is the byte a raw terminal delivers for Ctrl+C.
	KeyCtrlC rune = 3
	keyEsc   byte = 27
)

// KeyEvent is one decoded key press.
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyboardReader puts stdin in raw mode and delivers key presses on a
// channel until closed.
type KeyboardReader struct {
	in       io.Reader
	fd       int
	oldState *unix.Termios

	events chan KeyEvent
	stop   chan struct{}
	once   sync.Once
}

// NewKeyboardReader switches the terminal on stdin to raw mode and starts
// reading from it.
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := newKeyboardReader(os.Stdin)
	kr.fd = int(os.Stdin.Fd())
	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}
	go kr.readInput()
	return kr, nil
}

func newKeyboardReader(in io.Reader) *KeyboardReader {
	return &KeyboardReader{
		in:     in,
		fd:     -1,
		events: make(chan KeyEvent, 10),
		stop:   make(chan struct{}),
	}
}

// readInput forwards decoded keys until the reader is closed, the input
// ends or a read fails for good. The events channel is never closed.
func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 8)
	for {
		n, err := kr.in.Read(buf)
		if n > 0 {
			if event, ok := decodeKey(buf[:n]); ok {
				select {
				case kr.events <- event:
				case <-kr.stop:
					return
				}
			}
		}
		if err != nil && !transientReadError(err) {
			return
		}
		select {
		case <-kr.stop:
			return
		default:
		}
	}
}

// transientReadError reports whether a failed read is worth retrying.
func transientReadError(err error) bool {
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN)
}

// decodeKey turns one read into a key. Multi-byte escape sequences such as
// arrow keys are not bound to anything and are dropped.
func decodeKey(buf []byte) (KeyEvent, bool) {
	switch {
	case len(buf) == 0:
		return KeyEvent{}, false
	case buf[0] == keyEsc && len(buf) == 1:
		return KeyEvent{Key: rune(keyEsc), Type: KeyEscape}, true
	case buf[0] == keyEsc:
		return KeyEvent{}, false
	}
	return KeyEvent{Key: rune(buf[0]), Type: KeyChar}, true
}

// Events returns the key channel.
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.events
}

// Close stops reading and restores the terminal. It is safe to call twice.
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		err = kr.disableRawMode()
	})
	return err
}

func rawState(old *unix.Termios) *unix.Termios {
	raw := *old
	// ISIG stays on so the terminal still turns Ctrl+C into SIGINT.
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	return &raw
}
