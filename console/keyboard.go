package console

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Keyboard reads raw stdin and yields keypresses for single-step mode and
// the quit key. Only instantiated by cmd/pbpu for interactive use, never
// in tests.
type Keyboard struct {
	keys         chan byte
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewKeyboard creates a keyboard reading from stdin.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		keys:   make(chan byte, 8),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Keys returns the stream of keypresses.
func (kb *Keyboard) Keys() <-chan byte {
	return kb.keys
}

// Start puts stdin into raw mode and begins reading in a goroutine.
// Call Stop() to restore stdin.
func (kb *Keyboard) Start() (err error) {
	kb.fd = int(os.Stdin.Fd())

	// Raw mode disables OS-level echo and line buffering.
	kb.oldTermState, err = term.MakeRaw(kb.fd)
	if err != nil {
		close(kb.done)
		return
	}

	if err = syscall.SetNonblock(kb.fd, true); err != nil {
		_ = term.Restore(kb.fd, kb.oldTermState)
		kb.oldTermState = nil
		close(kb.done)
		return
	}
	kb.nonblockSet = true

	go func() {
		defer close(kb.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-kb.stopCh:
				return
			default:
			}

			n, rerr := syscall.Read(kb.fd, buf)
			if n > 0 {
				select {
				case kb.keys <- buf[0]:
				case <-kb.stopCh:
					return
				}
			}
			if rerr == syscall.EAGAIN || rerr == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if rerr != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()

	return
}

// Stop terminates the reading goroutine and restores stdin.
func (kb *Keyboard) Stop() {
	kb.stopped.Do(func() {
		close(kb.stopCh)
	})
	<-kb.done
	if kb.nonblockSet {
		_ = syscall.SetNonblock(kb.fd, false)
		kb.nonblockSet = false
	}
	if kb.oldTermState != nil {
		_ = term.Restore(kb.fd, kb.oldTermState)
		kb.oldTermState = nil
	}
}
