package modem

import (
	"runtime"
	"time"
)

// Read drains up to len(buf) bytes from the RX queue, behavior governed by
// Options.RXTimeoutMS: 0 returns whatever is immediately available; -1
// blocks until len(buf) bytes have been delivered; a positive value waits
// up to that many milliseconds per byte and returns the short count on
// timeout. Read never returns a non-nil error; short reads are signaled by
// the returned count, matching the original KFile read contract.
func (m *Modem) Read(buf []byte) (int, error) {
	switch {
	case m.opts.RXTimeoutMS == 0:
		n := 0
		for n < len(buf) {
			b, ok := m.rxFIFO.pop()
			if !ok {
				break
			}
			buf[n] = b
			n++
		}
		return n, nil

	case m.opts.RXTimeoutMS < 0:
		for i := range buf {
			buf[i] = m.blockingPop()
		}
		return len(buf), nil

	default:
		timeout := time.Duration(m.opts.RXTimeoutMS) * time.Millisecond
		for i := range buf {
			b, ok := m.popBefore(time.Now().Add(timeout))
			if !ok {
				return i, nil
			}
			buf[i] = b
		}
		return len(buf), nil
	}
}

func (m *Modem) blockingPop() byte {
	for {
		if b, ok := m.rxFIFO.pop(); ok {
			return b
		}
		runtime.Gosched()
	}
}

func (m *Modem) popBefore(deadline time.Time) (byte, bool) {
	for {
		if b, ok := m.rxFIFO.pop(); ok {
			return b, true
		}
		if !time.Now().Before(deadline) {
			return 0, false
		}
		runtime.Gosched()
	}
}

// Write blocks on each byte until the TX queue has room, pushes it, and
// ensures transmission is started - idempotent, so writing while already
// sending only re-arms the trailer.
func (m *Modem) Write(buf []byte) (int, error) {
	for _, b := range buf {
		for m.txFIFO.isFull() {
			runtime.Gosched()
		}
		m.txFIFO.push(b)
		m.txStart()
	}
	return len(buf), nil
}

// Flush spins until the modulator finishes the current transmission. It
// must never be called from a sample callback.
func (m *Modem) Flush() {
	for m.Sending() {
		runtime.Gosched()
	}
}
