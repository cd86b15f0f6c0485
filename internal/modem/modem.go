// Package modem implements the core of a software AFSK1200 modem: frequency
// discrimination and phase-locked bit recovery on receive, HDLC framing on
// both directions, and a DDS-based Bell 202 tone generator on transmit.
//
// A Modem is driven by two independent sample callbacks - ProcessSample from
// an ADC interrupt and NextSample from a DAC interrupt - plus Read/Write/
// Flush/Error/ClearError from a cooperative foreground context. It owns no
// goroutines and performs no I/O of its own; wiring it to a real or
// simulated sample clock is the job of package driver.
package modem

import "sync/atomic"

// Status is a bitmask of recoverable error conditions, readable and
// clearable only as a whole, matching the original's single status byte.
type Status uint32

// StatusRXFIFOOverrun is set when the deframer could not push a byte or flag
// into the RX queue because it was full; the current frame is abandoned and
// framing resumes at the next flag.
const StatusRXFIFOOverrun Status = 1 << 0

const defaultQueueSize = 256

// Modem is the single aggregate owning all modem state. It is created
// zero-initialized (via NewModem) and from then on is mutated only from the
// ADC/DAC sample callbacks and the foreground Read/Write/Flush/Error calls.
type Modem struct {
	opts Options

	// Receive DSP.
	delay    delayLine
	filter   Filter
	sampledBits byte // rolling register of recent sliced bits, LSB = most recent
	currPhase   int  // in units of PhaseBit, range [0, PhaseMax)
	foundBits   byte // rolling register of decided raw bits, NRZI reference

	// HDLC deframer state (receive side only).
	demodBits byte
	rxstart   bool
	currchar  byte
	bitIdx    int

	// Transmit modulator.
	phaseAcc     uint16
	phaseInc     uint16
	sampleCount  int
	currOut      byte
	txBit        byte
	stuffCnt     int
	bitStuff     bool
	preambleLen  int
	trailerLen   atomic.Int32
	sending      atomic.Bool

	// I/O.
	rxFIFO *byteQueue
	txFIFO *byteQueue
	status atomic.Uint32
}

// NewModem constructs a Modem ready to receive and transmit. The delay line
// starts pre-filled with zeros (its zero value already satisfies that), and
// the TX phase increment is seeded with MarkInc so an idle transmitter keys
// up on the mark tone.
func NewModem(opts Options) *Modem {
	rxSize := opts.RXQueueSize
	if rxSize == 0 {
		rxSize = defaultQueueSize
	}
	txSize := opts.TXQueueSize
	if txSize == 0 {
		txSize = defaultQueueSize
	}

	m := &Modem{
		opts:     opts,
		filter:   newFilter(opts.Filter),
		phaseInc: MarkInc,
		rxFIFO:   newByteQueue(rxSize),
		txFIFO:   newByteQueue(txSize),
	}
	return m
}

// setStatus ORs bit into the status word. Called only from ProcessSample.
func (m *Modem) setStatus(bit Status) {
	for {
		old := m.status.Load()
		next := old | uint32(bit)
		if m.status.CompareAndSwap(old, next) {
			return
		}
	}
}

// Error reads the status word without clearing it.
func (m *Modem) Error() Status {
	return Status(m.status.Load())
}

// ClearError atomically clears the status word.
func (m *Modem) ClearError() {
	m.status.Store(0)
}
