package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedBits calls hdlcParse once per bit, in slice order - i.e. bits[0] is fed
// first.
func feedBits(m *Modem, bits ...bool) {
	for _, b := range bits {
		m.hdlcParse(b)
	}
}

func flagBits() []bool {
	// 0x7E = 01111110, HDLC transmits LSB first but the flag is a palindrome
	// so direction doesn't matter here.
	return []bool{false, true, true, true, true, true, true, false}
}

func TestHDLCParse_FlagSynchronizes(t *testing.T) {
	m := NewModem(Options{})
	feedBits(m, flagBits()...)

	assert.True(t, m.rxstart)
	b, ok := m.rxFIFO.pop()
	require.True(t, ok)
	assert.Equal(t, HDLCFlag, b)
}

func TestHDLCParse_ResetLosesSync(t *testing.T) {
	m := NewModem(Options{})
	feedBits(m, flagBits()...)
	require.True(t, m.rxstart)

	// Seven consecutive ones: synchronization-loss marker.
	feedBits(m, true, true, true, true, true, true, true)
	assert.False(t, m.rxstart)
}

func TestHDLCParse_IgnoresBitsBeforeFirstFlag(t *testing.T) {
	m := NewModem(Options{})
	// Random data bits with no preceding flag must not be queued.
	feedBits(m, true, false, true, false, true, false, true, false)
	assert.True(t, m.rxFIFO.isEmpty())
}

func TestHDLCParse_StuffedBitDiscarded(t *testing.T) {
	m := NewModem(Options{})
	feedBits(m, flagBits()...)
	_, _ = m.rxFIFO.pop()
	require.True(t, m.rxstart)

	// Five consecutive ones are ordinary data bits; the zero that follows
	// them is the sender's stuffed bit.
	feedBits(m, true, true, true, true, true)

	bitIdxBefore := m.bitIdx
	charBefore := m.currchar

	feedBits(m, false)

	assert.Equal(t, bitIdxBefore, m.bitIdx, "stuffed bit must not advance bitIdx")
	assert.Equal(t, charBefore, m.currchar, "stuffed bit must not accumulate into currchar")
}

func TestHDLCParse_AssemblesDataByteLSBFirst(t *testing.T) {
	m := NewModem(Options{})
	feedBits(m, flagBits()...)
	_, _ = m.rxFIFO.pop()
	require.True(t, m.rxstart)

	// 0x41 ('A') = 0b01000001, transmitted LSB first: 1,0,0,0,0,0,1,0.
	feedBits(m, true, false, false, false, false, false, true, false)

	b, ok := m.rxFIFO.pop()
	require.True(t, ok)
	assert.Equal(t, byte(0x41), b)
}

// stuffBits mimics the transmitter's bit stuffer: a zero is inserted after
// every run of five consecutive ones, so mid-frame data can never present
// the flag or reset bit pattern on the wire. Without this, feeding a
// reserved byte's raw bits (which contain six or seven consecutive ones)
// directly to hdlcParse would be mistaken for a delimiter rather than data -
// exactly the ambiguity stuffing exists to prevent.
func stuffBits(bits []bool) []bool {
	out := make([]bool, 0, len(bits)+len(bits)/5+1)
	run := 0
	for _, b := range bits {
		out = append(out, b)
		if b {
			run++
			if run == BitStuffLen {
				out = append(out, false)
				run = 0
			}
		} else {
			run = 0
		}
	}
	return out
}

func TestHDLCParse_EscapesReservedByteValues(t *testing.T) {
	for _, reserved := range []byte{HDLCFlag, HDLCReset, AX25Esc} {
		t.Run("", func(t *testing.T) {
			m := NewModem(Options{})
			feedBits(m, flagBits()...)
			_, _ = m.rxFIFO.pop()
			require.True(t, m.rxstart)

			feedBits(m, stuffBits(bitsLSBFirst(reserved))...)

			esc, ok := m.rxFIFO.pop()
			require.True(t, ok)
			assert.Equal(t, AX25Esc, esc)

			b, ok := m.rxFIFO.pop()
			require.True(t, ok)
			assert.Equal(t, reserved, b)
		})
	}
}

func TestHDLCParse_OverrunReportedAndDesynchronizes(t *testing.T) {
	m := NewModem(Options{RXQueueSize: 1})
	feedBits(m, flagBits()...)
	_, ok := m.rxFIFO.pop()
	require.True(t, ok)
	require.True(t, m.rxstart)

	// Fill the one-byte queue, then force an overrun on the next flag.
	require.True(t, m.rxFIFO.push(0xAA))
	ok2 := m.hdlcHelperFeedFlagReturn()
	assert.False(t, ok2)
	assert.False(t, m.rxstart)
}

// hdlcHelperFeedFlagReturn feeds a full flag pattern and returns hdlcParse's
// final bit's return value, for asserting the overrun signal specifically.
func (m *Modem) hdlcHelperFeedFlagReturn() bool {
	var last bool
	for _, b := range flagBits() {
		last = m.hdlcParse(b)
	}
	return last
}

// bitsLSBFirst returns b's bits as hdlcParse expects to receive them: LSB
// first.
func bitsLSBFirst(b byte) []bool {
	bits := make([]bool, 8)
	for i := 0; i < 8; i++ {
		bits[i] = (b>>uint(i))&1 != 0
	}
	return bits
}
