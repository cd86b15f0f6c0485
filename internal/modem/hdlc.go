package modem

// hdlcParse is the HDLC deframer. It is invoked exactly once per decided
// symbol with the NRZI-decoded logical bit, recognizes the flag, reset, and
// stuffed-bit patterns in the rolling 8-bit demodBits register, reassembles
// data bytes LSB-first, and applies the in-band AX25Esc escape on the way
// into rxFIFO. It reports false (mapped by the caller to
// StatusRXFIFOOverrun) whenever a push into rxFIFO had to be dropped because
// the queue was full.
func (m *Modem) hdlcParse(bit bool) bool {
	m.demodBits <<= 1
	if bit {
		m.demodBits |= 1
	}

	// Flag: re-synchronize and start a new frame.
	if m.demodBits == HDLCFlag {
		ok := m.rxFIFO.push(HDLCFlag)
		m.rxstart = ok
		m.currchar = 0
		m.bitIdx = 0
		return ok
	}

	// Reset: seven consecutive ones. Silently lose synchronization; framing
	// resumes at the next flag.
	if m.demodBits&HDLCReset == HDLCReset {
		m.rxstart = false
		return true
	}

	if !m.rxstart {
		return true
	}

	// Stuffed bit: five ones followed by a zero in the low six bits. Discard
	// without advancing bitIdx.
	if m.demodBits&0x3f == 0x3e {
		return true
	}

	ok := true
	if m.demodBits&0x01 != 0 {
		m.currchar |= 0x80
	}

	m.bitIdx++
	if m.bitIdx >= 8 {
		if m.currchar == HDLCFlag || m.currchar == HDLCReset || m.currchar == AX25Esc {
			if !m.rxFIFO.push(AX25Esc) {
				m.rxstart = false
				ok = false
			}
		}
		if !m.rxFIFO.push(m.currchar) {
			m.rxstart = false
			ok = false
		}
		m.currchar = 0
		m.bitIdx = 0
	} else {
		m.currchar >>= 1
	}

	return ok
}
